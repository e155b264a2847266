package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tierdesk/internal/agent"
	"tierdesk/internal/cache"
	"tierdesk/internal/classify"
	"tierdesk/internal/kb"
	"tierdesk/internal/llm"
	"tierdesk/internal/logging"
	"tierdesk/internal/model"
	"tierdesk/internal/session"
	"tierdesk/internal/worker"
)

// app bundles the wired components behind the commands.
type app struct {
	cfg    model.Config
	logger *zap.Logger
	store  *kb.Store
	orch   *session.Orchestrator
}

// loadConfig merges defaults, the config file, and environment variables.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()

	stringOpt := func(key string, target *string) {
		if viper.IsSet(key) {
			*target = viper.GetString(key)
		}
	}

	stringOpt("kb.general.path", &cfg.KB.General.Path)
	stringOpt("kb.general.format", &cfg.KB.General.Format)
	stringOpt("kb.general.table", &cfg.KB.General.Table)
	stringOpt("kb.senior.path", &cfg.KB.Senior.Path)
	stringOpt("kb.senior.format", &cfg.KB.Senior.Format)
	stringOpt("kb.senior.table", &cfg.KB.Senior.Table)

	if viper.IsSet("matching.threshold") {
		cfg.Matching.Threshold = viper.GetInt("matching.threshold")
	}
	if viper.IsSet("sensitivity.categories") {
		cfg.Sensitivity.Categories = viper.GetStringMapStringSlice("sensitivity.categories")
	}

	stringOpt("llm.provider", &cfg.LLM.Provider)
	stringOpt("llm.model", &cfg.LLM.Model)
	stringOpt("llm.base_url", &cfg.LLM.BaseURL)
	if viper.IsSet("llm.timeout") {
		cfg.LLM.Timeout = viper.GetInt("llm.timeout")
	}
	if viper.IsSet("llm.max_tokens") {
		cfg.LLM.MaxTokens = viper.GetInt("llm.max_tokens")
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	stringOpt("cache.dir", &cfg.Cache.Dir)

	stringOpt("server.addr", &cfg.Server.Addr)

	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.IsSet("rate_limiting.requests_per_second") {
		cfg.RateLimiting.RequestsPerSecond = viper.GetFloat64("rate_limiting.requests_per_second")
	}
	if viper.IsSet("rate_limiting.burst_size") {
		cfg.RateLimiting.BurstSize = viper.GetInt("rate_limiting.burst_size")
	}

	stringOpt("logging.level", &cfg.Logging.Level)
	stringOpt("logging.format", &cfg.Logging.Format)
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}

	// API keys come from the environment, never the config file.
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg
}

// buildApp wires the store, classifier, responders and orchestrator.
func buildApp(cfg model.Config) (*app, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := kb.NewStoreFromSources(
		kb.Source{Tier: model.TierGeneral, Path: cfg.KB.General.Path, Format: cfg.KB.General.Format, Table: cfg.KB.General.Table},
		kb.Source{Tier: model.TierSenior, Path: cfg.KB.Senior.Path, Format: cfg.KB.Senior.Format, Table: cfg.KB.Senior.Table},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("load fact tables: %w", err)
	}

	classifier := classify.New(cfg.Sensitivity.Categories)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create model provider: %w", err)
	}
	if provider == nil {
		logger.Info("no model provider configured; unanswerable escalations will defer")
	}

	var answers cache.Cache
	if cfg.Cache.Enabled {
		answers = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	general := agent.NewGeneral(store, classifier, cfg.Matching.Threshold, logger)
	senior := agent.NewSenior(agent.SeniorOptions{
		Store:     store,
		Provider:  provider,
		Answers:   answers,
		Limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Threshold: cfg.Matching.Threshold,
		MaxTokens: cfg.LLM.MaxTokens,
		Logger:    logger,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		orch:   session.New(general, senior, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
}
