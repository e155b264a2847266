package model

import "time"

// Config holds the complete application configuration
type Config struct {
	KB           KBConfig          `yaml:"kb"`
	Matching     MatchingConfig    `yaml:"matching"`
	Sensitivity  SensitivityConfig `yaml:"sensitivity"`
	LLM          LLMConfig         `yaml:"llm"`
	Cache        CacheConfig       `yaml:"cache"`
	Server       ServerConfig      `yaml:"server"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Logging      LoggingConfig     `yaml:"logging"`
}

// KBConfig describes the two fact table sources
type KBConfig struct {
	General SourceConfig `yaml:"general"`
	Senior  SourceConfig `yaml:"senior"`
}

// SourceConfig describes a single fact table source
type SourceConfig struct {
	// Path to the CSV file or SQLite database
	Path string `yaml:"path"`

	// Format is "csv" or "sqlite" (default: csv)
	Format string `yaml:"format"`

	// Table is the SQLite table name (default: facts)
	Table string `yaml:"table"`
}

// MatchingConfig controls fuzzy lookup interpretation
type MatchingConfig struct {
	// Threshold is the minimum score (0-100) treated as a confident match
	Threshold int `yaml:"threshold"`
}

// SensitivityConfig controls the sensitivity classifier
type SensitivityConfig struct {
	// Categories maps category name to keyword list. Empty means
	// built-in defaults.
	Categories map[string][]string `yaml:"categories"`
}

// LLMConfig holds language model provider configuration
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic (usually from env)
	APIKey string `yaml:"-"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url"`

	// Timeout for API requests in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`
}

// CacheConfig controls the model-answer cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ServerConfig controls the HTTP front end
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig controls provider rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		KB: KBConfig{
			General: SourceConfig{Path: "data/general_agent.csv", Format: "csv", Table: "facts"},
			Senior:  SourceConfig{Path: "data/senior_agent.csv", Format: "csv", Table: "facts"},
		},
		Matching: MatchingConfig{
			Threshold: 75,
		},
		Sensitivity: SensitivityConfig{
			Categories: nil, // built-in defaults
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 500,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
