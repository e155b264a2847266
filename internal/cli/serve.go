package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tierdesk/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP front end",
	Long: `Serve exposes the query router over HTTP:
  POST /v1/ask   {"query": "..."} -> conversation transcript as JSON
  GET  /healthz  liveness and fact table counts
  GET  /metrics  prometheus metrics

Example:
  tierdesk serve
  tierdesk serve --addr :9090 --llm-provider openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&generalPath, "general", "", "general fact table path (overrides config)")
	serveCmd.Flags().StringVar(&seniorPath, "senior", "", "senior fact table path (overrides config)")
	serveCmd.Flags().IntVar(&threshold, "threshold", 0, "match threshold 0-100 (overrides config)")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyOverrides(&cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(cfg.Server.Addr, a.orch, a.store, a.logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
