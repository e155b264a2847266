package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tierdesk/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Route multiple queries from a file in parallel",
	Long: `Batch processes customer queries concurrently:
- Read queries from the input file (one per line, # comments skipped)
- Run each query through its own two-tier conversation
- Optionally write each transcript as JSON to an output directory

Example:
  tierdesk batch queries.txt
  tierdesk batch queries.txt --concurrency 8 --output-dir ./transcripts
  tierdesk batch queries.txt --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write each transcript as JSON into this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&generalPath, "general", "", "general fact table path (overrides config)")
	batchCmd.Flags().StringVar(&seniorPath, "senior", "", "senior fact table path (overrides config)")
	batchCmd.Flags().IntVar(&threshold, "threshold", 0, "match threshold 0-100 (overrides config)")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	applyOverrides(&cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	processor := worker.NewBatchProcessor(a.orch, cfg.Concurrency.Workers)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	answered := 0
	escalated := 0
	failed := 0

	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %q: %v\n", result.Query, result.Error)
			continue
		}

		conv := result.Conversation
		answered++
		if conv.Escalated {
			escalated++
		}

		fmt.Fprintf(os.Stderr, "✓ %q -> %s\n", conv.Query, conv.AnswerSource)

		if outputDir != "" {
			path := filepath.Join(outputDir, conv.ID+".json")
			data, err := json.MarshalIndent(conv, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ %q: encode transcript: %v\n", conv.Query, err)
				continue
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %q: write transcript: %v\n", conv.Query, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Answered:   %d\n", answered)
	fmt.Fprintf(os.Stderr, "  Escalated:  %d\n", escalated)
	fmt.Fprintf(os.Stderr, "  Failed:     %d\n", failed)
	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "  Output:     %s\n", outputDir)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
