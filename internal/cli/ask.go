package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tierdesk/internal/model"
)

var (
	generalPath string
	seniorPath  string
	threshold   int
	llmProvider string
	llmModel    string
	askTimeout  time.Duration
	jsonOutput  bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Route a single customer query and print the transcript",
	Long: `Ask runs one customer query through the two-tier pipeline:
- The general responder answers from the general fact table
- Sensitive, unknown, or low-confidence queries escalate to the senior tier
- The senior responder answers from its fact table or the language model

Example:
  tierdesk ask "What are your store hours?"
  tierdesk ask "I found a foreign object in my food" --llm-provider openai
  tierdesk ask "where is my order" --general ./general.csv --senior ./senior.csv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&generalPath, "general", "", "general fact table path (overrides config)")
	askCmd.Flags().StringVar(&seniorPath, "senior", "", "senior fact table path (overrides config)")
	askCmd.Flags().IntVar(&threshold, "threshold", 0, "match threshold 0-100 (overrides config)")
	askCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	askCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall query timeout")
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the conversation as JSON")
}

// applyOverrides folds command flags into the loaded config.
func applyOverrides(cfg *model.Config) {
	if generalPath != "" {
		cfg.KB.General.Path = generalPath
	}
	if seniorPath != "" {
		cfg.KB.Senior.Path = seniorPath
	}
	if threshold > 0 {
		cfg.Matching.Threshold = threshold
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg := loadConfig()
	applyOverrides(&cfg)

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	conv, err := a.orch.Run(ctx, query)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(conv)
	}

	printConversation(conv)
	return nil
}

func printConversation(conv *model.Conversation) {
	for _, turn := range conv.Turns {
		fmt.Printf("[%s] %s\n", turn.Speaker, turn.Text)
	}
	fmt.Println()
	if conv.Escalated {
		fmt.Printf("escalated: yes (%s)\n", conv.Reason)
	} else {
		fmt.Println("escalated: no")
	}
	fmt.Printf("answer source: %s\n", conv.AnswerSource)
}
