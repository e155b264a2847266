package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tierdesk/internal/kb"
	"tierdesk/internal/model"
)

// kbCmd represents the kb command
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the fact tables",
}

var kbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate both fact table sources",
	Long: `Check loads both fact table sources and reports row counts and
skipped rows without starting the router. Fails only when neither
tier can be loaded.

Example:
  tierdesk kb check
  tierdesk kb check --general ./general.csv --senior ./senior.csv`,
	RunE: runKBCheck,
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbCheckCmd)

	kbCheckCmd.Flags().StringVar(&generalPath, "general", "", "general fact table path (overrides config)")
	kbCheckCmd.Flags().StringVar(&seniorPath, "senior", "", "senior fact table path (overrides config)")
}

func runKBCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyOverrides(&cfg)

	sources := []kb.Source{
		{Tier: model.TierGeneral, Path: cfg.KB.General.Path, Format: cfg.KB.General.Format, Table: cfg.KB.General.Table},
		{Tier: model.TierSenior, Path: cfg.KB.Senior.Path, Format: cfg.KB.Senior.Format, Table: cfg.KB.Senior.Table},
	}

	failures := 0
	for _, src := range sources {
		res := kb.Load(src, zap.NewNop())
		if res.Err != nil {
			failures++
			fmt.Printf("✗ %-8s %s: %v\n", src.Tier, src.Path, res.Err)
			continue
		}
		fmt.Printf("✓ %-8s %s: %d entries, %d skipped\n", src.Tier, src.Path, len(res.Entries), res.Skipped)
	}

	if failures == len(sources) {
		return fmt.Errorf("no fact tables could be loaded")
	}
	return nil
}
