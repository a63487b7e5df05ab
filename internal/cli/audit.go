package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factseeker/factseeker/internal/audit"
)

var (
	auditDay  string
	auditJSON bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the explainability log",
	Long: `Audit prints the decision records written on a given day, including
the detection confidence, the evidence used, the verdict, and the derived
reasoning chain.

Example:
  factseeker audit
  factseeker audit --day 2025-06-01
  factseeker audit --day 2025-06-01 --json`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditDay, "day", "", "day to inspect, YYYY-MM-DD (default: today)")
	auditCmd.Flags().StringVar(&auditDir, "audit-dir", "logs", "directory of the explainability log")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print raw JSON records")
}

func runAudit(cmd *cobra.Command, args []string) error {
	day := time.Now().UTC()
	if auditDay != "" {
		parsed, err := time.Parse("2006-01-02", auditDay)
		if err != nil {
			return fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", auditDay, err)
		}
		day = parsed
	}

	log, err := audit.NewLog(auditDir)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	records, err := log.ReadDay(day)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	if len(records) == 0 {
		fmt.Printf("No records for %s\n", day.Format("2006-01-02"))
		return nil
	}

	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	fmt.Printf("%d records for %s\n\n", len(records), day.Format("2006-01-02"))
	for _, rec := range records {
		fmt.Printf("─────────────────────────────────────────────\n")
		fmt.Printf("%s  %s\n", rec.Timestamp.Format(time.RFC3339), rec.ID)
		fmt.Printf("Content: %q\n", rec.Content.Text)
		if rec.Detection != nil {
			fmt.Printf("Detection: %s (%.0f%% confidence)\n", rec.Detection.Label, rec.Detection.Confidence*100)
		}
		if rec.Verification != nil {
			fmt.Printf("Verdict: %s\n", rec.Verification.Verdict)
			for _, doc := range rec.Verification.Evidence {
				fmt.Printf("Evidence: [%s] %s\n", doc.SourceTag, doc.Text)
			}
		}
		fmt.Printf("Action: %s\n", rec.Action)
		if rec.Reasoning != "" {
			fmt.Printf("Reasoning: %s\n", rec.Reasoning)
		}
	}

	return nil
}
