package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factseeker/factseeker/internal/model"
	"github.com/factseeker/factseeker/internal/pipeline"
)

var checkTimeout time.Duration

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Screen and fact-check a single claim",
	Long: `Check runs the detection and verification stages against one piece of
text and prints the result. Nothing is written to the audit log and no
alerts are sent.

Example:
  factseeker check "Scientists discovered a secret cure for all diseases"
  factseeker check "The earth is flat" --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall check timeout")
	checkCmd.Flags().IntVar(&topK, "top-k", 2, "evidence documents retrieved per claim")
	checkCmd.Flags().StringVar(&corpusPath, "corpus", "", "YAML corpus file (default: built-in trusted facts)")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "reasoning provider (openai, anthropic, ollama; default: disabled)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "reasoning model name")
	checkCmd.Flags().StringVar(&embedderName, "embedder", "", "embedding provider (openai, hashing; default: auto-select by credentials)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	comps, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}

	detection := comps.detector.Detect(text)
	fmt.Printf("Detection: %s (%.0f%% confidence)\n", detection.Label, detection.Confidence*100)
	if detection.Heuristic != "" {
		fmt.Printf("Matched rule: %s\n", detection.Heuristic)
	}

	if !detection.Flagged {
		fmt.Println("Below the flag threshold; no fact-check performed.")
		return nil
	}

	evidence, err := comps.index.Retrieve(ctx, text, cfg.Retrieval.TopK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: evidence retrieval failed: %v\n", err)
	}

	result := comps.verifier.Verify(ctx, text, evidence)
	fmt.Printf("\nVerdict: %s\n", result.Verdict)
	fmt.Printf("Explanation: %s\n", result.Explanation)
	if result.Degraded {
		fmt.Println("(produced by the deterministic fallback)")
	}
	if len(result.Evidence) > 0 {
		fmt.Println("\nEvidence:")
		for _, doc := range result.Evidence {
			fmt.Printf("  - [%s] %s\n", doc.SourceTag, doc.Text)
		}
	}

	rec := model.DecisionRecord{
		Content:      model.ContentItem{ID: model.ContentID(text), Text: text},
		Detection:    &detection,
		Verification: &result,
		Action:       pipeline.DeriveAction(detection, &result),
	}
	fmt.Printf("\nReasoning: %s\n", rec.BuildReasoning())

	return nil
}
