package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/alert"
	"github.com/factseeker/factseeker/internal/audit"
	"github.com/factseeker/factseeker/internal/detect"
	"github.com/factseeker/factseeker/internal/embed"
	"github.com/factseeker/factseeker/internal/index"
	"github.com/factseeker/factseeker/internal/model"
	"github.com/factseeker/factseeker/internal/pipeline"
	"github.com/factseeker/factseeker/internal/reason"
	"github.com/factseeker/factseeker/internal/source"
	"github.com/factseeker/factseeker/internal/store"
	"github.com/factseeker/factseeker/internal/verify"
)

var (
	cycles       int
	interval     time.Duration
	query        string
	topK         int
	corpusPath   string
	auditDir     string
	sourceName   string
	alertName    string
	llmProvider  string
	llmModel     string
	embedderName string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the misinformation screening pipeline",
	Long: `Run fetches content items, screens them for misinformation signals,
fact-checks flagged items against the trusted evidence corpus, and records
every decision in the explainability log.

Without credentials the pipeline runs fully offline: sample content,
hashing embeddings, and the deterministic fallback verifier.

Example:
  factseeker run
  factseeker run --cycles 10 --interval 5s
  factseeker run --source newsapi --query "vaccine" --llm-provider openai
  factseeker run --corpus facts.yaml --alert telegram`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&cycles, "cycles", 5, "number of screening cycles to run")
	runCmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "pause between cycles")
	runCmd.Flags().StringVar(&query, "query", "health misinformation", "NewsAPI search query")
	runCmd.Flags().IntVar(&topK, "top-k", 2, "evidence documents retrieved per claim")
	runCmd.Flags().StringVar(&corpusPath, "corpus", "", "YAML corpus file (default: built-in trusted facts)")
	runCmd.Flags().StringVar(&auditDir, "audit-dir", "logs", "directory for the explainability log")
	runCmd.Flags().StringVar(&sourceName, "source", "", "content source (newsapi, sample; default: auto-select by credentials)")
	runCmd.Flags().StringVar(&alertName, "alert", "log", "alert sink (log, telegram)")
	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "reasoning provider (openai, anthropic, ollama; default: disabled)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "", "reasoning model name")
	runCmd.Flags().StringVar(&embedderName, "embedder", "", "embedding provider (openai, hashing; default: auto-select by credentials)")
}

// buildConfig assembles the effective configuration from defaults, flags, and
// environment credentials.
func buildConfig() (model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Source.Provider = sourceName
	cfg.Source.Query = query
	cfg.Source.APIKey = os.Getenv("NEWS_API_KEY")

	if viper.IsSet("detector.unscored_confidence") {
		cfg.Detector.UnscoredConfidence = viper.GetFloat64("detector.unscored_confidence")
	}

	cfg.Retrieval.TopK = topK
	cfg.Retrieval.CorpusPath = corpusPath

	cfg.Embedding.Provider = embedderName
	cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")

	cfg.Audit.Dir = auditDir

	cfg.Alert.Provider = alertName
	cfg.Alert.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Alert.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return cfg, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return cfg, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// components holds the wired pipeline parts
type components struct {
	detector *detect.Detector
	index    *index.Index
	verifier *verify.Verifier
}

// buildComponents wires the screening components shared by run and check.
// Each implementation is selected once, by capability, at startup.
func buildComponents(ctx context.Context, cfg model.Config, logger *zap.Logger) (*components, error) {
	embedder, err := embed.NewEmbedder(cfg.Embedding, logger)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	facts := index.DefaultFacts()
	if cfg.Retrieval.CorpusPath != "" {
		facts, err = index.LoadFacts(cfg.Retrieval.CorpusPath)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
	}

	ix, err := index.Build(ctx, embedder, facts)
	if err != nil {
		return nil, fmt.Errorf("build evidence index: %w", err)
	}
	logger.Info("evidence index ready",
		zap.String("embedder", embedder.Name()),
		zap.Int("documents", ix.Len()))

	reasoner, err := reason.NewReasoner(reason.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create reasoner: %w", err)
	}
	if reasoner == nil {
		logger.Info("no reasoning provider configured, verifier runs on the deterministic fallback")
	}

	unscored := detect.FixedUnscored{Value: cfg.Detector.UnscoredConfidence}
	if unscored.Value <= 0 {
		unscored.Value = 0.1
	}

	return &components{
		detector: detect.NewWithTiers(detect.DefaultTiers(), unscored),
		index:    ix,
		verifier: verify.NewWithConfig(reasoner, cfg.LLM, logger),
	}, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	src, err := source.NewSource(cfg.Source, logger)
	if err != nil {
		return fmt.Errorf("create content source: %w", err)
	}

	sink, err := alert.NewSink(cfg.Alert, logger)
	if err != nil {
		return fmt.Errorf("create alert sink: %w", err)
	}

	auditLog, err := audit.NewLog(cfg.Audit.Dir)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}

	orch, err := pipeline.New(pipeline.Options{
		Source:   src,
		Detector: comps.detector,
		Index:    comps.index,
		Verifier: comps.verifier,
		Store:    store.NewMemoryStore(cfg.Store.TTL),
		Audit:    auditLog,
		Sink:     sink,
		TopK:     cfg.Retrieval.TopK,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	logger.Info("pipeline starting",
		zap.String("source", src.Name()),
		zap.String("alert_sink", sink.Name()),
		zap.Int("cycles", cycles))

	pctx := pipeline.NewContext()
loop:
	for i := 0; i < cycles; i++ {
		rec, err := orch.RunCycle(ctx, pctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("interrupted, shutting down")
				break loop
			}
			logger.Error("cycle failed", zap.Int("cycle", i+1), zap.Error(err))
			continue
		}
		if rec != nil {
			printDecision(rec)
		}

		if i < cycles-1 && interval > 0 {
			select {
			case <-ctx.Done():
				logger.Info("interrupted, shutting down")
				break loop
			case <-time.After(interval):
			}
		}
	}

	fmt.Printf("\nProcessed %d items, %d alerts raised. Audit log: %s\n",
		pctx.Scanned(), len(pctx.Alerts()), auditLog.Dir())
	return nil
}

// printDecision writes the per-item summary to stdout
func printDecision(rec *model.DecisionRecord) {
	fmt.Printf("─────────────────────────────────────────────\n")
	fmt.Printf("Content: %q\n", rec.Content.Text)
	if rec.Detection != nil {
		fmt.Printf("Detection: %s (%.0f%% confidence)\n", rec.Detection.Label, rec.Detection.Confidence*100)
	}
	if rec.Verification != nil {
		fmt.Printf("Verdict: %s\n", rec.Verification.Verdict)
		fmt.Printf("Explanation: %s\n", rec.Verification.Explanation)
	}
	fmt.Printf("Action: %s\n", rec.Action)
}
