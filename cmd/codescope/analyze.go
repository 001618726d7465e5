package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"codescope/internal/analyzer"
	"codescope/internal/config"
	"codescope/internal/export"
	"codescope/internal/history"
	"codescope/internal/metrics"
	"codescope/internal/output"
	"codescope/internal/scan"
	"codescope/internal/security"
)

var (
	analyzeOut       string
	analyzeWorkers   int
	analyzeNoHistory bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project tree",
	Long: `Analyze a project tree and print the report as JSON.

The report covers languages, frameworks, declared dependencies, API
endpoints, database schema, security findings and quality metrics.
Nothing in the project is executed.

Examples:
  codescope analyze
  codescope analyze ./backend --out report.json
  codescope analyze . --out report.json.zst
  codescope analyze . --out report.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "",
		"Write the report to a file (.json, .json.zst or .md, by extension)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0,
		"Worker count for per-file scanning (default: config, then CPU count)")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false,
		"Skip recording this run in the history store")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(absRoot)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	workers := analyzeWorkers
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	coord, err := analyzer.New(analyzer.Options{
		Scan: scan.Options{
			IgnoreDirs:       cfg.Scan.IgnoreDirs,
			IgnoreGlobs:      cfg.Scan.IgnoreGlobs,
			MaxFileSizeBytes: cfg.Scan.MaxFileSizeBytes,
		},
		Security: security.Options{
			MinEntropy:  cfg.Security.MinEntropy,
			CatalogPath: cfg.Security.CatalogPath,
		},
		Weights: metrics.Weights{
			ComplexityPenalty:     cfg.Weights.ComplexityPenalty,
			SecurityHighPenalty:   cfg.Weights.SecurityHighPenalty,
			SecurityMedPenalty:    cfg.Weights.SecurityMedPenalty,
			SecurityLowPenalty:    cfg.Weights.SecurityLowPenalty,
			LongFilePenalty:       cfg.Weights.LongFilePenalty,
			LongFileLineThreshold: cfg.Weights.LongFileLineThreshold,
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	report, err := coord.Analyze(context.Background(), absRoot)
	if err != nil {
		return err
	}

	if cfg.History.Enabled && !analyzeNoHistory {
		if err := saveRun(cfg, absRoot, report, logger); err != nil {
			// History is best-effort; the report still goes out.
			logger.Warn("history save failed", "error", err)
		}
	}

	if analyzeOut != "" {
		if err := export.NewExporter(logger).WriteFile(analyzeOut, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", analyzeOut)
		return nil
	}

	data, err := output.EncodeIndented(report.ToDocument(), "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func saveRun(cfg *config.Config, root string, report *analyzer.Report, logger *slog.Logger) error {
	store, err := history.Open(historyPath(cfg, root), logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(context.Background(), report)
}

// historyPath resolves the configured store path against the analysis
// root when it is relative.
func historyPath(cfg *config.Config, root string) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return filepath.Join(root, cfg.History.Path)
}
