package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"codescope/internal/config"
	"codescope/internal/logging"
	"codescope/internal/version"
)

var (
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "codescope",
	Short: "Static project analysis pipeline",
	Long: `codescope analyzes a project tree without executing it: languages,
frameworks, dependencies, API endpoints, database schema, security
findings and quality metrics, collected into one deterministic report.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetVersionTemplate("codescope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: text or json (default from config)")
}

// newLogger builds the command logger from config with flag overrides.
func newLogger(cfg *config.Config) *slog.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.New(logging.Options{Format: format, Level: level})
}
