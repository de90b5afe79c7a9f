// Package cli provides the cobra command tree for the crawler.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Dev-athrv/Github-Crawler-AI/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "ghcrawler",
	Short: "Crawl GitHub repositories with optional AI analysis",
	Long: `ghcrawler searches GitHub for repositories matching a query,
optionally filters them by keyword relevance, optionally enriches each
record with an AI-generated assessment (Ollama or Gemini), and writes
the results to JSON and/or CSV.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ExecuteContext runs the root command with the given context.
// A non-nil error means the run failed and the process should exit
// non-zero.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
