// Package cli implements resumectl, which validates, renders and exports
// resume files without a running server.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "resumectl",
	Short:        "Validate, preview and export resumes from YAML or JSON files",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
