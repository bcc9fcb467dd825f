// Package cmd contains the aura CLI commands.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/auradb/aura/internal/log"
)

var debugLog bool

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Aura - context retrieval for natural-language query generation",
	Long: `Aura retrieves relevant past interactions from query history and
builds enhanced prompts for downstream SQL/Cypher generation.

Run "aura serve" to expose the engine over HTTP, or "aura ask" to
inspect what context a question would retrieve.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
}

// newLogger builds the process logger from the persistent flags.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if debugLog {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}
