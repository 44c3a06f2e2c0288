// Package cmd implements the finbot CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/finbot/internal/config"

	"github.com/spf13/cobra"
)

var flagDev bool

var rootCmd = &cobra.Command{
	Use:   "finbot",
	Short: "Personal finance assistant",
	Long: "finbot turns your profile, income and expenses into budget summaries, spending\n" +
		"insights, goal plans and investment suggestions using an LLM.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDev, "dev", false, "Development logging (human-readable, debug level)")
}

// loadConfig reads the config file, falling back to defaults with a warning
// when it cannot be parsed.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}
