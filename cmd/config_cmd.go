package cmd

import (
	"fmt"

	"github.com/theirongolddev/finbot/internal/cli"
	"github.com/theirongolddev/finbot/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	status := "loaded"
	if !config.Exists() {
		status = "using defaults (no config file)"
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Configuration",
		Headers:   []string{"Setting", "Value"},
		LeftAlign: true,
		Rows: [][]string{
			{"Config file", config.ConfigPath()},
			{"Status", cli.RenderSigned(status, config.Exists())},
			{"---"},
			{"Currency", cfg.General.Currency},
			{"Market", cfg.General.Market},
			{"Log level", cfg.General.LogLevel},
			{"Log file", config.LogPath(cfg)},
			{"---"},
			{"Provider", cfg.LLM.Provider},
			{"Model", modelName(cfg.LLM)},
			{"API key", "entered per session"},
			{"---"},
			{"Theme", cfg.Appearance.Theme},
			{"Server address", cfg.Server.Addr},
		},
	}))
	fmt.Println()
	fmt.Println(cli.RenderMuted("  Run `finbot setup` to reconfigure."))
	return nil
}
