package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/config"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the existing config so the wizard edits rather than resets.
	cfg := loadConfig()

	notBlank := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(field + " must not be empty")
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to finbot!").
				Description("API keys are never saved. You will be asked for one\neach time you start the assistant."),
			huh.NewSelect[string]().
				Title("LLM provider").
				Options(
					huh.NewOption("Google Gemini", config.ProviderGemini),
					huh.NewOption("OpenAI", config.ProviderOpenAI),
				).
				Value(&cfg.LLM.Provider),
			huh.NewInput().
				Title("Model").
				Description("Leave empty for the provider default.").
				Value(&cfg.LLM.Model),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Options(
					huh.NewOption("₹ Indian rupee", "₹"),
					huh.NewOption("$ US dollar", "$"),
					huh.NewOption("€ Euro", "€"),
					huh.NewOption("£ Pound sterling", "£"),
				).
				Value(&cfg.General.Currency),
			huh.NewInput().
				Title("Market").
				Description("Used for market news, e.g. Indian, US.").
				Value(&cfg.General.Market).
				Validate(notBlank("market")),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&cfg.Appearance.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.General.LogLevel),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}

	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	cfg.General.Market = strings.TrimSpace(cfg.General.Market)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `finbot setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
