package cmd

import (
	"fmt"

	"github.com/theirongolddev/finbot/internal/config"
	"github.com/theirongolddev/finbot/internal/logger"
	"github.com/theirongolddev/finbot/internal/store"
	"github.com/theirongolddev/finbot/internal/tui"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive assistant (default)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The UI owns the terminal, so logs go to a file.
	if err := logger.Init(flagDev, logger.LogLevel(cfg.General.LogLevel), config.LogPath(cfg)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	sess := store.OpenSession(log)
	log.Info("session started", zap.String("session", sess.ID.String()), zap.String("provider", cfg.LLM.Provider))

	app := tui.NewApp(sess, cfg, generatorFactory(cfg.LLM), log)
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("closing session", zap.Error(err))
		}
		log.Info("session ended", zap.String("session", sess.ID.String()))
	}()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
