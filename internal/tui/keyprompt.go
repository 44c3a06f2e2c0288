package tui

import (
	"context"
	"strings"

	"github.com/theirongolddev/finbot/internal/cli"
	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newKeyInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "paste your API key"
	ti.CharLimit = 256
	ti.Width = 50
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.Focus()
	return ti
}

// buildGeneratorCmd turns a key into a provider client off the UI goroutine.
func buildGeneratorCmd(newGen gateway.Factory, key string) tea.Cmd {
	return func() tea.Msg {
		gen, err := newGen(context.Background(), key)
		return keyReadyMsg{gen: gen, masked: cli.MaskKey(key), err: err}
	}
}

func (a App) updateKeyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.keyPending {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.askingKey = false
		a.keyErr = ""
		a.keyInput.Reset()
		a.keyInput.Blur()
		return a, nil

	case "enter":
		key := strings.TrimSpace(a.keyInput.Value())
		if key == "" {
			a.keyErr = "Please enter an API key, or press Esc to continue without one."
			return a, nil
		}
		if a.busy {
			a.keyErr = "Wait for the running action to finish."
			return a, nil
		}
		a.keyPending = true
		a.keyErr = ""
		return a, tea.Batch(a.spinner.Tick, buildGeneratorCmd(a.newGen, key))
	}

	var cmd tea.Cmd
	a.keyInput, cmd = a.keyInput.Update(msg)
	return a, cmd
}

// applyKey installs the provider client on success. The typed key is
// cleared from the input once accepted.
func (a App) applyKey(msg keyReadyMsg) App {
	a.keyPending = false
	if msg.err != nil {
		a.keyErr = msg.err.Error()
		return a
	}

	a.ctrl.Gateway = gateway.New(msg.gen, a.log)
	a.askingKey = false
	a.keyErr = ""
	a.keyInput.Reset()
	a.keyInput.Blur()
	a.banner = successBanner("API key " + msg.masked + " accepted. Set up your profile with [p] to get started.")
	return a
}

func (a App) viewKeyPrompt() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	provider := a.cfg.LLM.Provider
	if provider == "" {
		provider = "LLM"
	}

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ finbot"))
	b.WriteString(subtitleStyle.Render(" · Personal Finance Assistant"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Enter your " + provider + " API key:"))
	b.WriteString("\n\n")
	b.WriteString(a.keyInput.View())
	b.WriteString("\n\n")

	switch {
	case a.keyPending:
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Connecting..."))
	case a.keyErr != "":
		b.WriteString(errStyle.Render(a.keyErr))
	default:
		b.WriteString(hintStyle.Render("The key is kept in memory for this session only."))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Enter to confirm · Esc to continue without a key"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}
