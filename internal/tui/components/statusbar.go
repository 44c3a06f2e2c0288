package components

import (
	"strings"

	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar shows on its right side.
type Status struct {
	State    string // session state, e.g. "profile-set"
	Provider string // empty until an API key is accepted
	Busy     string // label of the in-flight action
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	bar := lipgloss.NewStyle().Background(t.Surface)
	muted := bar.Foreground(t.TextMuted)
	accent := bar.Foreground(t.Accent).Bold(true)
	warn := bar.Foreground(t.Warning)

	left := muted.Render(" [?]help  [p]rofile  [f]inancials  [q]uit")

	var right []string
	if st.Busy != "" {
		right = append(right, accent.Render(st.Busy+"..."))
	}
	if st.Provider == "" {
		right = append(right, warn.Render("no API key [c]"))
	} else {
		right = append(right, muted.Render(st.Provider))
	}
	if st.State != "" {
		right = append(right, muted.Render(st.State))
	}
	rightStr := strings.Join(right, muted.Render(" │ ")) + bar.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + bar.Render(strings.Repeat(" ", gap)) + rightStr
}
