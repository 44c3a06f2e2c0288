package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/tui/components"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	textStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Width(components.CardInnerWidth(cw))

	entries, err := a.sess.RecentExchanges()
	if err != nil {
		return components.ContentCard("Recent Conversations",
			lipgloss.NewStyle().Foreground(t.Negative).Background(t.Surface).Render(err.Error()), cw)
	}
	if len(entries) == 0 {
		return components.ContentCard("Recent Conversations",
			mutedStyle.Render("No conversations yet. Press [i] to ask a question."), cw)
	}

	var b strings.Builder
	if total, err := a.sess.ExchangeCount(); err == nil && total > len(entries) {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" Showing the %d most recent of %d conversations", len(entries), total)))
		b.WriteString("\n")
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		body := textStyle.Render(e.Preview) + "\n" +
			mutedStyle.Render(e.Timestamp.Local().Format("Jan 2, 15:04"))
		b.WriteString(components.ContentCard("Q: "+e.Label, body, cw))
	}
	return b.String()
}
