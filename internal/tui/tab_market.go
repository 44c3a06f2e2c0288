package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/tui/components"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMarketTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Width(components.CardInnerWidth(cw) - 4)

	title := fmt.Sprintf("Latest %s Market News", a.ctrl.Market)

	if a.busy && a.pending == prompt.MarketNews {
		return components.FocusedCard(title, a.spinner.View()+mutedStyle.Render(" Fetching headlines..."), cw)
	}
	if a.news == nil || len(a.news.Headlines) == 0 {
		return components.ContentCard(title, mutedStyle.Render("Press [r] to fetch the latest headlines."), cw)
	}

	items := make([]string, len(a.news.Headlines))
	for i, h := range a.news.Headlines {
		items[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			numStyle.Render(fmt.Sprintf("%2d. ", i+1)),
			textStyle.Render(h))
	}
	body := strings.Join(items, "\n") + "\n\n" + mutedStyle.Render("[r] refresh")
	return components.ContentCard(title, body, cw)
}
