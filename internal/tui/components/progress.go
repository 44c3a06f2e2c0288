package components

import (
	"fmt"

	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForShare returns a color for a category's share of total expenses.
// Large shares stand out more.
func ColorForShare(frac float64) lipgloss.Color {
	t := theme.Active
	switch {
	case frac >= 0.5:
		return t.Negative
	case frac >= 0.3:
		return t.Warning
	default:
		return t.Accent
	}
}

// ShareBar renders one labelled expense share: label, bar, percentage and
// amount.
func ShareBar(label string, frac float64, amount string, labelW, barWidth int) string {
	t := theme.Active

	frac = min(max(frac, 0), 1)
	color := ColorForShare(frac)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", frac*100)) +
		spaceStyle.Render("  ") +
		amountStyle.Render(amount)
}

// SavingsGauge renders how much of income is kept, clamped to [0, 1]. A
// negative rate renders an empty gauge in the negative color.
func SavingsGauge(rate float64, width int) string {
	t := theme.Active

	color := t.Positive
	if rate < 0 {
		color = t.Negative
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)
	return bar.ViewAs(min(max(rate, 0), 1))
}
