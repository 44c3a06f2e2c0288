package tui

import (
	"strings"

	"github.com/theirongolddev/finbot/internal/cli"
	"github.com/theirongolddev/finbot/internal/finance"
	"github.com/theirongolddev/finbot/internal/tui/components"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	cur := a.ctrl.Currency

	var b strings.Builder

	fd := a.sess.Financials()
	if fd == nil {
		b.WriteString(components.ContentCard("Financial Overview",
			mutedStyle.Render("No financial data yet. Press [f] to enter your income and expenses."), cw))
		b.WriteString("\n")
	} else {
		m := a.sess.Metrics()
		savingsColor := t.Positive
		savingsNote := "saved each month"
		if m.Overspending() {
			savingsColor = t.Negative
			savingsNote = "overspending"
		}

		b.WriteString(components.MetricCardRow([]components.Metric{
			{Label: "Monthly Income", Value: cli.FormatMoney(fd.MonthlyIncome, cur)},
			{Label: "Total Expenses", Value: cli.FormatMoney(m.TotalExpenses, cur)},
			{Label: "Savings", Value: cli.FormatMoney(m.Savings, cur), Note: savingsNote, Color: savingsColor},
			{Label: "Savings Rate", Value: cli.FormatRate(m.SavingsRate), Color: savingsColor},
		}, cw))
		b.WriteString("\n")

		b.WriteString(components.ContentCard("Expense Breakdown", a.renderShares(*fd, m, cw), cw))
		b.WriteString("\n")
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Your Profile", a.renderProfileSummary(), halves[0]),
		a.renderBudgetCard(halves[1]),
	}))
	return b.String()
}

func (a App) renderShares(fd finance.FinancialData, m finance.Metrics, cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	inner := components.CardInnerWidth(cw)
	labelW := 18
	barW := max(inner-labelW-24, 10)

	lines := make([]string, 0, len(finance.Categories)+2)
	if m.SavingsRate.Valid {
		rate, _ := m.SavingsRate.Decimal.Float64()
		lines = append(lines,
			labelStyle.Render(padLabel("Income kept", labelW+1))+components.SavingsGauge(rate, barW),
			"")
	}
	for _, s := range finance.ExpenseShares(fd) {
		lines = append(lines, components.ShareBar(s.Category.Label(), s.Fraction,
			cli.FormatMoney(s.Amount, a.ctrl.Currency), labelW, barW))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderProfileSummary() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	p := a.sess.Profile()
	if p == nil {
		return labelStyle.Render("No profile yet. Press [p] to set one up.")
	}

	goals := finance.NotSet
	if len(p.Goals) > 0 {
		goals = strings.Join(p.GoalLabels(), ", ")
	}

	rows := []struct{ label, value string }{
		{"User Type", p.UserType.String()},
		{"Age Group", p.AgeGroup.String()},
		{"Income Range", p.IncomeRange.String()},
		{"Goals", goals},
		{"Risk Tolerance", p.RiskTolerance.String()},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelStyle.Render(padLabel(r.label, 16)) + valueStyle.Render(r.value)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderBudgetCard(w int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	textStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Width(components.CardInnerWidth(w))

	bs := a.sess.Budget()
	if bs == nil {
		return components.ContentCard("Budget Summary",
			mutedStyle.Render("Press [1] to generate a budget summary."), w)
	}
	body := textStyle.Render(bs.Summary) + "\n" +
		dimStyle.Render("Generated "+bs.GeneratedAt.Local().Format("Jan 2, 15:04"))
	return components.ContentCard("Budget Summary", body, w)
}

func padLabel(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
