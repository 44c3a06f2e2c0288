package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/session"
	"github.com/theirongolddev/finbot/internal/tui/components"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// assistantChromeHeight is everything on the assistant tab except the
// answer viewport: tab bar, banner, status bar, the actions and question
// cards, and the answer card's border and title.
const assistantChromeHeight = 20

const questionHeight = 3

// banner is the one-line message under the tab bar.
type banner struct {
	text string
	err  bool
}

func errorBanner(s string) banner   { return banner{text: s, err: true} }
func successBanner(s string) banner { return banner{text: s} }

func (a App) renderBanner(w int) string {
	if a.banner.text == "" {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Background(t.Background).Width(w).Bold(true)
	if a.banner.err {
		return style.Foreground(t.Negative).Render(" ✗ " + a.banner.text)
	}
	return style.Foreground(t.Positive).Render(" ✓ " + a.banner.text)
}

func newQuestionInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything about personal finance..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(questionHeight)
	// Enter sends; alt+enter starts a new line.
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	return ta
}

func (a App) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.typing = false
		a.question.Blur()
		return a, nil
	case "enter":
		if a.busy {
			return a, nil
		}
		a.typing = false
		a.question.Blur()
		return a.runAction(prompt.FreeformQuestion, a.question.Value())
	}

	var cmd tea.Cmd
	a.question, cmd = a.question.Update(msg)
	return a, cmd
}

// actionHotkeys maps the menu actions to their keys.
var actionHotkeys = []struct {
	key    string
	action prompt.Action
}{
	{"1", prompt.BudgetSummary},
	{"2", prompt.SpendingInsights},
	{"3", prompt.GoalPlanning},
	{"4", prompt.InvestmentAdvice},
	{"i", prompt.FreeformQuestion},
	{"r", prompt.MarketNews},
}

func hotkeyAction(key string) prompt.Action {
	for _, h := range actionHotkeys {
		if h.key == key {
			return h.action
		}
	}
	return 0
}

func (a App) renderAssistantTab(cw int) string {
	var b strings.Builder
	b.WriteString(components.ContentCard("Quick Actions", a.renderActionList(), cw))
	b.WriteString("\n")

	if a.typing {
		b.WriteString(components.FocusedCard("Ask Your Financial Questions", a.question.View(), cw))
	} else {
		b.WriteString(components.ContentCard("Ask Your Financial Questions", a.question.View(), cw))
	}
	b.WriteString("\n")

	b.WriteString(a.renderAnswerCard(cw))
	return b.String()
}

// renderActionList shows every action, dimming those whose preconditions do
// not hold together with the reason.
func (a App) renderActionList() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	onStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	whyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Italic(true)

	lines := make([]string, 0, len(actionHotkeys))
	for _, h := range actionHotkeys {
		label := fmt.Sprintf("%-20s", h.action.String())
		err := a.ctrl.Check(a.sess, h.action, "?")
		if err == nil {
			lines = append(lines, keyStyle.Render("["+h.key+"] ")+onStyle.Render(label))
			continue
		}
		lines = append(lines, offStyle.Render("["+h.key+"] "+label)+whyStyle.Render(" "+reason(err)))
	}
	return strings.Join(lines, "\n")
}

// reason extracts the user-facing part of a precondition failure.
func reason(err error) string {
	var ve *session.ValidationError
	if errors.As(err, &ve) {
		return ve.Err.Error()
	}
	return err.Error()
}

func (a App) renderAnswerCard(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case a.busy && a.pending != prompt.MarketNews:
		return components.FocusedCard(a.pending.String(),
			a.spinner.View()+mutedStyle.Render(" Thinking..."), cw)
	case a.last == nil:
		return components.ContentCard("Answer",
			mutedStyle.Render("Run an action or ask a question to see personalized advice here."), cw)
	}

	title := a.last.Title
	if a.result.TotalLineCount() > a.result.Height {
		title += fmt.Sprintf("  %3.0f%%", a.result.ScrollPercent()*100)
	}
	return components.ContentCard(title, a.result.View(), cw)
}
