// Package tui provides the interactive Bubble Tea front end for finbot.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/config"
	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/session"
	"github.com/theirongolddev/finbot/internal/tui/components"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// keyReadyMsg is sent when a provider client has been built from an API key.
type keyReadyMsg struct {
	gen    gateway.Generator
	masked string // safe to show on screen
	err    error
}

// actionDoneMsg is sent when the gateway call of an action returns.
type actionDoneMsg struct {
	call session.Call
	res  gateway.Result
}

const (
	tabAssistant = iota
	tabOverview
	tabMarket
	tabHistory
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// App is the root Bubble Tea model. It owns one session for the lifetime of
// the program; the session's data is gone when the program exits.
type App struct {
	sess   *session.Session
	ctrl   *session.Controller
	cfg    config.Config
	newGen gateway.Factory
	log    *zap.Logger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Data-entry forms (huh). Values live behind pointers so the form keeps
	// writing into the same memory after App is copied.
	form       *huh.Form
	formKind   formKind
	profileIn  *profileValues
	financesIn *financeValues

	// API key prompt
	keyInput   textinput.Model
	askingKey  bool
	keyPending bool
	keyErr     string

	// Question entry and the last one-shot result
	question textarea.Model
	typing   bool
	result   viewport.Model
	last     *session.Outcome
	news     *session.Outcome
	banner   banner

	// In-flight action. New triggers are ignored while busy.
	busy    bool
	pending prompt.Action
	spinner spinner.Model
}

// NewApp creates the TUI for sess. newGen turns the API key typed at startup
// into a provider client.
func NewApp(sess *session.Session, cfg config.Config, newGen gateway.Factory, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		sess: sess,
		ctrl: &session.Controller{
			Gateway:  gateway.New(nil, log),
			Currency: cfg.General.Currency,
			Market:   cfg.General.Market,
			Logger:   log,
		},
		cfg:       cfg,
		newGen:    newGen,
		log:       log,
		keyInput:  newKeyInput(),
		askingKey: true,
		question:  newQuestionInput(),
		result:    viewport.New(0, 0),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.keyInput.Cursor.BlinkCmd(),
	)
}

// Close releases the session. Its profile, data and history are destroyed.
func (a App) Close() error {
	return a.sess.Close()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, maxContentWidth)).WithHeight(msg.Height)
		}
		a.resize()
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.askingKey || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.result.ScrollUp(1)
		case tea.MouseButtonWheelDown:
			a.result.ScrollDown(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.askingKey {
			return a.updateKeyInput(msg)
		}
		if a.typing {
			return a.updateQuestion(msg)
		}
		return a.handleKey(msg)

	case keyReadyMsg:
		return a.applyKey(msg), nil

	case actionDoneMsg:
		out := a.ctrl.Complete(a.sess, msg.call, msg.res)
		a.busy = false
		a.show(out)
		return a, nil

	case spinner.TickMsg:
		if a.busy || a.keyPending {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward everything else (cursor blinks, form internals) to whatever
	// currently holds focus.
	switch {
	case a.form != nil:
		return a.updateForm(msg)
	case a.askingKey:
		var cmd tea.Cmd
		a.keyInput, cmd = a.keyInput.Update(msg)
		return a, cmd
	case a.typing:
		var cmd tea.Cmd
		a.question, cmd = a.question.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "esc":
		a.banner = banner{}
		return a, nil
	case "p":
		return a.openProfileForm()
	case "f":
		return a.openFinancialsForm()
	case "c":
		a.askingKey = true
		a.keyErr = ""
		a.keyInput.Reset()
		return a, a.keyInput.Focus()
	case "1", "2", "3", "4":
		a.activeTab = tabAssistant
		return a.runAction(hotkeyAction(key), "")
	case "i", "/":
		a.activeTab = tabAssistant
		a.typing = true
		return a, a.question.Focus()
	case "r":
		return a.runAction(prompt.MarketNews, "")
	case "j", "down":
		a.result.ScrollDown(1)
		return a, nil
	case "k", "up":
		a.result.ScrollUp(1)
		return a, nil
	case "ctrl+d", "pgdown":
		a.result.HalfPageDown()
		return a, nil
	case "ctrl+u", "pgup":
		a.result.HalfPageUp()
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if idx := components.TabIdxByKey(key); idx >= 0 {
		a.activeTab = idx
	}
	return a, nil
}

// runAction validates and prepares action on the UI goroutine, then sends
// the gateway call as a command. The session is only touched again when
// actionDoneMsg arrives.
func (a App) runAction(action prompt.Action, question string) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}

	call, err := a.ctrl.Prepare(a.sess, action, question)
	if err != nil {
		a.show(session.Reject(action, err))
		return a, nil
	}

	a.busy = true
	a.pending = action
	a.banner = banner{}
	return a, tea.Batch(a.spinner.Tick, executeCmd(*a.ctrl, call))
}

// executeCmd takes the controller by value so a key change on the UI
// goroutine never races with the call in flight.
func executeCmd(ctrl session.Controller, call session.Call) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{call: call, res: ctrl.Execute(context.Background(), call)}
	}
}

// show applies an outcome to the view state.
func (a *App) show(out session.Outcome) {
	if out.Failed() {
		a.banner = errorBanner(out.Body)
		return
	}

	switch out.Target {
	case session.NewsList:
		a.news = &out
		a.activeTab = tabMarket
	case session.SummaryPanel:
		a.banner = successBanner("Budget summary updated.")
		a.last = &out
		a.activeTab = tabAssistant
	default:
		a.last = &out
		a.activeTab = tabAssistant
		if out.Action == prompt.FreeformQuestion {
			a.question.Reset()
		}
	}
	a.refreshResult()
}

func (a *App) refreshResult() {
	if a.last == nil {
		a.result.SetContent("")
		return
	}
	a.result.SetContent(lipgloss.NewStyle().Width(a.result.Width).Render(a.last.Body))
	a.result.GotoTop()
}

// resize recomputes the sizes of the width-dependent widgets.
func (a *App) resize() {
	cw := a.contentWidth()
	a.keyInput.Width = min(cw-20, 60)
	a.question.SetWidth(components.CardInnerWidth(cw))

	a.result.Width = components.CardInnerWidth(cw)
	a.result.Height = max(a.height-assistantChromeHeight, minContentHeight)
	a.refreshResult()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.askingKey {
		return a.viewKeyPrompt()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  finbot needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.form.View(),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Your data", []struct{ key, desc string }{
			{"p", "Edit profile"},
			{"f", "Enter income & expenses"},
			{"c", "Enter API key"},
		}},
		{"Assistant", []struct{ key, desc string }{
			{"1 2 3 4", "Budget / Insights / Goals / Investments"},
			{"i /", "Ask a question (enter sends)"},
			{"r", "Refresh market news"},
			{"j k", "Scroll the answer"},
		}},
		{"Navigation", []struct{ key, desc string }{
			{"a o m h", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"Esc", "Dismiss message / Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit (session data is discarded)"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	if line := a.renderBanner(w); line != "" {
		header += "\n" + line
	}

	status := components.Status{State: a.sess.State().String()}
	if a.ctrl.Gateway.Configured() {
		status.Provider = a.cfg.LLM.Provider
	}
	if a.busy {
		status.Busy = a.spinner.View() + " " + a.pending.String()
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabAssistant:
		content = a.renderAssistantTab(cw)
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabMarket:
		content = a.renderMarketTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar uses, with a one-column separator.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
