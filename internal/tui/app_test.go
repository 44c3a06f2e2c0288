package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/finbot/internal/config"
	"github.com/theirongolddev/finbot/internal/finance"
	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/session"
	"github.com/theirongolddev/finbot/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

type cannedGenerator struct{ text string }

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.text, nil
}

func newTestApp(t *testing.T, gen gateway.Generator) App {
	t.Helper()
	sess := session.New()
	t.Cleanup(func() { _ = sess.Close() })

	factory := func(_ context.Context, key string) (gateway.Generator, error) {
		if key == "bad" {
			return nil, errors.New("gateway: unauthorized")
		}
		return gen, nil
	}
	a := NewApp(sess, config.DefaultConfig(), factory, nil)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func withKey(a App, gen gateway.Generator) App {
	return a.applyKey(keyReadyMsg{gen: gen, masked: "********abcd"})
}

func withData(t *testing.T, a App) {
	t.Helper()
	a.sess.SaveProfile(finance.UserProfile{UserType: finance.Student})
	err := a.sess.UpdateFinancials(decimal.NewFromInt(50000), map[finance.Category]decimal.Decimal{
		finance.Rent: decimal.NewFromInt(20000),
		finance.Food: decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2 // horizontal padding
			if i != active {
				w += 2 // inactive tabs bracket their shortcut letter
			}
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestKeyPrompt(t *testing.T) {
	a := newTestApp(t, cannedGenerator{text: "ok"})
	if !a.askingKey {
		t.Fatal("app should start on the key prompt")
	}

	m, _ := a.updateKeyInput(tea.KeyMsg{Type: tea.KeyEnter})
	a = m.(App)
	if a.keyErr == "" || a.keyPending {
		t.Fatalf("blank key accepted: err=%q pending=%v", a.keyErr, a.keyPending)
	}

	a = a.applyKey(keyReadyMsg{err: errors.New("gateway: unauthorized")})
	if !a.askingKey || a.ctrl.Gateway.Configured() {
		t.Fatal("failed key should keep the prompt open")
	}

	msg := buildGeneratorCmd(a.newGen, "sk-secret-1234")().(keyReadyMsg)
	a = a.applyKey(msg)
	if strings.Contains(a.banner.text, "sk-secret") || !strings.Contains(a.banner.text, "1234") {
		t.Fatalf("banner should show only the masked key: %q", a.banner.text)
	}
	if a.askingKey || !a.ctrl.Gateway.Configured() {
		t.Fatal("accepted key should close the prompt and configure the gateway")
	}
	if a.keyInput.Value() != "" {
		t.Fatal("key text left in the input")
	}
}

func TestKeyPromptSkip(t *testing.T) {
	a := newTestApp(t, nil)
	m, _ := a.updateKeyInput(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(App)
	if a.askingKey {
		t.Fatal("esc should skip the key prompt")
	}

	m, cmd := a.runAction(prompt.MarketNews, "")
	a = m.(App)
	if cmd != nil || a.busy {
		t.Fatal("action without a key must not be sent")
	}
	if !a.banner.err || !strings.Contains(a.banner.text, "API key") {
		t.Fatalf("banner = %+v", a.banner)
	}
}

func TestRunActionRejectsMissingProfile(t *testing.T) {
	a := withKey(newTestApp(t, nil), cannedGenerator{text: "ok"})

	m, cmd := a.runAction(prompt.BudgetSummary, "")
	a = m.(App)
	if cmd != nil || a.busy {
		t.Fatal("rejected action should not start a call")
	}
	if a.banner.text != session.ErrProfileRequired.Error() {
		t.Fatalf("banner = %q", a.banner.text)
	}
}

func TestBudgetSummaryFlow(t *testing.T) {
	a := withKey(newTestApp(t, nil), cannedGenerator{text: "Save more on rent."})
	withData(t, a)

	m, cmd := a.runAction(prompt.BudgetSummary, "")
	a = m.(App)
	if cmd == nil || !a.busy || a.pending != prompt.BudgetSummary {
		t.Fatal("action should be in flight")
	}

	// A second trigger while busy is ignored.
	m, cmd = a.runAction(prompt.SpendingInsights, "")
	if cmd != nil || m.(App).pending != prompt.BudgetSummary {
		t.Fatal("second trigger while busy was not ignored")
	}

	call, err := a.ctrl.Prepare(a.sess, prompt.BudgetSummary, "")
	if err != nil {
		t.Fatal(err)
	}
	m, _ = a.Update(executeCmd(*a.ctrl, call)())
	a = m.(App)

	if a.busy {
		t.Fatal("still busy after completion")
	}
	if bs := a.sess.Budget(); bs == nil || bs.Summary != "Save more on rent." {
		t.Fatalf("budget = %+v", bs)
	}
	if a.last == nil || a.last.Title != "Budget Summary" || a.banner.err {
		t.Fatalf("last = %+v, banner = %+v", a.last, a.banner)
	}
}

func TestQuestionFlowRecordsHistory(t *testing.T) {
	a := withKey(newTestApp(t, nil), cannedGenerator{text: "Start an SIP."})
	a.sess.SaveProfile(finance.UserProfile{UserType: finance.YoungProfessional})

	call, err := a.ctrl.Prepare(a.sess, prompt.FreeformQuestion, "How do I invest?")
	if err != nil {
		t.Fatal(err)
	}
	a.busy = true
	m, _ := a.Update(executeCmd(*a.ctrl, call)())
	a = m.(App)

	entries, err := a.sess.RecentExchanges()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Question != "How do I invest?" {
		t.Fatalf("history = %+v", entries)
	}
	if !strings.Contains(a.View(), "Personalized Response") {
		t.Fatal("answer card not shown")
	}
}

func TestMarketNewsSwitchesTab(t *testing.T) {
	a := withKey(newTestApp(t, nil), cannedGenerator{text: "One\n\nTwo\n"})

	call, err := a.ctrl.Prepare(a.sess, prompt.MarketNews, "")
	if err != nil {
		t.Fatal(err)
	}
	m, _ := a.Update(executeCmd(*a.ctrl, call)())
	a = m.(App)

	if a.activeTab != tabMarket {
		t.Fatalf("activeTab = %d, want market", a.activeTab)
	}
	if a.news == nil || len(a.news.Headlines) != 2 {
		t.Fatalf("news = %+v", a.news)
	}
	if !strings.Contains(a.View(), "Two") {
		t.Fatal("headline not rendered")
	}
}

func TestApplyFinancialsForm(t *testing.T) {
	a := newTestApp(t, nil)

	a.formKind = formFinancials
	a.financesIn = newFinanceValues(nil)
	a.financesIn.income = "₹50,000"
	a.financesIn.expenses[0] = "20000"
	a.applyForm()

	fd := a.sess.Financials()
	if fd == nil || !fd.MonthlyIncome.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("financials = %+v", fd)
	}
	if a.activeTab != tabOverview || a.banner.err {
		t.Fatalf("tab = %d banner = %+v", a.activeTab, a.banner)
	}

	a.financesIn = newFinanceValues(fd)
	a.financesIn.expenses[1] = "-5"
	a.applyForm()
	if !a.banner.err {
		t.Fatal("negative amount accepted")
	}
	if got := a.sess.Financials().Expenses.Amount(finance.Food); !got.IsZero() {
		t.Fatalf("food = %s after rejected update, want 0", got)
	}
}

func TestApplyProfileForm(t *testing.T) {
	a := newTestApp(t, nil)

	a.formKind = formProfile
	a.profileIn = newProfileValues(nil)
	a.profileIn.userType = finance.Retiree
	a.profileIn.goals = []finance.Goal{finance.TaxPlanning, finance.TaxPlanning}
	a.applyForm()

	p := a.sess.Profile()
	if p == nil || p.UserType != finance.Retiree || len(p.Goals) != 1 {
		t.Fatalf("profile = %+v", p)
	}
	if !a.sess.State().Has(session.ProfileSet) {
		t.Fatal("state missing ProfileSet")
	}
}

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"", "0", "1,50,000", "₹2500.50"} {
		if err := validateAmount(ok); err != nil {
			t.Errorf("validateAmount(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"-1", "abc"} {
		if validateAmount(bad) == nil {
			t.Errorf("validateAmount(%q) accepted", bad)
		}
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := withKey(newTestApp(t, nil), cannedGenerator{text: "ok"})
	withData(t, a)

	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		if out == "" {
			t.Fatalf("tab %d rendered nothing", i)
		}
		if lines := strings.Count(out, "\n") + 1; lines != 40 {
			t.Errorf("tab %d rendered %d lines, want 40", i, lines)
		}
	}

	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("narrow terminal not reported")
	}
}
