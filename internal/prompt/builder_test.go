package prompt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/finbot/internal/finance"

	"github.com/shopspring/decimal"
)

func testProfile() *finance.UserProfile {
	return &finance.UserProfile{
		UserType:      finance.YoungProfessional,
		AgeGroup:      finance.Age26To35,
		IncomeRange:   finance.Income50KTo1L,
		Goals:         []finance.Goal{finance.EmergencyFund, finance.HomePurchase, finance.TaxPlanning},
		RiskTolerance: finance.Moderate,
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testFinancials(t *testing.T) *finance.FinancialData {
	t.Helper()
	fd, err := finance.NewFinancialData(decimal.NewFromInt(50000), map[finance.Category]decimal.Decimal{
		finance.Rent:          decimal.NewFromInt(20000),
		finance.Food:          decimal.NewFromInt(5000),
		finance.Transport:     decimal.NewFromInt(2000),
		finance.Utilities:     decimal.NewFromInt(1000),
		finance.Entertainment: decimal.NewFromInt(500),
		finance.Miscellaneous: decimal.NewFromInt(500),
	}, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return &fd
}

func mustBuild(t *testing.T, req Request) string {
	t.Helper()
	out, err := Build(req)
	if err != nil {
		t.Fatalf("Build(%s): %v", req.Action, err)
	}
	return out
}

func TestBuild_EveryUserTemplateRestatesUserType(t *testing.T) {
	for _, a := range []Action{BudgetSummary, SpendingInsights, GoalPlanning, InvestmentAdvice, FreeformQuestion} {
		out := mustBuild(t, Request{
			Action:     a,
			Profile:    testProfile(),
			Financials: testFinancials(t),
			Question:   "Should I prepay my loan?",
		})
		if !strings.Contains(out, "Young Professional") {
			t.Errorf("%s prompt does not mention the user type:\n%s", a, out)
		}
	}
}

func TestBuild_MissingEnumsUsePlaceholder(t *testing.T) {
	p := &finance.UserProfile{UserType: finance.Student}
	out := mustBuild(t, Request{Action: BudgetSummary, Profile: p, Financials: testFinancials(t)})

	for _, want := range []string{
		"Age group: not set",
		"Income range: not set",
		"Risk Tolerance: not set",
		"Goals: no goals selected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestBuild_BudgetSummaryFigures(t *testing.T) {
	out := mustBuild(t, Request{Action: BudgetSummary, Profile: testProfile(), Financials: testFinancials(t)})

	for _, want := range []string{
		"Monthly Income: ₹50000",
		"Total Expenses: ₹29000",
		"Savings: ₹21000",
		"Savings Rate: 42.0%",
		`"rent": 20000`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("budget prompt missing %q:\n%s", want, out)
		}
	}
}

func TestBuild_GoalPlanningEnumeratesEveryGoal(t *testing.T) {
	out := mustBuild(t, Request{Action: GoalPlanning, Profile: testProfile(), Financials: testFinancials(t)})

	for _, g := range []string{"- Emergency Fund", "- Home Purchase", "- Tax Planning"} {
		if !strings.Contains(out, g) {
			t.Errorf("goal plan missing %q:\n%s", g, out)
		}
	}
	for _, ask := range []string{"monthly allocation", "Timeline", "Investment strategy", "action steps"} {
		if !strings.Contains(out, ask) {
			t.Errorf("goal plan does not ask for %q", ask)
		}
	}
}

func TestBuild_GoalPlanningWithoutGoalsOrData(t *testing.T) {
	p := &finance.UserProfile{UserType: finance.Retiree, Goals: []finance.Goal{}}
	out := mustBuild(t, Request{Action: GoalPlanning, Profile: p})

	if !strings.Contains(out, "no goals selected") {
		t.Errorf("goal plan should say no goals are selected:\n%s", out)
	}
	if !strings.Contains(out, `"monthly_income": 0`) {
		t.Errorf("empty financials should degrade to zero values:\n%s", out)
	}
}

func TestBuild_FreeformEmbedsContextBeforeQuestion(t *testing.T) {
	q := `What about "index funds" & <ETFs>?`
	out := mustBuild(t, Request{Action: FreeformQuestion, Profile: testProfile(), Financials: testFinancials(t), Question: q})

	profileAt := strings.Index(out, `"user_type": "Young Professional"`)
	dataAt := strings.Index(out, `"total_expenses": 29000`)
	questionAt := strings.Index(out, "User's Question: "+q)
	if profileAt < 0 || dataAt < 0 || questionAt < 0 {
		t.Fatalf("freeform prompt missing context or verbatim question:\n%s", out)
	}
	if profileAt > questionAt || dataAt > questionAt {
		t.Fatalf("context must precede the question:\n%s", out)
	}
}

func TestBuild_RejectsBlankQuestion(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := Build(Request{Action: FreeformQuestion, Profile: testProfile(), Question: q})
		if !errors.Is(err, ErrBlankQuestion) {
			t.Errorf("Build(question=%q) err = %v, want ErrBlankQuestion", q, err)
		}
	}
}

func TestBuild_MarketNewsIgnoresUserData(t *testing.T) {
	withData := mustBuild(t, Request{Action: MarketNews, Profile: testProfile(), Financials: testFinancials(t)})
	without := mustBuild(t, Request{Action: MarketNews})

	if withData != without {
		t.Fatalf("market news prompt changed with user data:\n%s\nvs\n%s", withData, without)
	}
	if !strings.Contains(without, "5 latest Indian stock market news headlines") {
		t.Fatalf("unexpected news prompt:\n%s", without)
	}
}

func TestBuild_InvestmentAdviceUsesSavingsAndMarket(t *testing.T) {
	out := mustBuild(t, Request{
		Action:     InvestmentAdvice,
		Profile:    testProfile(),
		Financials: testFinancials(t),
		Currency:   "$",
		Market:     "US",
	})
	if !strings.Contains(out, "Available monthly savings: $21000") {
		t.Errorf("missing savings line:\n%s", out)
	}
	if !strings.Contains(out, "the US market") {
		t.Errorf("missing market:\n%s", out)
	}
}

func TestBuild_UnknownAction(t *testing.T) {
	if _, err := Build(Request{Action: Action(99)}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"budget-summary":    BudgetSummary,
		"budget_summary":    BudgetSummary,
		"Spending Insights": SpendingInsights,
		"question":          FreeformQuestion,
		"market-news":       MarketNews,
	}
	for in, want := range tests {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Errorf("ParseAction(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAction("lottery"); err == nil {
		t.Error("ParseAction(lottery) want error")
	}
}
