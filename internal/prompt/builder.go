// Package prompt turns a user's profile and figures into the natural-language
// instructions sent to the model, one fixed template per action kind.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/finance"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCurrency is the symbol prefixed to amounts.
	DefaultCurrency = "₹"
	// DefaultMarket qualifies the investment and news templates.
	DefaultMarket = "Indian"
	// NewsHeadlines is how many headlines the news template asks for.
	NewsHeadlines = 5
)

var (
	// ErrBlankQuestion rejects an empty or whitespace-only free-form question.
	ErrBlankQuestion = errors.New("question must not be blank")
	// ErrUnknownAction is returned for an action without a template.
	ErrUnknownAction = errors.New("prompt: unknown action")
)

// Request carries everything a template may interpolate. Profile and
// Financials may be nil; missing values render as placeholders.
type Request struct {
	Action     Action
	Profile    *finance.UserProfile
	Financials *finance.FinancialData
	Metrics    *finance.Metrics
	Question   string
	Currency   string
	Market     string
}

// Build renders the prompt for req.Action.
func Build(req Request) (string, error) {
	tmpl, ok := templates[req.Action]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownAction, int(req.Action))
	}
	if req.Action == FreeformQuestion && IsBlank(req.Question) {
		return "", ErrBlankQuestion
	}

	v, err := newView(req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("prompt: rendering %s: %w", req.Action, err)
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

// IsBlank reports whether q has no non-whitespace characters.
func IsBlank(q string) bool {
	return strings.TrimSpace(q) == ""
}

// view is the flattened template input. Every field is already a string so
// the templates never have to deal with missing data.
type view struct {
	UserType      string
	AgeGroup      string
	IncomeRange   string
	RiskTolerance string
	Goals         []string
	GoalList      string

	Currency      string
	Market        string
	Income        string
	TotalExpenses string
	Savings       string
	SavingsRate   string

	ExpensesJSON   string
	ProfileJSON    string
	FinancialsJSON string

	Question  string
	Headlines int
}

func newView(req Request) (view, error) {
	profile := finance.UserProfile{Goals: []finance.Goal{}}
	if req.Profile != nil {
		profile = req.Profile.Clone()
		profile.Goals = finance.NormalizeGoals(profile.Goals)
	}

	fd := finance.EmptyFinancialData()
	if req.Financials != nil {
		fd = *req.Financials
	}

	m := finance.ComputeMetrics(fd)
	if req.Metrics != nil {
		m = *req.Metrics
	}

	v := view{
		UserType:      profile.UserType.String(),
		AgeGroup:      profile.AgeGroup.String(),
		IncomeRange:   profile.IncomeRange.String(),
		RiskTolerance: profile.RiskTolerance.String(),
		Goals:         profile.GoalLabels(),
		Currency:      orDefault(req.Currency, DefaultCurrency),
		Market:        orDefault(req.Market, DefaultMarket),
		Income:        fd.MonthlyIncome.String(),
		TotalExpenses: m.TotalExpenses.String(),
		Savings:       m.Savings.String(),
		SavingsRate:   formatRate(m.SavingsRate),
		Question:      req.Question,
		Headlines:     NewsHeadlines,
	}

	v.GoalList = "no goals selected"
	if len(v.Goals) > 0 {
		v.GoalList = strings.Join(v.Goals, ", ")
	}

	if !req.Action.NeedsUserData() {
		return v, nil
	}

	var err error
	if v.ExpensesJSON, err = indentJSON(fd.Expenses); err != nil {
		return v, err
	}
	if v.ProfileJSON, err = indentJSON(profile); err != nil {
		return v, err
	}
	if v.FinancialsJSON, err = indentJSON(fd); err != nil {
		return v, err
	}
	return v, nil
}

func indentJSON(x any) (string, error) {
	b, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return "", fmt.Errorf("prompt: encoding context: %w", err)
	}
	return string(b), nil
}

func formatRate(r decimal.NullDecimal) string {
	if !r.Valid {
		return "not available (no income entered)"
	}
	return r.Decimal.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
