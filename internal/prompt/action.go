package prompt

import (
	"fmt"
	"strings"
)

// Action is one of the fixed request kinds. Each has its own template and
// its own response-handling rule.
type Action int

const (
	BudgetSummary Action = iota + 1
	SpendingInsights
	GoalPlanning
	InvestmentAdvice
	FreeformQuestion
	MarketNews
)

// Actions lists every action kind in menu order.
var Actions = []Action{BudgetSummary, SpendingInsights, GoalPlanning, InvestmentAdvice, FreeformQuestion, MarketNews}

var actionNames = map[Action]struct{ key, label string }{
	BudgetSummary:    {"budget-summary", "Budget Summary"},
	SpendingInsights: {"spending-insights", "Spending Insights"},
	GoalPlanning:     {"goal-planning", "Goal Planning"},
	InvestmentAdvice: {"investment-advice", "Investment Advice"},
	FreeformQuestion: {"question", "Ask a Question"},
	MarketNews:       {"market-news", "Market News"},
}

// String returns the human label, e.g. "Budget Summary".
func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n.label
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Key returns the URL-safe identifier, e.g. "budget-summary".
func (a Action) Key() string {
	if n, ok := actionNames[a]; ok {
		return n.key
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler using Key.
func (a Action) MarshalText() ([]byte, error) {
	if a.Key() == "" {
		return nil, fmt.Errorf("prompt: unknown action %d", int(a))
	}
	return []byte(a.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// NeedsUserData reports whether the action's prompt is built from the profile.
func (a Action) NeedsUserData() bool {
	return a != MarketNews
}

// ParseAction accepts a key ("budget-summary", "budget_summary") or a label.
func ParseAction(s string) (Action, error) {
	norm := strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(strings.TrimSpace(s)))
	for a, n := range actionNames {
		if norm == n.key || norm == strings.ReplaceAll(strings.ToLower(n.label), " ", "-") {
			return a, nil
		}
	}
	return 0, fmt.Errorf("prompt: unknown action %q", s)
}
