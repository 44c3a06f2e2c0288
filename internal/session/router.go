package session

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"
)

// Target is the display surface an outcome belongs on.
type Target int

const (
	ErrorBanner Target = iota
	SummaryPanel
	InsightCard
	NewsList
)

func (t Target) String() string {
	switch t {
	case SummaryPanel:
		return "summary"
	case InsightCard:
		return "card"
	case NewsList:
		return "news"
	default:
		return "error"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Outcome is what the presentation layer renders after an action. Only
// SummaryPanel outcomes and free-form answers outlive the next render.
type Outcome struct {
	Action    prompt.Action `json:"action"`
	Target    Target        `json:"target"`
	Title     string        `json:"title"`
	Body      string        `json:"body,omitempty"`
	Headlines []string      `json:"headlines,omitempty"`
	// Persisted is true when the session was changed by this outcome.
	Persisted bool  `json:"persisted"`
	Err       error `json:"-"`
}

// Failed reports whether the outcome is an error banner.
func (o Outcome) Failed() bool { return o.Err != nil }

type route struct {
	target  Target
	title   string
	failure string
}

var routes = map[prompt.Action]route{
	prompt.BudgetSummary:    {SummaryPanel, "Budget Summary", "Error generating budget summary"},
	prompt.SpendingInsights: {InsightCard, "Spending Insights", "Error generating insights"},
	prompt.GoalPlanning:     {InsightCard, "Your Goal Plan", "Error generating goal plan"},
	prompt.InvestmentAdvice: {InsightCard, "Investment Recommendations", "Error generating investment advice"},
	prompt.FreeformQuestion: {InsightCard, "Personalized Response", "Error generating response"},
	prompt.MarketNews:       {NewsList, "Latest Market News", "Error fetching news"},
}

// Route applies a gateway result to s and describes how to display it.
// A failed result never touches the session.
func Route(s *Session, action prompt.Action, question string, res gateway.Result) Outcome {
	r, ok := routes[action]
	if !ok {
		err := fmt.Errorf("%w: %s", prompt.ErrUnknownAction, action)
		return Outcome{Action: action, Target: ErrorBanner, Title: "Error", Body: err.Error(), Err: err}
	}
	if !res.OK() {
		return failure(action, r, res.Err)
	}

	out := Outcome{Action: action, Target: r.target, Title: r.title, Body: res.Text}
	switch action {
	case prompt.BudgetSummary:
		s.setBudget(res.Text)
		out.Persisted = true
	case prompt.FreeformQuestion:
		if _, err := s.appendExchange(question, res.Text); err != nil {
			return failure(action, r, err)
		}
		out.Persisted = true
	case prompt.MarketNews:
		out.Body = ""
		out.Headlines = res.Headlines
	}
	return out
}

// Reject builds the outcome for an action refused before any external call.
func Reject(action prompt.Action, err error) Outcome {
	r, ok := routes[action]
	if !ok {
		r = route{failure: "Error"}
	}
	msg := err.Error()
	var ve *ValidationError
	if errors.As(err, &ve) {
		msg = ve.Err.Error()
	}
	return Outcome{Action: action, Target: ErrorBanner, Title: r.title, Body: msg, Err: err}
}

func failure(action prompt.Action, r route, err error) Outcome {
	return Outcome{
		Action: action,
		Target: ErrorBanner,
		Title:  r.title,
		Body:   fmt.Sprintf("%s: %v", r.failure, err),
		Err:    err,
	}
}
