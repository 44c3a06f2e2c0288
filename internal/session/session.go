// Package session holds the state of one interactive user session and the
// controller that runs LLM actions against it.
package session

import (
	"fmt"
	"time"

	"github.com/theirongolddev/finbot/internal/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the set of data the user has entered so far. ProfileSet and
// DataEntered are independent flags.
type State uint8

const (
	Uninitialized State = 0
	ProfileSet    State = 1 << (iota - 1)
	DataEntered
)

// Has reports whether every flag in f is set.
func (s State) Has(f State) bool { return s&f == f }

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ProfileSet:
		return "profile-set"
	case DataEntered:
		return "data-entered"
	case ProfileSet | DataEntered:
		return "profile-set+data-entered"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// BudgetSummary is the last successfully generated budget summary.
type BudgetSummary struct {
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ChatExchange is one answered free-form question.
type ChatExchange struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatLog is the append-only exchange sequence of one session.
type ChatLog interface {
	Append(ex ChatExchange) error
	// Recent returns at most n exchanges, newest first.
	Recent(n int) ([]ChatExchange, error)
	Len() (int, error)
	Close() error
}

// Session is the complete in-memory state of one user interaction. It is not
// safe for concurrent use; callers run one action at a time per session.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	profile    *finance.UserProfile
	financials *finance.FinancialData
	budget     *BudgetSummary
	history    ChatLog
	now        func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithChatLog replaces the default in-memory chat log.
func WithChatLog(l ChatLog) Option {
	return func(s *Session) { s.history = l }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		ID:  uuid.New(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.history == nil {
		s.history = NewMemoryLog()
	}
	s.CreatedAt = s.now()
	return s
}

// SaveProfile replaces the profile wholesale, stamping CreatedAt.
func (s *Session) SaveProfile(p finance.UserProfile) {
	p = p.Clone()
	p.Goals = finance.NormalizeGoals(p.Goals)
	p.CreatedAt = s.now()
	s.profile = &p
}

// UpdateFinancials replaces the financial data wholesale. The expense total is
// recomputed; negative amounts and unknown categories are rejected and leave
// the previous data in place.
func (s *Session) UpdateFinancials(income decimal.Decimal, expenses map[finance.Category]decimal.Decimal) error {
	if err := finance.ValidateAmount(income); err != nil {
		return fmt.Errorf("monthly income: %w", err)
	}
	for c, amt := range expenses {
		if err := finance.ValidateAmount(amt); err != nil {
			return fmt.Errorf("%s: %w", c.Label(), err)
		}
	}

	fd, err := finance.NewFinancialData(income, expenses, s.now())
	if err != nil {
		return err
	}
	s.financials = &fd
	return nil
}

// Profile returns a copy of the saved profile, or nil.
func (s *Session) Profile() *finance.UserProfile {
	if s.profile == nil {
		return nil
	}
	p := s.profile.Clone()
	return &p
}

// Financials returns a copy of the entered data, or nil.
func (s *Session) Financials() *finance.FinancialData {
	if s.financials == nil {
		return nil
	}
	fd := s.financials.Clone()
	return &fd
}

// Metrics computes the derived figures from the current data. With no data
// entered every figure is zero and the savings rate is undefined.
func (s *Session) Metrics() finance.Metrics {
	if s.financials == nil {
		return finance.ComputeMetrics(finance.EmptyFinancialData())
	}
	return finance.ComputeMetrics(*s.financials)
}

// Budget returns the last budget summary, or nil.
func (s *Session) Budget() *BudgetSummary {
	if s.budget == nil {
		return nil
	}
	b := *s.budget
	return &b
}

// State reports which data the user has entered.
func (s *Session) State() State {
	st := Uninitialized
	if s.profile != nil {
		st |= ProfileSet
	}
	if s.financials != nil {
		st |= DataEntered
	}
	return st
}

// Close releases the chat log. The session must not be used afterwards.
func (s *Session) Close() error {
	return s.history.Close()
}

func (s *Session) setBudget(text string) {
	s.budget = &BudgetSummary{Summary: text, GeneratedAt: s.now()}
}

func (s *Session) appendExchange(question, response string) (ChatExchange, error) {
	ex := ChatExchange{
		ID:        uuid.New(),
		Question:  question,
		Response:  response,
		Timestamp: s.now(),
	}
	if err := s.history.Append(ex); err != nil {
		return ChatExchange{}, fmt.Errorf("saving chat exchange: %w", err)
	}
	return ex, nil
}
