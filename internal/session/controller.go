package session

import (
	"context"

	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"

	"go.uber.org/zap"
)

// Controller runs user-triggered actions against a session: precondition
// checks, prompt construction, the gateway call and routing of the result.
type Controller struct {
	Gateway  *gateway.Gateway
	Currency string
	Market   string
	Logger   *zap.Logger
}

// Call is a validated action ready to be sent. It carries everything the
// gateway needs so Execute never reads the session.
type Call struct {
	Action   prompt.Action
	Question string
	Prompt   string
}

// needsFinancials lists the actions that must not run on zero placeholder data.
func needsFinancials(a prompt.Action) bool {
	switch a {
	case prompt.BudgetSummary, prompt.SpendingInsights, prompt.InvestmentAdvice:
		return true
	}
	return false
}

// Check validates the preconditions of action against s without side effects.
func (c *Controller) Check(s *Session, action prompt.Action, question string) error {
	reject := func(err error) error { return &ValidationError{Action: action, Err: err} }

	if _, ok := routes[action]; !ok {
		return reject(prompt.ErrUnknownAction)
	}
	if !c.Gateway.Configured() {
		return reject(ErrNoCredential)
	}
	st := s.State()
	if action.NeedsUserData() && !st.Has(ProfileSet) {
		return reject(ErrProfileRequired)
	}
	if needsFinancials(action) && !st.Has(DataEntered) {
		return reject(ErrFinancialsRequired)
	}
	if action == prompt.FreeformQuestion && prompt.IsBlank(question) {
		return reject(ErrBlankQuestion)
	}
	return nil
}

// Available lists the actions whose preconditions currently hold, ignoring
// the question text.
func (c *Controller) Available(s *Session) []prompt.Action {
	var out []prompt.Action
	for _, a := range prompt.Actions {
		if c.Check(s, a, "?") == nil {
			out = append(out, a)
		}
	}
	return out
}

// Prepare checks preconditions and builds the prompt from the session's
// current data.
func (c *Controller) Prepare(s *Session, action prompt.Action, question string) (Call, error) {
	if err := c.Check(s, action, question); err != nil {
		return Call{}, err
	}
	call := Call{Action: action, Question: question}
	if action == prompt.MarketNews {
		return call, nil
	}

	m := s.Metrics()
	p, err := prompt.Build(prompt.Request{
		Action:     action,
		Profile:    s.Profile(),
		Financials: s.Financials(),
		Metrics:    &m,
		Question:   question,
		Currency:   c.Currency,
		Market:     c.Market,
	})
	if err != nil {
		return Call{}, &ValidationError{Action: action, Err: err}
	}
	call.Prompt = p
	return call, nil
}

// Execute performs the single gateway call for a prepared action. It blocks
// until the provider answers or fails.
func (c *Controller) Execute(ctx context.Context, call Call) gateway.Result {
	if call.Action == prompt.MarketNews {
		return c.Gateway.MarketNews(ctx, c.Market)
	}
	return c.Gateway.Generate(ctx, call.Prompt)
}

// Complete routes the result of an executed call back into s.
func (c *Controller) Complete(s *Session, call Call, res gateway.Result) Outcome {
	out := Route(s, call.Action, call.Question, res)
	c.logger().Info("action finished",
		zap.String("session", s.ID.String()),
		zap.String("action", call.Action.Key()),
		zap.Stringer("target", out.Target),
		zap.Bool("persisted", out.Persisted),
	)
	return out
}

// Run executes action end to end. Validation failures and gateway errors are
// reported in the returned Outcome; the session is only changed on success.
func (c *Controller) Run(ctx context.Context, s *Session, action prompt.Action, question string) Outcome {
	call, err := c.Prepare(s, action, question)
	if err != nil {
		c.logger().Debug("action rejected",
			zap.String("session", s.ID.String()),
			zap.String("action", action.Key()),
			zap.Error(err),
		)
		return Reject(action, err)
	}
	return c.Complete(s, call, c.Execute(ctx, call))
}

func (c *Controller) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
