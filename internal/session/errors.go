package session

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"
)

var (
	// ErrProfileRequired rejects an action attempted before a profile is saved.
	ErrProfileRequired = errors.New("please set up your profile first")
	// ErrFinancialsRequired rejects an action that needs income and expenses.
	ErrFinancialsRequired = errors.New("please enter your financial data first")
	// ErrBlankQuestion rejects an empty free-form question.
	ErrBlankQuestion = prompt.ErrBlankQuestion
	// ErrNoCredential rejects any action before an API key is entered.
	ErrNoCredential = gateway.ErrNoCredential
)

// ValidationError is an action rejected before any external call. The
// session is unchanged.
type ValidationError struct {
	Action prompt.Action
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
