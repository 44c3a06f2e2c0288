package gateway

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNoCredential indicates no API key has been entered for this session.
	ErrNoCredential = errors.New("gateway: no API key configured")
	// ErrUnauthorized indicates the API key was rejected by the provider.
	ErrUnauthorized = errors.New("gateway: unauthorized (API key invalid or expired)")
	// ErrRateLimited indicates the provider quota or rate limit was hit.
	ErrRateLimited = errors.New("gateway: rate limited")
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("gateway: empty response from model")
)

// Kind classifies a provider failure for display.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindQuota
	KindNetwork
	KindEmpty
	KindNoCredential
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindNetwork:
		return "network"
	case KindEmpty:
		return "empty"
	case KindNoCredential:
		return "no-credential"
	default:
		return "other"
	}
}

// Error is a failed gateway call. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(err error) *Error {
	return &Error{Kind: classify(err), Message: err.Error(), Err: err}
}

func classify(err error) Kind {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrNoCredential):
		return KindNoCredential
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrRateLimited):
		return KindQuota
	case errors.Is(err, ErrEmptyResponse):
		return KindEmpty
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindOther
	}
}
