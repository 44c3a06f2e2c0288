package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/theirongolddev/finbot/internal/gateway"

	"google.golang.org/genai"
)

func TestNew_RejectsEmptyKey(t *testing.T) {
	if _, err := New(context.Background(), "", ""); !errors.Is(err, gateway.ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{401, gateway.ErrUnauthorized},
		{403, gateway.ErrUnauthorized},
		{429, gateway.ErrRateLimited},
	}
	for _, tt := range tests {
		err := mapError(fmt.Errorf("call: %w", genai.APIError{Code: tt.code, Message: "nope"}))
		if !errors.Is(err, tt.want) {
			t.Errorf("code %d: mapError = %v, want %v", tt.code, err, tt.want)
		}
	}

	cause := errors.New("no route to host")
	if err := mapError(cause); !errors.Is(err, cause) {
		t.Fatalf("mapError did not wrap the cause: %v", err)
	}
}
