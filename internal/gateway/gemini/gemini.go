// Package gemini implements gateway.Generator on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/theirongolddev/finbot/internal/gateway"

	"google.golang.org/genai"
)

// DefaultModel is used when the config leaves llm.model empty.
const DefaultModel = "gemini-2.0-flash-exp"

// Client generates text with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a client for apiKey. An empty key is rejected.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, gateway.ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate implements gateway.Generator.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", mapError(err)
	}
	return resp.Text(), nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("gemini: %w", err)
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", gateway.ErrUnauthorized, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", gateway.ErrRateLimited, apiErr.Message)
	}
	return fmt.Errorf("gemini: %w", err)
}
