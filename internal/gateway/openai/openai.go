// Package openai implements gateway.Generator on the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/theirongolddev/finbot/internal/gateway"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the config leaves llm.model empty.
const DefaultModel = goopenai.GPT4oMini

// Client generates text with an OpenAI chat model.
type Client struct {
	client *goopenai.Client
	model  string
}

// New creates a client for apiKey. An empty key is rejected.
func New(apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, gateway.ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: goopenai.NewClient(apiKey), model: model}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate implements gateway.Generator. The prompt is sent as a single
// user message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", gateway.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func mapError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", gateway.ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", gateway.ErrRateLimited, err)
	}
	return fmt.Errorf("openai: %w", err)
}
