// Package gateway wraps the single external LLM call behind an explicit
// result type. Provider SDKs live in the gemini and openai subpackages.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/theirongolddev/finbot/internal/prompt"

	"go.uber.org/zap"
)

// Generator is the provider boundary: one prompt in, generated text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Generator from a user-entered API key. It must reject an
// empty key with ErrNoCredential.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

// Result is the outcome of one gateway call. Exactly one of Text/Headlines
// or Err is meaningful.
type Result struct {
	Text      string
	Headlines []string
	Err       *Error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Gateway executes prompts against a Generator. A Gateway without a
// Generator has no credential and fails every call with ErrNoCredential.
type Gateway struct {
	gen Generator
	log *zap.Logger
}

// New returns a gateway for gen. gen may be nil until a credential is entered.
func New(gen Generator, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{gen: gen, log: log}
}

// Configured reports whether a credential-backed generator is present.
func (g *Gateway) Configured() bool {
	return g != nil && g.gen != nil
}

// Generate sends prompt once. There is no retry and no timeout beyond what
// ctx and the provider impose.
func (g *Gateway) Generate(ctx context.Context, p string) Result {
	if !g.Configured() {
		return Result{Err: newError(ErrNoCredential)}
	}

	start := time.Now()
	text, err := g.gen.Generate(ctx, p)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}

	fields := []zap.Field{
		zap.Int("prompt_chars", len([]rune(p))),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		gerr := newError(err)
		g.log.Warn("llm call failed", append(fields, zap.Stringer("kind", gerr.Kind), zap.Error(err))...)
		return Result{Err: gerr}
	}

	g.log.Info("llm call completed", append(fields, zap.Int("response_chars", len([]rune(text))))...)
	return Result{Text: text}
}

// MarketNews requests the fixed headline prompt for market and post-processes
// the reply into at most prompt.NewsHeadlines lines.
func (g *Gateway) MarketNews(ctx context.Context, market string) Result {
	p, err := prompt.Build(prompt.Request{Action: prompt.MarketNews, Market: market})
	if err != nil {
		return Result{Err: newError(err)}
	}

	res := g.Generate(ctx, p)
	if !res.OK() {
		return res
	}
	res.Headlines = ParseHeadlines(res.Text, prompt.NewsHeadlines)
	return res
}

// ParseHeadlines splits raw into trimmed, non-empty lines and keeps the first
// limit of them. Blank lines are dropped and do not count toward limit.
func ParseHeadlines(raw string, limit int) []string {
	out := make([]string, 0, limit)
	for _, line := range strings.Split(raw, "\n") {
		if len(out) >= limit {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
