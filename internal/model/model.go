// Package model wraps the Genkit language-model calls used by the query
// engine. It exposes exactly the two invocation shapes the routing logic
// distinguishes: a two-message chat exchange with a system instruction,
// and a bare completion with no chat framing. The distinction changes how
// the model conditions on instructions, so the two must not be merged.
package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// ErrInvocation indicates a language-model or embedding call failed.
// Failures are propagated unmodified; any retry policy belongs to the
// model provider client, not here.
var ErrInvocation = errors.New("model invocation failed")

// Client invokes the configured language model through Genkit.
type Client struct {
	g       *genkit.Genkit
	model   string
	limiter *rate.Limiter // nil disables pacing
	logger  log.Logger
}

// New creates a model client. requestsPerSecond > 0 enables a proactive
// rate limiter in front of every invocation; 0 disables it.
func New(g *genkit.Genkit, modelName string, requestsPerSecond float64, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{g: g, model: modelName, limiter: limiter, logger: logger}
}

// Chat sends a two-message exchange: the system instruction followed by
// the user query, in that order.
func (c *Client) Chat(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.model),
		ai.WithMessages(chatMessages(systemPrompt, userQuery)...),
	)
	if err != nil {
		return "", fmt.Errorf("%w: chat: %v", ErrInvocation, err)
	}

	c.logger.Debug("chat completed", "model", c.model)
	return resp.Text(), nil
}

// Complete sends a single free-form prompt with no chat framing.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.model),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", ErrInvocation, err)
	}

	c.logger.Debug("completion finished", "model", c.model)
	return resp.Text(), nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvocation, err)
	}
	return nil
}

// chatMessages builds the system+user message pair for Chat.
func chatMessages(systemPrompt, userQuery string) []*ai.Message {
	return []*ai.Message{
		ai.NewSystemTextMessage(systemPrompt),
		ai.NewUserTextMessage(userQuery),
	}
}
