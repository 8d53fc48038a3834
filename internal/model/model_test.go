package model

import (
	"context"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

func TestChatMessagesFraming(t *testing.T) {
	msgs := chatMessages("You are a marine biology assistant.", "What is the Wadden Sea?")

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != ai.RoleSystem {
		t.Errorf("first role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Role != ai.RoleUser {
		t.Errorf("second role = %q, want user", msgs[1].Role)
	}
	if got := msgs[0].Text(); got != "You are a marine biology assistant." {
		t.Errorf("system text = %q", got)
	}
	if got := msgs[1].Text(); got != "What is the Wadden Sea?" {
		t.Errorf("user text = %q", got)
	}
}

func TestLimiterDisabledByDefault(t *testing.T) {
	c := New(nil, "gpt-4o", 0, log.NewNop())
	if c.limiter != nil {
		t.Error("limiter should be nil when rate is 0")
	}
	if err := c.wait(context.Background()); err != nil {
		t.Errorf("wait with nil limiter: %v", err)
	}
}

func TestLimiterPacesCalls(t *testing.T) {
	// 1000 req/s with burst 1: the second wait must block roughly 1ms.
	c := New(nil, "gpt-4o", 1000, log.NewNop())

	start := time.Now()
	if err := c.wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if err := c.wait(context.Background()); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 500*time.Microsecond {
		t.Errorf("limiter did not pace: elapsed %v", elapsed)
	}
}

func TestWaitCanceledContext(t *testing.T) {
	c := New(nil, "gpt-4o", 0.001, log.NewNop()) // effectively never refills
	if err := c.wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.wait(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
