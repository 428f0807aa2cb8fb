// Package ai is the generative responder behind the AI chat session. Failures
// are recoverable: callers reply with a generic apology and keep the session.
package ai

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Responder turns a free-text query into a reply, keeping per-conversation
// context under the given conversation id. Reset discards that context so the
// next session starts clean.
type Responder interface {
	Reply(ctx context.Context, conversationID, query string) (string, error)
	Reset(ctx context.Context, conversationID string) error
}

// HistoryRepository stores per-conversation message history.
type HistoryRepository interface {
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error
	LoadHistory(ctx context.Context, conversationID string) ([]*schema.Message, error)
	ClearHistory(ctx context.Context, conversationID string) error
}

// Config holds the responder settings, sourced from environment variables.
// An empty API key disables the AI chat feature entirely.
type Config struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	BaseURL     string  `envconfig:"GEMINI_BASE_URL"`
	Model       string  `envconfig:"AI_MODEL" default:"gemini-1.5-flash"`
	MaxTokens   int     `envconfig:"AI_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"AI_TEMPERATURE" default:"0.4"`
	MaxTurns    int     `envconfig:"AI_MAX_TURNS" default:"10"`
}

// Enabled reports whether the responder can be constructed.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
