package ai

import (
	"context"
	"fmt"

	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const systemPrompt = "Kamu adalah asisten belanja ALTOSHOP. Jawab pertanyaan pelanggan dengan singkat, ramah, dan dalam bahasa yang sama dengan pertanyaan."

// GeminiResponder answers AI chat queries with a Gemini chat model, keeping
// recent turns per conversation in the history repository.
type GeminiResponder struct {
	model    *gemini.ChatModel
	history  HistoryRepository
	maxTurns int
}

// NewGeminiResponder builds the genai client and chat model from config.
func NewGeminiResponder(ctx context.Context, cfg Config, history HistoryRepository) (*GeminiResponder, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	return &GeminiResponder{
		model:    chatModel,
		history:  history,
		maxTurns: cfg.MaxTurns,
	}, nil
}

// Reply generates an answer with the recent conversation context and persists
// both sides of the exchange.
func (g *GeminiResponder) Reply(ctx context.Context, conversationID, query string) (string, error) {
	history, err := g.history.LoadHistory(ctx, conversationID)
	if err != nil {
		return "", err
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, trimTail(history, g.maxTurns)...)
	userMsg := schema.UserMessage(query)
	messages = append(messages, userMsg)

	out, err := g.model.Generate(ctx, messages)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("gemini generate failed")
		return "", fmt.Errorf("generate reply: %w", err)
	}

	if err := g.history.AddMessage(ctx, conversationID, userMsg); err != nil {
		return "", err
	}
	if err := g.history.AddMessage(ctx, conversationID, schema.AssistantMessage(out.Content, nil)); err != nil {
		return "", err
	}

	return out.Content, nil
}

// Reset drops the stored conversation history.
func (g *GeminiResponder) Reset(ctx context.Context, conversationID string) error {
	return g.history.ClearHistory(ctx, conversationID)
}

// trimTail keeps the last maxTurns exchanges; every turn stores two messages,
// the user query and the assistant answer.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	keep := maxTurns * 2
	if maxTurns <= 0 || len(messages) <= keep {
		return messages
	}
	return messages[len(messages)-keep:]
}

var _ Responder = (*GeminiResponder)(nil)
