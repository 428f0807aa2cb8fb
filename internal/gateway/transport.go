package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/chat"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// actionEnvelope is the outbound wire format: the payload kind plus exactly
// one payload field.
type actionEnvelope struct {
	To      string        `json:"to"`
	Kind    string        `json:"kind"`
	Text    string        `json:"text,omitempty"`
	Buttons *chat.Buttons `json:"buttons,omitempty"`
	List    *chat.List    `json:"list,omitempty"`
	Media   *chat.Media   `json:"media,omitempty"`
}

// SinkTransport delivers outbound actions by POSTing envelopes to a webhook
// sink, leaving actual chat delivery to whatever listens there.
type SinkTransport struct {
	url    string
	client *http.Client
}

func NewSinkTransport(url string) *SinkTransport {
	return &SinkTransport{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *SinkTransport) post(ctx context.Context, env actionEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post action to sink: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sink rejected action: status %d", resp.StatusCode)
	}
	return nil
}

func (t *SinkTransport) SendText(ctx context.Context, to, text string) error {
	return t.post(ctx, actionEnvelope{To: to, Kind: "text", Text: text})
}

func (t *SinkTransport) SendButtons(ctx context.Context, to string, b chat.Buttons) error {
	return t.post(ctx, actionEnvelope{To: to, Kind: "buttons", Buttons: &b})
}

func (t *SinkTransport) SendList(ctx context.Context, to string, l chat.List) error {
	return t.post(ctx, actionEnvelope{To: to, Kind: "list", List: &l})
}

func (t *SinkTransport) SendMedia(ctx context.Context, to string, m chat.Media) error {
	return t.post(ctx, actionEnvelope{To: to, Kind: "media", Media: &m})
}

var _ chat.Transport = (*SinkTransport)(nil)

// LogTransport is the development fallback when no sink is configured: it
// logs every outbound action instead of delivering it.
type LogTransport struct{}

func (LogTransport) SendText(_ context.Context, to, text string) error {
	logx.Info().Str("to", to).Str("text", text).Msg("outbound text")
	return nil
}

func (LogTransport) SendButtons(_ context.Context, to string, b chat.Buttons) error {
	logx.Info().Str("to", to).Str("body", b.Body).Int("choices", len(b.Choices)).Msg("outbound buttons")
	return nil
}

func (LogTransport) SendList(_ context.Context, to string, l chat.List) error {
	logx.Info().Str("to", to).Str("body", l.Body).Int("sections", len(l.Sections)).Msg("outbound list")
	return nil
}

func (LogTransport) SendMedia(_ context.Context, to string, m chat.Media) error {
	logx.Info().Str("to", to).Str("url", m.URL).Msg("outbound media")
	return nil
}

var _ chat.Transport = LogTransport{}
