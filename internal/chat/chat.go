// Package chat defines the wire-level contract between the bot core and the
// messaging transport. The core decides content and payload shape; delivery
// mechanics belong to the transport implementation.
package chat

import "context"

// MessageType distinguishes free text from structured selections.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeButtons MessageType = "buttons_response"
	TypeList    MessageType = "list_response"
)

// Message is one inbound chat event.
type Message struct {
	ID       string      `json:"id,omitempty"`
	SenderID string      `json:"sender_id"`
	Body     string      `json:"body"`
	Type     MessageType `json:"type"`

	// Structured selection identifiers; at most one is set, matching Type.
	ButtonID  string `json:"button_id,omitempty"`
	ListRowID string `json:"list_row_id,omitempty"`
}

// Button is one tappable choice.
type Button struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Buttons is a text payload with up to a handful of tappable choices.
type Buttons struct {
	Header  string   `json:"header,omitempty"`
	Body    string   `json:"body"`
	Choices []Button `json:"choices"`
}

// Row is one selectable entry inside a list section.
type Row struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Section is a titled group of rows.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// List is a text payload opened through a single button revealing row sections.
type List struct {
	Header      string    `json:"header,omitempty"`
	Body        string    `json:"body"`
	ButtonLabel string    `json:"button_label"`
	Sections    []Section `json:"sections"`
}

// Media is one attachment with an optional caption.
type Media struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Transport delivers outbound payloads to a chat. Implementations live at the
// edge; the core never learns how messages actually reach the user.
type Transport interface {
	SendText(ctx context.Context, to, text string) error
	SendButtons(ctx context.Context, to string, b Buttons) error
	SendList(ctx context.Context, to string, l List) error
	SendMedia(ctx context.Context, to string, m Media) error
}
