package store

import (
	"encoding/json"
	"time"
)

// DefaultTitle is given to every conversation at creation.
const DefaultTitle = "New Conversation"

// createdAtLayout is RFC 3339 with fixed-width nanoseconds. RFC3339Nano
// trims trailing fractional zeros, which breaks the lexicographic ordering
// both backends rely on for listing: a fraction that is a prefix of another
// compares against 'Z' instead of a digit.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation holds a conversation and its full message history.
type Conversation struct {
	// ID of this conversation.
	ID string `json:"id"`
	// Time at which the conversation was created, as an ISO-8601 UTC string.
	// Immutable after creation.
	CreatedAt string `json:"created_at"`
	// Title of this conversation.
	Title string `json:"title"`
	// The messages of this conversation, in chronological order.
	Messages []Message `json:"messages"`
}

// Message is one turn of a conversation. Its shape depends on the role:
// a user turn carries Content, an assistant turn carries the three stage
// payloads. Stage payloads are opaque to this package and persisted verbatim.
type Message struct {
	Role    string            `json:"role"`
	Content string            `json:"content,omitempty"`
	Stage1  []json.RawMessage `json:"stage1,omitempty"`
	Stage2  []json.RawMessage `json:"stage2,omitempty"`
	Stage3  json.RawMessage   `json:"stage3,omitempty"`
}

// Summary is the listing projection of a conversation. It is computed on
// each List call and never persisted.
type Summary struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
}

// NewConversation instantiates a conversation with the default title, the
// current UTC timestamp and an empty message sequence.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		CreatedAt: time.Now().UTC().Format(createdAtLayout),
		Title:     DefaultTitle,
		Messages:  []Message{},
	}
}

// AppendUser appends a user turn.
func (c *Conversation) AppendUser(content string) {
	c.Messages = append(c.Messages, Message{
		Role:    RoleUser,
		Content: content,
	})
}

// AppendAssistant appends an assistant turn with its three stage payloads.
func (c *Conversation) AppendAssistant(stage1, stage2 []json.RawMessage, stage3 json.RawMessage) {
	c.Messages = append(c.Messages, Message{
		Role:   RoleAssistant,
		Stage1: stage1,
		Stage2: stage2,
		Stage3: stage3,
	})
}

// normalize upholds the invariant that Messages is a sequence, never null.
// Both backends call it after decoding and before encoding.
func (c *Conversation) normalize() {
	if c.Messages == nil {
		c.Messages = []Message{}
	}
}
