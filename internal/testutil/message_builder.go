package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// MessageBuilder provides a fluent helper for constructing messages in
// tests. Example:
//
//	msg := NewMessageBuilder().From("alice").Body("hi").On("main").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	msg conversation.Message
}

// NewMessageBuilder creates a builder for a visible participant message
// timestamped now.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{msg: conversation.Message{
		ID:        uuid.NewString(),
		Visible:   true,
		Timestamp: time.Now().UTC(),
	}}
}

// ID overrides the auto-generated message ID (chainable). Use where
// determinism matters.
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.msg.ID = id; return b }

// Body sets the message body (chainable).
func (b *MessageBuilder) Body(body string) *MessageBuilder { b.msg.Body = body; return b }

// From sets the author pseudonym (chainable).
func (b *MessageBuilder) From(pseudonym string) *MessageBuilder {
	b.msg.Pseudonym = pseudonym
	return b
}

// FromAgent marks the message as agent-authored under the given pseudonym
// (chainable).
func (b *MessageBuilder) FromAgent(pseudonym string) *MessageBuilder {
	b.msg.Pseudonym = pseudonym
	b.msg.FromAgent = true
	return b
}

// On appends channel names the message is addressed to (chainable).
func (b *MessageBuilder) On(channels ...string) *MessageBuilder {
	b.msg.Channels = append(b.msg.Channels, channels...)
	return b
}

// At sets the message timestamp (chainable).
func (b *MessageBuilder) At(t time.Time) *MessageBuilder { b.msg.Timestamp = t; return b }

// Invisible marks the message invisible (chainable).
func (b *MessageBuilder) Invisible() *MessageBuilder { b.msg.Visible = false; return b }

// Build returns the constructed message.
func (b *MessageBuilder) Build() conversation.Message { return b.msg }
