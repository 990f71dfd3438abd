package testutil

import (
	"time"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// ConversationBuilder helps construct conversations with fluent chaining for
// tests. Example:
//
//	conv := NewConversationBuilder("conv-1").
//		StartedAt(start).
//		Channel("main").
//		Message(NewMessageBuilder().From("alice").Body("hi").On("main").Build()).
//		Build()
type ConversationBuilder struct {
	conv *conversation.Conversation
}

// NewConversationBuilder creates a builder for an empty conversation.
func NewConversationBuilder(id string) *ConversationBuilder {
	return &ConversationBuilder{conv: conversation.New(id)}
}

// StartedAt sets the conversation start time (chainable).
func (b *ConversationBuilder) StartedAt(t time.Time) *ConversationBuilder {
	b.conv.StartTime = t
	return b
}

// Channel adds a public channel (chainable).
func (b *ConversationBuilder) Channel(name string) *ConversationBuilder {
	b.conv.AddChannel(conversation.Channel{Name: name})
	return b
}

// DirectChannel adds a direct channel with the given participants
// (chainable).
func (b *ConversationBuilder) DirectChannel(name string, participants ...string) *ConversationBuilder {
	b.conv.AddChannel(conversation.Channel{Name: name, Direct: true, Participants: participants})
	return b
}

// Message appends a message (chainable).
func (b *ConversationBuilder) Message(msg conversation.Message) *ConversationBuilder {
	b.conv.AddMessage(msg)
	return b
}

// Build returns the constructed conversation.
func (b *ConversationBuilder) Build() *conversation.Conversation { return b.conv }
