package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Pseudonym is the display identity a participant (human or agent) writes
// under inside a conversation.
type Pseudonym struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewPseudonym creates a pseudonym with a generated id.
func NewPseudonym(name string) Pseudonym {
	return Pseudonym{ID: uuid.NewString(), Name: name}
}

// Channel is a named lane inside a conversation. Direct channels restrict
// visibility to a fixed participant set and are used for one-to-one
// messaging with an agent.
type Channel struct {
	Name         string   `json:"name"`
	Direct       bool     `json:"direct,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

// HasParticipant reports whether the pseudonym name is among the channel's
// participants.
func (c Channel) HasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// Message is a single utterance inside a conversation. FromAgent marks
// messages authored by an automated participant; such messages never count
// toward another evaluation of the same agent.
type Message struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	BodyType    string    `json:"body_type,omitempty"`
	Channels    []string  `json:"channels,omitempty"`
	Pseudonym   string    `json:"pseudonym,omitempty"`
	PseudonymID string    `json:"pseudonym_id,omitempty"`
	FromAgent   bool      `json:"from_agent,omitempty"`
	Visible     bool      `json:"visible"`
	Pause       bool      `json:"pause,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewMessage creates a visible user message with a generated id and a UTC
// timestamp.
func NewMessage(body, pseudonym string, channels ...string) Message {
	return Message{
		ID:        uuid.NewString(),
		Body:      body,
		Channels:  channels,
		Pseudonym: pseudonym,
		Visible:   true,
		Timestamp: time.Now().UTC(),
	}
}

// OnChannel reports whether the message was posted to the named channel.
func (m Message) OnChannel(name string) bool {
	for _, ch := range m.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

// AuthoredBy reports whether the message was written by an agent posting
// under the given pseudonym name.
func (m Message) AuthoredBy(pseudonym string) bool {
	return m.FromAgent && m.Pseudonym == pseudonym
}
