package conversation

import (
	"sync"
	"time"
)

// Conversation is the container a set of agents participates in. It tracks
// an ordered message history, the channel layout and the moment the
// conversation started (used to size "from the beginning" retrieval windows).
// It is safe for concurrent access.
//
// Contract:
//   - Mutations update the Updated timestamp
//   - Accessors return defensive copies
//   - Clone performs deep copies of slices/maps for safe divergence
type Conversation struct {
	ID        string            `json:"id"`
	StartTime time.Time         `json:"start_time"`
	Messages  []Message         `json:"messages"`
	Channels  []Channel         `json:"channels,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Created   time.Time         `json:"created"`
	Updated   time.Time         `json:"updated"`
	mu        sync.RWMutex
}

// New creates an empty conversation starting now.
func New(id string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        id,
		StartTime: now,
		Messages:  []Message{},
		Metadata:  map[string]string{},
		Created:   now,
		Updated:   now,
	}
}

// AddMessage appends a message to the history.
func (c *Conversation) AddMessage(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = append(c.Messages, msg)
	c.Updated = time.Now()
}

// AddChannel registers a channel, replacing any existing channel with the
// same name.
func (c *Conversation) AddChannel(ch Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.Channels {
		if existing.Name == ch.Name {
			c.Channels[i] = ch
			c.Updated = time.Now()
			return
		}
	}
	c.Channels = append(c.Channels, ch)
	c.Updated = time.Now()
}

// GetMessages returns a defensive copy of the full message history.
func (c *Conversation) GetMessages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	return msgs
}

// GetChannels returns a defensive copy of the channel list.
func (c *Conversation) GetChannels() []Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chs := make([]Channel, len(c.Channels))
	copy(chs, c.Channels)
	return chs
}

// Channel looks up a channel by name.
func (c *Conversation) Channel(name string) (Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.Channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// DirectChannels returns every direct channel that includes all of the given
// participant pseudonyms.
func (c *Conversation) DirectChannels(participants ...string) []Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Channel
	for _, ch := range c.Channels {
		if !ch.Direct {
			continue
		}
		all := true
		for _, p := range participants {
			if !ch.HasParticipant(p) {
				all = false
				break
			}
		}
		if all {
			out = append(out, ch)
		}
	}
	return out
}

// HasMessage reports whether a message with the given id is already part of
// the history.
func (c *Conversation) HasMessage(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// MessageCountExcludingAuthor counts messages not authored by the agent
// writing under the given pseudonym. Messages from other agents still count.
func (c *Conversation) MessageCountExcludingAuthor(pseudonym string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, m := range c.Messages {
		if m.AuthoredBy(pseudonym) {
			continue
		}
		count++
	}
	return count
}

// Clone returns a deep copy of the conversation safe for independent
// mutation.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{
		ID:        c.ID,
		StartTime: c.StartTime,
		Messages:  make([]Message, len(c.Messages)),
		Channels:  make([]Channel, len(c.Channels)),
		Metadata:  make(map[string]string, len(c.Metadata)),
		Created:   c.Created,
		Updated:   c.Updated,
	}
	copy(clone.Messages, c.Messages)
	copy(clone.Channels, c.Channels)
	for k, v := range c.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
