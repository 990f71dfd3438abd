package conversation

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no conversation exists for the given id.
var ErrNotFound = errors.New("conversation not found")

// Store persists conversations and their evolving message history.
type Store interface {
	Get(id string) (*Conversation, error)
	Create(id string) (*Conversation, error)
	Save(c *Conversation) error
	Delete(id string) error
	AppendMessage(id string, msg Message) error
}

// InMemoryStore is a volatile Store implementation keeping conversations in
// a process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers.
//
// Get returns the live conversation pointer rather than a clone: agents hold
// a hydrated reference to their conversation, and the Conversation type
// carries its own synchronization.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*Conversation)}
}

// Get returns an existing conversation or ErrNotFound.
func (s *InMemoryStore) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.conversations[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

// Create allocates (or overwrites) a conversation with the given id.
func (s *InMemoryStore) Create(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := New(id)
	s.conversations[id] = c
	return c, nil
}

// Save stores the conversation under its id.
func (s *InMemoryStore) Save(c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.ID] = c
	return nil
}

// Delete removes a conversation. Deleting a missing conversation is a no-op.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

// AppendMessage adds a message to an existing conversation.
func (s *InMemoryStore) AppendMessage(id string, msg Message) error {
	s.mu.RLock()
	c, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	c.AddMessage(msg)
	return nil
}
