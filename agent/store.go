package agent

import (
	"errors"
	"sync"
)

// ErrAgentNotFound is returned when no agent exists for the given id.
var ErrAgentNotFound = errors.New("agent not found")

// Store persists agents and the watermark state the activation gate depends
// on. Save must persist LastActiveMessageCount atomically with the rest of
// the entity.
type Store interface {
	Get(id string) (*Agent, error)
	Save(a *Agent) error
	Delete(id string) error
	ListByConversation(conversationID string) ([]*Agent, error)
}

// InMemoryStore is a volatile Store keeping agents in a process-local map.
// Safe for concurrent access; suited to tests and ephemeral deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewInMemoryStore constructs an empty in-memory agent store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{agents: make(map[string]*Agent)}
}

// Get returns the agent with the given id or ErrAgentNotFound.
func (s *InMemoryStore) Get(id string) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.agents[id]; ok {
		return a, nil
	}
	return nil, ErrAgentNotFound
}

// Save stores the agent under its id.
func (s *InMemoryStore) Save(a *Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[a.ID] = a
	return nil
}

// Delete removes an agent. Deleting a missing agent is a no-op.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agents, id)
	return nil
}

// ListByConversation returns every agent bound to the given conversation.
func (s *InMemoryStore) ListByConversation(conversationID string) ([]*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Agent
	for _, a := range s.agents {
		if a.ConversationID == conversationID {
			out = append(out, a)
		}
	}
	return out, nil
}
