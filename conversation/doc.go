// Package conversation holds the entities shared by every part of the agent
// core: messages, channels, pseudonymous participants and the conversation
// container itself, plus the Store persistence interface and the
// history-windowing collaborator used by the response pipeline.
//
// Conversation values are safe for concurrent access; accessor methods return
// defensive copies so callers can never mutate internal state.
package conversation
