// Package platform abstracts the LLM backends agents complete against. A
// Registry maps a platform name to an adapter that knows its own option
// defaults and how to run a completion. Agents reference platforms by name
// only; resolution happens at agent creation and response time.
package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownPlatform is returned when a platform name resolves to nothing.
// Referencing an unrecognized platform is a configuration error.
var ErrUnknownPlatform = errors.New("unknown llm platform")

// Request carries one completion call. Options override the platform's
// declared defaults key by key.
type Request struct {
	Model   string
	System  string
	Prompt  string
	Options map[string]any
}

// Platform is one LLM backend.
type Platform interface {
	// Name is the registry key agents reference.
	Name() string
	// DefaultOptions returns the platform's declared option defaults. May
	// be nil when the platform declares none.
	DefaultOptions() map[string]any
	// Complete runs a single completion and returns the generated text.
	Complete(ctx context.Context, req Request) (string, error)
}

// Registry holds named platforms. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	platforms map[string]Platform
}

// NewRegistry builds a registry pre-populated with the given platforms.
func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{platforms: make(map[string]Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms[p.Name()] = p
	}
	return r
}

// Register adds or replaces a platform under its name.
func (r *Registry) Register(p Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[p.Name()] = p
}

// Lookup resolves a platform by name.
func (r *Registry) Lookup(name string) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.platforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return p, nil
}

// DefaultOptions resolves a platform and returns its declared defaults. It
// satisfies the options-lookup collaborator the agent lifecycle consumes.
func (r *Registry) DefaultOptions(name string) (map[string]any, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p.DefaultOptions(), nil
}

// Names lists the registered platform names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FloatOption reads a float option tolerating the numeric types JSON and
// YAML decoding produce.
func FloatOption(opts map[string]any, key string, fallback float64) float64 {
	switch v := opts[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// IntOption reads an integer option tolerating the numeric types JSON and
// YAML decoding produce.
func IntOption(opts map[string]any, key string, fallback int64) int64 {
	switch v := opts[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return fallback
	}
}
