package agent

import (
	"context"
	"sort"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// Defaults declares the creation-time configuration an agent of a given type
// starts from. Every field may be overridden per agent at construction.
type Defaults struct {
	LLMPlatform        string
	LLMModel           string
	LLMModelOptions    map[string]any
	LLMPlatformOptions map[string]any
	LLMTemplates       map[string]string
	Triggers           *Triggers
	History            *conversation.WindowSettings
	RAGCollectionName  string
	UseTranscriptRAG   bool
	Config             map[string]any
}

// Type is the strategy bundle behind one agent type. The core dispatches all
// behavior through this interface; one implementation exists per type and is
// registered in a Registry at construction time.
type Type interface {
	Name() string
	Description() string
	// Priority orders agents when several react to the same event; lower
	// values run first.
	Priority() int
	Defaults() Defaults

	Initialize(ctx context.Context, a *Agent) error
	Start(ctx context.Context, a *Agent) error
	Stop(ctx context.Context, a *Agent) error

	// Evaluate decides whether the agent wants to react. msg is nil on
	// periodic ticks.
	Evaluate(ctx context.Context, a *Agent, msg *conversation.Message) (*Evaluation, error)
	// Respond produces zero or more responses given the scoped history.
	Respond(ctx context.Context, a *Agent, history []conversation.Message, msg *conversation.Message) ([]Response, error)
}

// Introducer is an optional capability: types implementing it can emit an
// introduction when joining a channel.
type Introducer interface {
	Introduce(ctx context.Context, a *Agent, ch conversation.Channel) ([]Response, error)
}

// InputParser is an optional capability: types implementing it translate
// inbound messages before evaluation and response.
type InputParser interface {
	ParseInput(msg conversation.Message) conversation.Message
}

// OutputParser is an optional capability: types implementing it re-format
// emitted message bodies on demand.
type OutputParser interface {
	ParseOutput(msg conversation.Message) conversation.Message
}

// PreValidator is an optional capability: types implementing it get a final
// look at a freshly defaulted agent before it is persisted.
type PreValidator interface {
	PreValidate(a *Agent) error
}

// Registry resolves agent type names to their strategy bundles. It is
// supplied by the host application and injected into the lifecycle, gate and
// pipeline; the core never mutates it.
type Registry interface {
	Resolve(name string) (Type, bool)
	// Types returns all registered types ordered by ascending priority.
	Types() []Type
}

// MapRegistry is the standard Registry: an immutable map built once at
// construction.
type MapRegistry struct {
	types map[string]Type
}

// NewRegistry builds a MapRegistry from the given types. Later duplicates
// win, mirroring map literal semantics.
func NewRegistry(types ...Type) *MapRegistry {
	m := make(map[string]Type, len(types))
	for _, t := range types {
		m[t.Name()] = t
	}
	return &MapRegistry{types: m}
}

// Resolve implements Registry.
func (r *MapRegistry) Resolve(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types implements Registry.
func (r *MapRegistry) Types() []Type {
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() < out[j].Priority()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// BaseType bundles the identity and defaults of an agent type plus no-op
// lifecycle hooks. Embed it in concrete types and supply Evaluate/Respond.
type BaseType struct {
	TypeName        string
	TypeDescription string
	TypePriority    int
	TypeDefaults    Defaults
}

// Name returns the registry key for this type.
func (b BaseType) Name() string { return b.TypeName }

// Description returns the human-readable description.
func (b BaseType) Description() string { return b.TypeDescription }

// Priority returns the dispatch priority.
func (b BaseType) Priority() int { return b.TypePriority }

// Defaults returns the creation-time defaults.
func (b BaseType) Defaults() Defaults { return b.TypeDefaults }

// Initialize is a no-op.
func (BaseType) Initialize(context.Context, *Agent) error { return nil }

// Start is a no-op.
func (BaseType) Start(context.Context, *Agent) error { return nil }

// Stop is a no-op.
func (BaseType) Stop(context.Context, *Agent) error { return nil }
