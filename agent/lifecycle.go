package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
	"github.com/berkmancenter/llm-engine-sub000/logging"
)

// PlatformOptions resolves an LLM platform name to its declared option
// defaults. An unrecognized platform is a fatal configuration error.
type PlatformOptions interface {
	DefaultOptions(name string) (map[string]any, error)
}

// KeepAlive is an optional ping fired when an agent starts. It runs
// un-awaited; failures are logged and never block or fail Start.
type KeepAlive func(ctx context.Context, a *Agent) error

// Config is the caller-supplied portion of a new agent. Unset fields are
// filled from the agent type's declared defaults.
type Config struct {
	ID             string
	Type           string
	Name           string
	Description    string
	Pseudonyms     []conversation.Pseudonym
	ConversationID string

	LLMPlatform        string
	LLMModel           string
	LLMModelOptions    map[string]any
	LLMPlatformOptions map[string]any
	LLMTemplates       map[string]string

	Triggers *Triggers
	History  *conversation.WindowSettings

	RAGCollectionName string
	UseTranscriptRAG  *bool

	AgentConfig map[string]any
}

// Lifecycle owns agent construction and the initialize/start/stop/introduce
// state machine. The state space is {Uninitialized, Initialized} x
// {Inactive, Active}: Initialize hydrates the conversation reference (or
// self-deletes the agent when the conversation is gone), Start and Stop
// toggle Active independently, and evaluate/respond/introduce are silent
// no-ops while Inactive.
type Lifecycle struct {
	registry      Registry
	agents        Store
	conversations conversation.Store
	platforms     PlatformOptions
	pipeline      *Pipeline
	keepAlive     KeepAlive
	logger        logging.Logger
}

// LifecycleOption customizes a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithKeepAlive installs the fire-and-forget start ping.
func WithKeepAlive(k KeepAlive) LifecycleOption {
	return func(l *Lifecycle) { l.keepAlive = k }
}

// WithLifecycleLogger installs a logger.
func WithLifecycleLogger(lg logging.Logger) LifecycleOption {
	return func(l *Lifecycle) { l.logger = lg }
}

// NewLifecycle constructs a Lifecycle.
func NewLifecycle(
	registry Registry,
	agents Store,
	conversations conversation.Store,
	platforms PlatformOptions,
	pipeline *Pipeline,
	opts ...LifecycleOption,
) *Lifecycle {
	l := &Lifecycle{
		registry:      registry,
		agents:        agents,
		conversations: conversations,
		platforms:     platforms,
		pipeline:      pipeline,
		logger:        logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.OrNoOp(l.logger)
	return l
}

// NewAgent runs the creation-time defaulting cascade and returns an agent
// ready for persistence and Initialize. The type must resolve in the
// registry and the chosen platform must be recognized; both are fatal
// configuration errors otherwise.
func (l *Lifecycle) NewAgent(cfg Config) (*Agent, error) {
	typ, ok := l.registry.Resolve(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, cfg.Type)
	}
	defaults := typ.Defaults()

	a := &Agent{
		ID:             cfg.ID,
		Type:           cfg.Type,
		Name:           cfg.Name,
		Description:    cfg.Description,
		Pseudonyms:     append([]conversation.Pseudonym(nil), cfg.Pseudonyms...),
		ConversationID: cfg.ConversationID,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Name == "" {
		a.Name = typ.Name()
	}
	if a.Description == "" {
		a.Description = typ.Description()
	}
	a.enforcePseudonym()

	a.LLMTemplates = cfg.LLMTemplates
	if a.LLMTemplates == nil {
		a.LLMTemplates = copyStringMap(defaults.LLMTemplates)
	}
	a.LLMPlatform = cfg.LLMPlatform
	if a.LLMPlatform == "" {
		a.LLMPlatform = defaults.LLMPlatform
	}
	a.LLMModel = cfg.LLMModel
	if a.LLMModel == "" {
		a.LLMModel = defaults.LLMModel
	}
	a.LLMModelOptions = cfg.LLMModelOptions
	if a.LLMModelOptions == nil {
		a.LLMModelOptions = copyAnyMap(defaults.LLMModelOptions)
	}

	a.LLMPlatformOptions = cfg.LLMPlatformOptions
	if a.LLMPlatformOptions == nil {
		a.LLMPlatformOptions = copyAnyMap(defaults.LLMPlatformOptions)
	}
	if a.LLMPlatform != "" && l.platforms != nil {
		declared, err := l.platforms.DefaultOptions(a.LLMPlatform)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.ID, err)
		}
		if a.LLMPlatformOptions == nil {
			a.LLMPlatformOptions = copyAnyMap(declared)
		}
	}

	if cfg.Triggers != nil {
		a.Triggers = *cfg.Triggers
	} else if defaults.Triggers != nil {
		a.Triggers = *defaults.Triggers
	}

	a.Config = cfg.AgentConfig
	if a.Config == nil {
		a.Config = copyAnyMap(defaults.Config)
	}

	a.History = cfg.History
	if a.History == nil {
		a.History = defaults.History
	}
	// A periodic agent with no explicit history settings looks back exactly
	// one timer period.
	if a.History == nil && a.Triggers.Periodic != nil {
		a.History = &conversation.WindowSettings{WindowSeconds: a.Triggers.Periodic.PeriodSeconds}
	}

	a.RAGCollectionName = cfg.RAGCollectionName
	if a.RAGCollectionName == "" {
		a.RAGCollectionName = defaults.RAGCollectionName
	}
	if cfg.UseTranscriptRAG != nil {
		a.UseTranscriptRAG = *cfg.UseTranscriptRAG
	} else {
		a.UseTranscriptRAG = defaults.UseTranscriptRAG
	}

	if pv, ok := typ.(PreValidator); ok {
		if err := pv.PreValidate(a); err != nil {
			return nil, fmt.Errorf("prevalidate agent %s: %w", a.ID, err)
		}
	}
	return a, nil
}

// Initialize hydrates the agent's conversation reference and delegates to
// the type's initialize hook. An agent whose conversation no longer exists
// is deleted and Initialize returns normally: self-healing, not an error.
func (l *Lifecycle) Initialize(ctx context.Context, a *Agent) error {
	if a.ID == "" {
		return ErrMissingIdentity
	}
	typ, ok := l.registry.Resolve(a.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}
	conv, err := l.conversations.Get(a.ConversationID)
	if errors.Is(err, conversation.ErrNotFound) {
		l.logger.Info("conversation gone, deleting orphaned agent", "agent_id", a.ID, "conversation_id", a.ConversationID)
		return l.agents.Delete(a.ID)
	}
	if err != nil {
		return fmt.Errorf("hydrate agent %s: %w", a.ID, err)
	}
	a.AttachConversation(conv)
	return typ.Initialize(ctx, a)
}

// Start flips the agent active, persists, and delegates to the type's start
// hook. The keep-alive ping, when configured, fires un-awaited and can never
// block or fail the start call.
func (l *Lifecycle) Start(ctx context.Context, a *Agent) error {
	typ, ok := l.registry.Resolve(a.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}
	a.Active = true
	if err := l.agents.Save(a); err != nil {
		return fmt.Errorf("persist agent %s: %w", a.ID, err)
	}
	if err := typ.Start(ctx, a); err != nil {
		return fmt.Errorf("start agent %s: %w", a.ID, err)
	}
	if l.keepAlive != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					l.logger.Warn("keep-alive ping panicked", "agent_id", a.ID, "panic", r)
				}
			}()
			if err := l.keepAlive(context.WithoutCancel(ctx), a); err != nil {
				l.logger.Warn("keep-alive ping failed", "agent_id", a.ID, "error", err)
			}
		}()
	}
	return nil
}

// Stop flips the agent inactive, persists, and delegates to the type's stop
// hook.
func (l *Lifecycle) Stop(ctx context.Context, a *Agent) error {
	typ, ok := l.registry.Resolve(a.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}
	a.Active = false
	if err := l.agents.Save(a); err != nil {
		return fmt.Errorf("persist agent %s: %w", a.ID, err)
	}
	return typ.Stop(ctx, a)
}

// Introduce asks the agent to introduce itself on a channel, forcing every
// resulting draft onto that channel. It returns no drafts when the agent is
// inactive, when the channel is direct and excludes the agent, or when the
// type defines no introduce hook.
func (l *Lifecycle) Introduce(ctx context.Context, a *Agent, ch conversation.Channel) ([]Draft, error) {
	if a == nil || !a.Active {
		return nil, nil
	}
	if ch.Direct && !ch.HasParticipant(a.Pseudonym().Name) {
		return nil, nil
	}
	typ, ok := l.registry.Resolve(a.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}
	intro, ok := typ.(Introducer)
	if !ok {
		return nil, nil
	}
	responses, err := intro.Introduce(ctx, a, ch)
	if err != nil {
		return nil, fmt.Errorf("introduce agent %s: %w", a.ID, err)
	}
	return l.pipeline.Drafts(a, responses, ch.Name)
}

// Patch applies a DeepPatch and persists the result.
func (l *Lifecycle) Patch(a *Agent, p Patch) error {
	a.DeepPatch(p)
	return l.agents.Save(a)
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
