// Package llmengine provides a high-level façade over the agent activation
// and response core. Most applications interact with this package by:
//  1. Creating an Engine via New() (optionally overriding the default
//     in-memory stores, windower, platforms and logger)
//  2. Registering agent types through the agent registry
//  3. Creating agents bound to conversations and feeding events through
//     HandleMessage (per-message path) and Tick (periodic path)
//
// The façade delegates the activation state machine to agent.Gate, response
// assembly to agent.Pipeline and the lifecycle to agent.Lifecycle while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply durable
// store implementations and a structured logger.
package llmengine

import (
	"context"
	"fmt"
	"sort"

	"github.com/berkmancenter/llm-engine-sub000/agent"
	"github.com/berkmancenter/llm-engine-sub000/conversation"
	"github.com/berkmancenter/llm-engine-sub000/logging"
	"github.com/berkmancenter/llm-engine-sub000/platform"
)

// Options configures the Engine instance.
type Options struct {
	// Registry resolves agent type names. Required; the zero registry knows
	// no types and every agent creation fails.
	Registry agent.Registry

	// Stores (default to in-memory implementations if not provided).
	AgentStore        agent.Store
	ConversationStore conversation.Store

	// Platforms resolves LLM platform names during agent creation. Defaults
	// to an empty registry; agents referencing any platform then fail fast.
	Platforms *platform.Registry

	// Windower assembles scoped history for the response pipeline. Defaults
	// to a SlidingWindower with standard tolerance.
	Windower conversation.Windower

	// Trace wraps delegate respond calls for instrumentation. Defaults to a
	// passthrough.
	Trace agent.TraceFunc

	// Prefilter, when set, can veto messages before delegate evaluation.
	Prefilter agent.Prefilter

	// KeepAlive, when set, fires un-awaited whenever an agent starts.
	KeepAlive agent.KeepAlive

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Engine is the high-level façade aggregating the gate, pipeline and
// lifecycle over shared stores.
type Engine struct {
	opts          Options
	registry      agent.Registry
	agents        agent.Store
	conversations conversation.Store
	gate          *agent.Gate
	pipeline      *agent.Pipeline
	lifecycle     *agent.Lifecycle
	logger        logging.Logger
}

// New creates an Engine with optional overrides. Any unset store is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Registry:          agent.NewRegistry(),
		AgentStore:        agent.NewInMemoryStore(),
		ConversationStore: conversation.NewInMemoryStore(),
		Platforms:         platform.NewRegistry(),
		Windower:          conversation.NewSlidingWindower(),
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	gate := agent.NewGate(opts.Registry, opts.AgentStore,
		agent.WithPrefilter(opts.Prefilter),
		agent.WithGateLogger(logger),
	)
	pipeline := agent.NewPipeline(opts.Registry, opts.Windower,
		agent.WithTrace(opts.Trace),
		agent.WithPipelineLogger(logger),
	)
	lifecycle := agent.NewLifecycle(opts.Registry, opts.AgentStore, opts.ConversationStore, opts.Platforms, pipeline,
		agent.WithKeepAlive(opts.KeepAlive),
		agent.WithLifecycleLogger(logger),
	)

	return &Engine{
		opts:          opts,
		registry:      opts.Registry,
		agents:        opts.AgentStore,
		conversations: opts.ConversationStore,
		gate:          gate,
		pipeline:      pipeline,
		lifecycle:     lifecycle,
		logger:        logger,
	}
}

// Lifecycle exposes the agent lifecycle for callers that need construction
// or patching beyond the convenience methods.
func (e *Engine) Lifecycle() *agent.Lifecycle { return e.lifecycle }

// Conversations exposes the conversation store.
func (e *Engine) Conversations() conversation.Store { return e.conversations }

// Agents exposes the agent store.
func (e *Engine) Agents() agent.Store { return e.agents }

// CreateConversation creates an empty conversation under the given id.
func (e *Engine) CreateConversation(id string) (*conversation.Conversation, error) {
	return e.conversations.Create(id)
}

// CreateAgent runs the defaulting cascade, persists the agent and
// initializes it against its conversation.
func (e *Engine) CreateAgent(ctx context.Context, cfg agent.Config) (*agent.Agent, error) {
	a, err := e.lifecycle.NewAgent(cfg)
	if err != nil {
		return nil, err
	}
	if err := e.agents.Save(a); err != nil {
		return nil, fmt.Errorf("persist agent %s: %w", a.ID, err)
	}
	if err := e.lifecycle.Initialize(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// StartAgent activates an agent by id.
func (e *Engine) StartAgent(ctx context.Context, id string) error {
	a, err := e.agents.Get(id)
	if err != nil {
		return err
	}
	return e.lifecycle.Start(ctx, a)
}

// StopAgent deactivates an agent by id.
func (e *Engine) StopAgent(ctx context.Context, id string) error {
	a, err := e.agents.Get(id)
	if err != nil {
		return err
	}
	return e.lifecycle.Stop(ctx, a)
}

// HandleMessage feeds one inbound message through every agent bound to the
// conversation, ordered by type priority. Each agent is evaluated against
// the not-yet-persisted message; the message is then persisted (its
// visibility honoring the evaluations) and contributing agents respond. The
// emitted agent messages are appended to the conversation and returned.
func (e *Engine) HandleMessage(ctx context.Context, conversationID string, msg conversation.Message) ([]conversation.Message, error) {
	if _, err := e.conversations.Get(conversationID); err != nil {
		return nil, err
	}
	agents, err := e.activeAgents(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	userVisible := msg.Visible
	var contributors []*agent.Agent
	agentVisible := map[string]bool{}
	for _, a := range agents {
		eval, err := e.gate.Evaluate(ctx, a, &msg)
		if err != nil {
			return nil, err
		}
		if eval == nil {
			continue
		}
		if eval.UserContributionVisible != nil && !*eval.UserContributionVisible {
			userVisible = false
		}
		if eval.Action == agent.ActionContribute {
			contributors = append(contributors, a)
			agentVisible[a.ID] = eval.AgentContributionVisible == nil || *eval.AgentContributionVisible
		}
	}

	msg.Visible = userVisible
	if err := e.conversations.AppendMessage(conversationID, msg); err != nil {
		return nil, err
	}

	var emitted []conversation.Message
	for _, a := range contributors {
		drafts, err := e.pipeline.Respond(ctx, a, &msg, "")
		if err != nil {
			return nil, err
		}
		for _, d := range drafts {
			if !agentVisible[a.ID] {
				d.Visible = false
			}
			out := d.Message()
			if err := e.conversations.AppendMessage(conversationID, out); err != nil {
				return nil, err
			}
			emitted = append(emitted, out)
		}
	}
	return emitted, nil
}

// Tick runs the periodic path for every agent of the conversation that
// declares a periodic trigger. The caller owns the timer; Tick performs one
// round of evaluate-then-respond with no triggering message.
func (e *Engine) Tick(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	agents, err := e.activeAgents(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var emitted []conversation.Message
	for _, a := range agents {
		if a.Triggers.Periodic == nil {
			continue
		}
		eval, err := e.gate.Evaluate(ctx, a, nil)
		if err != nil {
			return nil, err
		}
		if eval == nil || eval.Action != agent.ActionContribute {
			continue
		}
		drafts, err := e.pipeline.Respond(ctx, a, nil, "")
		if err != nil {
			return nil, err
		}
		for _, d := range drafts {
			if eval.AgentContributionVisible != nil && !*eval.AgentContributionVisible {
				d.Visible = false
			}
			out := d.Message()
			if err := e.conversations.AppendMessage(conversationID, out); err != nil {
				return nil, err
			}
			emitted = append(emitted, out)
		}
	}
	return emitted, nil
}

// IntroduceAgent asks an agent to introduce itself on a named channel of its
// conversation and appends the resulting messages.
func (e *Engine) IntroduceAgent(ctx context.Context, agentID, channelName string) ([]conversation.Message, error) {
	a, err := e.agents.Get(agentID)
	if err != nil {
		return nil, err
	}
	if err := e.hydrate(ctx, a); err != nil {
		return nil, err
	}
	conv := a.Conversation()
	if conv == nil {
		return nil, agent.ErrNotHydrated
	}
	ch, ok := conv.Channel(channelName)
	if !ok {
		return nil, fmt.Errorf("channel %q not found in conversation %s", channelName, a.ConversationID)
	}
	drafts, err := e.lifecycle.Introduce(ctx, a, ch)
	if err != nil {
		return nil, err
	}
	var emitted []conversation.Message
	for _, d := range drafts {
		out := d.Message()
		if err := e.conversations.AppendMessage(a.ConversationID, out); err != nil {
			return nil, err
		}
		emitted = append(emitted, out)
	}
	return emitted, nil
}

// activeAgents lists the conversation's agents ordered by type priority,
// hydrating any that lack their conversation reference.
func (e *Engine) activeAgents(ctx context.Context, conversationID string) ([]*agent.Agent, error) {
	agents, err := e.agents.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}
	for _, a := range agents {
		if err := e.hydrate(ctx, a); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(agents, func(i, j int) bool {
		return e.priority(agents[i]) < e.priority(agents[j])
	})
	return agents, nil
}

func (e *Engine) hydrate(ctx context.Context, a *agent.Agent) error {
	if a.Conversation() != nil {
		return nil
	}
	return e.lifecycle.Initialize(ctx, a)
}

func (e *Engine) priority(a *agent.Agent) int {
	if typ, ok := e.registry.Resolve(a.Type); ok {
		return typ.Priority()
	}
	return 0
}
