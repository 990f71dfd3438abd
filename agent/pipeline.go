package agent

import (
	"context"
	"fmt"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
	"github.com/berkmancenter/llm-engine-sub000/logging"
)

// Span carries the metadata the pipeline records around a delegate respond
// call.
type Span struct {
	AgentType string
	Model     string
	Platform  string
}

// TraceFunc wraps the delegate respond invocation for instrumentation. The
// wrapper must not alter the result, only observe it; implementations call
// invoke exactly once and return its values unchanged.
type TraceFunc func(ctx context.Context, span Span, invoke func() ([]Response, error)) ([]Response, error)

// PassthroughTrace is the default TraceFunc: it invokes the delegate with no
// observation.
func PassthroughTrace(_ context.Context, _ Span, invoke func() ([]Response, error)) ([]Response, error) {
	return invoke()
}

// Pipeline is the response pipeline: it assembles the scoped history,
// delegates to the agent type's respond hook through the injected trace
// wrapper, validates the output contract and converts responses into message
// drafts.
type Pipeline struct {
	registry Registry
	windower conversation.Windower
	trace    TraceFunc
	logger   logging.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithTrace installs an instrumentation wrapper around delegate respond
// calls.
func WithTrace(t TraceFunc) PipelineOption {
	return func(p *Pipeline) { p.trace = t }
}

// WithPipelineLogger installs a logger.
func WithPipelineLogger(l logging.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline constructs a Pipeline using the given registry and history
// windower.
func NewPipeline(registry Registry, windower conversation.Windower, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{registry: registry, windower: windower, trace: PassthroughTrace, logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(p)
	}
	if p.trace == nil {
		p.trace = PassthroughTrace
	}
	p.logger = logging.OrNoOp(p.logger)
	return p
}

// Respond produces message drafts for one admitted event. userMessage is nil
// on periodic ticks; channelOverride, when non-empty, forces every draft
// onto that channel (used by introductions). Inactive agents yield no drafts
// and no error. A malformed delegate response aborts the whole batch: no
// partial emission.
func (p *Pipeline) Respond(ctx context.Context, a *Agent, userMessage *conversation.Message, channelOverride string) ([]Draft, error) {
	if a == nil || !a.Active {
		return nil, nil
	}
	conv := a.Conversation()
	if conv == nil {
		return nil, fmt.Errorf("%w: agent %s", ErrNotHydrated, a.ID)
	}
	typ, ok := p.registry.Resolve(a.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}

	var parse func(conversation.Message) conversation.Message
	if parser, ok := typ.(InputParser); ok {
		parse = parser.ParseInput
	}

	var history []conversation.Message
	if settings := a.historySettings(userMessage); settings != nil {
		var scope *conversation.Channel
		excludeID := ""
		if userMessage != nil {
			scope = directScope(conv, a, *userMessage)
			excludeID = userMessage.ID
		}
		history = p.windower.Window(conversation.WindowRequest{
			Messages:        conv.GetMessages(),
			Settings:        *settings,
			AgentPseudonyms: []string{a.Pseudonym().Name},
			Scope:           scope,
			ExcludeID:       excludeID,
			Parse:           parse,
		})
		if len(history) == 0 && userMessage == nil {
			// Nothing worth reacting to.
			return nil, nil
		}
	}

	msg := userMessage
	if msg != nil && parse != nil {
		parsed := parse(*msg)
		msg = &parsed
	}

	span := Span{AgentType: a.Type, Model: a.LLMModel, Platform: a.LLMPlatform}
	responses, err := p.trace(ctx, span, func() ([]Response, error) {
		return typ.Respond(ctx, a, history, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("respond agent %s: %w", a.ID, err)
	}

	return p.Drafts(a, responses, channelOverride)
}

// Drafts validates a response batch and converts it into message drafts
// stamped with the agent's pseudonym. The whole batch is validated before
// any draft is built so a malformed response never leaks partial results.
func (p *Pipeline) Drafts(a *Agent, responses []Response, channelOverride string) ([]Draft, error) {
	for _, r := range responses {
		if err := ValidateResponse(r); err != nil {
			return nil, err
		}
	}

	typ, _ := p.registry.Resolve(a.Type)
	var parseOutput func(conversation.Message) conversation.Message
	if op, ok := typ.(OutputParser); ok {
		parseOutput = op.ParseOutput
	}

	ps := a.Pseudonym()
	drafts := make([]Draft, 0, len(responses))
	for _, r := range responses {
		channels := r.Channels
		if channelOverride != "" {
			channels = []string{channelOverride}
		}
		drafts = append(drafts, Draft{
			Body:        r.Message,
			BodyType:    r.MessageType,
			Visible:     *r.Visible,
			Pause:       r.Pause,
			Pseudonym:   ps.Name,
			PseudonymID: ps.ID,
			Channels:    channels,
			ParseOutput: parseOutput,
		})
	}
	return drafts, nil
}

// historySettings picks the applicable history window: the per-message
// trigger's settings when responding to a message, the periodic trigger's
// settings on a tick, else the agent's own default.
func (a *Agent) historySettings(userMessage *conversation.Message) *conversation.WindowSettings {
	if userMessage != nil {
		if pm := a.Triggers.PerMessage; pm != nil && pm.History != nil {
			return pm.History
		}
	} else if pt := a.Triggers.Periodic; pt != nil && pt.History != nil {
		return pt.History
	}
	return a.History
}

// directScope resolves the direct channel connecting this agent with the
// triggering message's sender, matched by channel name, direct flag and
// participant membership.
func directScope(conv *conversation.Conversation, a *Agent, msg conversation.Message) *conversation.Channel {
	self := a.Pseudonym().Name
	for _, name := range msg.Channels {
		ch, ok := conv.Channel(name)
		if ok && ch.Direct && ch.HasParticipant(self) && ch.HasParticipant(msg.Pseudonym) {
			return &ch
		}
	}
	return nil
}
