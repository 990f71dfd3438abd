package agent

import (
	"context"
	"fmt"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
	"github.com/berkmancenter/llm-engine-sub000/logging"
)

// Prefilter is an optional collaborator that can veto a message before the
// delegate evaluation runs. Returning false means "nothing to do" and yields
// the neutral evaluation.
type Prefilter func(msg conversation.Message) bool

// Gate is the activation gate: it decides, per agent and per event, whether
// the expensive delegate evaluation runs at all.
//
// Deduplication relies on the persisted LastActiveMessageCount watermark
// compared against a freshly computed message count. This is optimistic and
// at-least-once, not lock-based: two concurrent Evaluate calls for the same
// agent that read the same watermark can both proceed. The external
// scheduler owns any stronger exclusion.
type Gate struct {
	registry  Registry
	store     Store
	prefilter Prefilter
	logger    logging.Logger
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithPrefilter installs a message prefilter.
func WithPrefilter(f Prefilter) GateOption {
	return func(g *Gate) { g.prefilter = f }
}

// WithGateLogger installs a logger.
func WithGateLogger(l logging.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// NewGate constructs a Gate. store persists watermark advances; it may be
// nil in tests, in which case advances live only in memory.
func NewGate(registry Registry, store Store, opts ...GateOption) *Gate {
	g := &Gate{registry: registry, store: store, logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrNoOp(g.logger)
	return g
}

// Evaluate runs the activation state machine for one event. userMessage is
// nil on periodic ticks. The returned evaluation is nil for inactive agents
// and for the agent's own messages; it is the neutral OK result for
// watermark short-circuits, inadmissible channels and prefilter vetoes.
//
// The watermark advances to the freshly computed message count unless the
// delegate returns ActionReject; advancement is persisted and mirrored in
// memory, and the watermark never decreases.
func (g *Gate) Evaluate(ctx context.Context, a *Agent, userMessage *conversation.Message) (*Evaluation, error) {
	if a == nil || !a.Active {
		return nil, nil
	}
	conv := a.Conversation()
	if conv == nil {
		return nil, fmt.Errorf("%w: agent %s", ErrNotHydrated, a.ID)
	}
	typ, ok := g.registry.Resolve(a.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, a.Type)
	}

	self := a.Pseudonym().Name
	if userMessage != nil && userMessage.AuthoredBy(self) {
		// The agent's own messages never trigger evaluation.
		return nil, nil
	}

	messageCount := conv.MessageCountExcludingAuthor(self)
	if userMessage != nil && !conv.HasMessage(userMessage.ID) {
		messageCount++
	}

	if messageCount == a.LastActiveMessageCount {
		g.logger.Debug("watermark unchanged, skipping evaluation", "agent_id", a.ID, "count", messageCount)
		return NeutralEvaluation(), nil
	}

	msg := userMessage
	if msg != nil {
		if !g.admit(a, conv, *msg) {
			g.logger.Debug("message not admitted by channel rules", "agent_id", a.ID, "message_id", msg.ID)
			return NeutralEvaluation(), nil
		}
		if g.prefilter != nil && !g.prefilter(*msg) {
			return NeutralEvaluation(), nil
		}
		if parser, ok := typ.(InputParser); ok {
			parsed := parser.ParseInput(*msg)
			msg = &parsed
		}
	}

	eval, err := typ.Evaluate(ctx, a, msg)
	if err != nil {
		return nil, fmt.Errorf("evaluate agent %s: %w", a.ID, err)
	}
	if err := ValidateEvaluation(eval); err != nil {
		return nil, err
	}

	if eval.Action != ActionReject && messageCount > a.LastActiveMessageCount {
		a.LastActiveMessageCount = messageCount
		if g.store != nil {
			if err := g.store.Save(a); err != nil {
				return nil, fmt.Errorf("persist watermark for agent %s: %w", a.ID, err)
			}
		}
	}
	return eval, nil
}

// admit applies the channel admission rules: any channel intersection with
// the per-message trigger list, or a direct channel that includes this agent
// when direct messages are enabled. Without any configured restriction every
// message is admitted.
func (g *Gate) admit(a *Agent, conv *conversation.Conversation, msg conversation.Message) bool {
	if !a.Triggers.restricted() {
		return true
	}
	pm := a.Triggers.PerMessage
	for _, ch := range pm.Channels {
		if msg.OnChannel(ch) {
			return true
		}
	}
	if pm.DirectMessages {
		self := a.Pseudonym().Name
		for _, name := range msg.Channels {
			if ch, ok := conv.Channel(name); ok && ch.Direct && ch.HasParticipant(self) {
				return true
			}
		}
	}
	return false
}
