package agent

import (
	"time"

	"github.com/google/uuid"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// Action is the verdict of an evaluation.
type Action string

const (
	// ActionOK means nothing needs to happen; the event is acknowledged.
	ActionOK Action = "ok"
	// ActionContribute means the agent wants to respond.
	ActionContribute Action = "contribute"
	// ActionReject means the event should not advance the agent's watermark.
	ActionReject Action = "reject"
)

// Evaluation is the transient result of the activation gate. Action,
// UserContributionVisible and Suggestion are required; their absence in a
// delegate result is a contract violation. Pointer fields distinguish
// "absent" from zero values during structural validation.
type Evaluation struct {
	Action                   Action                `json:"action,omitempty"`
	UserContributionVisible  *bool                 `json:"userContributionVisible,omitempty"`
	AgentContributionVisible *bool                 `json:"agentContributionVisible,omitempty"`
	Suggestion               *string               `json:"suggestion,omitempty"`
	UserMessage              *conversation.Message `json:"userMessage,omitempty"`
}

// NeutralEvaluation is the "nothing to do" result returned for watermark
// short-circuits, inadmissible channels and prefilter vetoes.
func NeutralEvaluation() *Evaluation {
	visible := true
	suggestion := ""
	return &Evaluation{
		Action:                  ActionOK,
		UserContributionVisible: &visible,
		Suggestion:              &suggestion,
	}
}

// Response is one item produced by an agent type's respond hook. Visible and
// Message are required; a missing field aborts the whole batch before any
// draft is emitted.
type Response struct {
	Visible     *bool    `json:"visible,omitempty"`
	Message     string   `json:"message,omitempty"`
	Channels    []string `json:"channels,omitempty"`
	Pause       bool     `json:"pause,omitempty"`
	MessageType string   `json:"messageType,omitempty"`
}

// NewResponse builds a visible response with the given body.
func NewResponse(message string, channels ...string) Response {
	visible := true
	return Response{Visible: &visible, Message: message, Channels: channels}
}

// Draft is the pipeline's output representation of a to-be-persisted
// message, stamped with the emitting agent's pseudonym.
type Draft struct {
	Body        string
	BodyType    string
	Visible     bool
	Pause       bool
	Pseudonym   string
	PseudonymID string
	Channels    []string
	// ParseOutput, when set, re-formats the body on demand (for example
	// turning a structured payload into a textual report). It is attached by
	// the pipeline when the agent type defines an output parser.
	ParseOutput func(conversation.Message) conversation.Message
}

// Message materializes the draft as a conversation message, applying the
// attached output parser when present.
func (d Draft) Message() conversation.Message {
	msg := conversation.Message{
		ID:          uuid.NewString(),
		Body:        d.Body,
		BodyType:    d.BodyType,
		Channels:    d.Channels,
		Pseudonym:   d.Pseudonym,
		PseudonymID: d.PseudonymID,
		FromAgent:   true,
		Visible:     d.Visible,
		Pause:       d.Pause,
		Timestamp:   time.Now().UTC(),
	}
	if d.ParseOutput != nil {
		msg = d.ParseOutput(msg)
	}
	return msg
}
