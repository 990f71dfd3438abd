package agent

import "github.com/berkmancenter/llm-engine-sub000/conversation"

// PerMessageTrigger activates an agent when messages arrive. An empty
// channel list with DirectMessages false means no channel restriction: every
// message is admitted.
type PerMessageTrigger struct {
	// Channels admits messages posted to any of these channels.
	Channels []string `json:"channels,omitempty" yaml:"channels,omitempty"`
	// DirectMessages admits messages on direct channels the agent
	// participates in.
	DirectMessages bool `json:"direct_messages,omitempty" yaml:"direct_messages,omitempty"`
	// History overrides the agent's history window for per-message responses.
	History *conversation.WindowSettings `json:"history,omitempty" yaml:"history,omitempty"`
}

// PeriodicTrigger activates an agent on a timer owned by the external
// scheduler.
type PeriodicTrigger struct {
	// PeriodSeconds is the tick interval.
	PeriodSeconds int `json:"period_seconds" yaml:"period_seconds"`
	// History overrides the agent's history window for periodic responses.
	History *conversation.WindowSettings `json:"history,omitempty" yaml:"history,omitempty"`
}

// Triggers describes when an agent should be considered for activation.
type Triggers struct {
	PerMessage *PerMessageTrigger `json:"per_message,omitempty" yaml:"per_message,omitempty"`
	Periodic   *PeriodicTrigger   `json:"periodic,omitempty" yaml:"periodic,omitempty"`
}

// restricted reports whether the per-message trigger constrains which
// messages are admitted.
func (t Triggers) restricted() bool {
	return t.PerMessage != nil && (len(t.PerMessage.Channels) > 0 || t.PerMessage.DirectMessages)
}
