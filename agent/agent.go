package agent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

var (
	// ErrUnknownAgentType is returned when a type name does not resolve in
	// the registry. This is a fatal configuration error.
	ErrUnknownAgentType = errors.New("unknown agent type")
	// ErrMissingIdentity is returned when Initialize is called on an agent
	// without an id.
	ErrMissingIdentity = errors.New("agent has no identity")
	// ErrNotHydrated is returned when an operation requires the agent's
	// conversation reference and it has not been hydrated.
	ErrNotHydrated = errors.New("agent conversation not hydrated")
	// ErrContractViolation is returned when a delegate result misses a
	// required property.
	ErrContractViolation = errors.New("agent type contract violation")
)

// Agent is one configured automated participant bound to a single
// conversation and a single behavioral type. Type is immutable after
// construction; exactly one pseudonym survives any mutation.
//
// Active and LastActiveMessageCount are the runtime state driving the
// activation gate: the watermark never decreases and only advances on a
// non-reject evaluation outcome.
type Agent struct {
	ID          string                   `json:"id"`
	Type        string                   `json:"type"`
	Name        string                   `json:"name,omitempty"`
	Description string                   `json:"description,omitempty"`
	Pseudonyms  []conversation.Pseudonym `json:"pseudonyms"`

	ConversationID string `json:"conversation_id"`

	LLMPlatform        string            `json:"llm_platform,omitempty"`
	LLMModel           string            `json:"llm_model,omitempty"`
	LLMModelOptions    map[string]any    `json:"llm_model_options,omitempty"`
	LLMPlatformOptions map[string]any    `json:"llm_platform_options,omitempty"`
	LLMTemplates       map[string]string `json:"llm_templates,omitempty"`

	Triggers Triggers                     `json:"triggers,omitempty"`
	History  *conversation.WindowSettings `json:"history,omitempty"`

	RAGCollectionName string `json:"rag_collection_name,omitempty"`
	UseTranscriptRAG  bool   `json:"use_transcript_rag,omitempty"`

	Config map[string]any `json:"config,omitempty"`

	Active                 bool `json:"active"`
	LastActiveMessageCount int  `json:"last_active_message_count"`

	// conversation is the hydrated back-reference. It is deliberately
	// unexported and excluded from serialization and patching.
	conversation *conversation.Conversation
}

// Pseudonym returns the agent's display identity.
func (a *Agent) Pseudonym() conversation.Pseudonym {
	if len(a.Pseudonyms) == 0 {
		return conversation.Pseudonym{}
	}
	return a.Pseudonyms[0]
}

// Conversation returns the hydrated conversation or nil before Initialize.
func (a *Agent) Conversation() *conversation.Conversation {
	return a.conversation
}

// AttachConversation hydrates the conversation back-reference.
func (a *Agent) AttachConversation(c *conversation.Conversation) {
	a.conversation = c
}

// enforcePseudonym restores the exactly-one-pseudonym invariant: extras are
// truncated and a synthetic pseudonym is created when none exists.
func (a *Agent) enforcePseudonym() {
	switch {
	case len(a.Pseudonyms) == 0:
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("%s-%s", a.Type, uuid.NewString()[:8])
		}
		a.Pseudonyms = []conversation.Pseudonym{conversation.NewPseudonym(name)}
	case len(a.Pseudonyms) > 1:
		a.Pseudonyms = a.Pseudonyms[:1]
	}
}

// Patch is the explicit DTO applied by DeepPatch. It excludes the
// conversation back-reference by construction, so patching can never corrupt
// or duplicate the relation. Nil fields leave the current value untouched;
// map fields are deep-merged.
type Patch struct {
	Name               *string                      `json:"name,omitempty"`
	Description        *string                      `json:"description,omitempty"`
	Pseudonyms         []conversation.Pseudonym     `json:"pseudonyms,omitempty"`
	LLMPlatform        *string                      `json:"llm_platform,omitempty"`
	LLMModel           *string                      `json:"llm_model,omitempty"`
	LLMModelOptions    map[string]any               `json:"llm_model_options,omitempty"`
	LLMPlatformOptions map[string]any               `json:"llm_platform_options,omitempty"`
	LLMTemplates       map[string]string            `json:"llm_templates,omitempty"`
	Triggers           *Triggers                    `json:"triggers,omitempty"`
	History            *conversation.WindowSettings `json:"history,omitempty"`
	RAGCollectionName  *string                      `json:"rag_collection_name,omitempty"`
	UseTranscriptRAG   *bool                        `json:"use_transcript_rag,omitempty"`
	Config             map[string]any               `json:"config,omitempty"`
	Active             *bool                        `json:"active,omitempty"`
}

// DeepPatch merges the patch onto the agent's current state. The hydrated
// conversation reference is preserved across the merge because the Patch DTO
// cannot carry one. The pseudonym invariant is re-enforced afterwards.
func (a *Agent) DeepPatch(p Patch) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if len(p.Pseudonyms) > 0 {
		a.Pseudonyms = append([]conversation.Pseudonym(nil), p.Pseudonyms...)
	}
	if p.LLMPlatform != nil {
		a.LLMPlatform = *p.LLMPlatform
	}
	if p.LLMModel != nil {
		a.LLMModel = *p.LLMModel
	}
	a.LLMModelOptions = mergeMaps(a.LLMModelOptions, p.LLMModelOptions)
	a.LLMPlatformOptions = mergeMaps(a.LLMPlatformOptions, p.LLMPlatformOptions)
	if len(p.LLMTemplates) > 0 {
		if a.LLMTemplates == nil {
			a.LLMTemplates = map[string]string{}
		}
		for k, v := range p.LLMTemplates {
			a.LLMTemplates[k] = v
		}
	}
	if p.Triggers != nil {
		a.Triggers = *p.Triggers
	}
	if p.History != nil {
		a.History = p.History
	}
	if p.RAGCollectionName != nil {
		a.RAGCollectionName = *p.RAGCollectionName
	}
	if p.UseTranscriptRAG != nil {
		a.UseTranscriptRAG = *p.UseTranscriptRAG
	}
	a.Config = mergeMaps(a.Config, p.Config)
	if p.Active != nil {
		a.Active = *p.Active
	}
	a.enforcePseudonym()
}

// mergeMaps deep-merges src onto dst, recursing into nested string-keyed
// maps. dst is mutated and returned; a nil dst is allocated when src has
// entries.
func mergeMaps(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeMaps(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}
