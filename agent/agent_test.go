package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
)

// Interface compliance (compile-time assertions)
var (
	_ Store    = (*InMemoryStore)(nil)
	_ Registry = (*MapRegistry)(nil)
	_ Type     = (*stubType)(nil)
)

func TestDeepPatchMergesAndPreservesConversation(t *testing.T) {
	conv := conversation.New("c1")
	a := testAgent("helper", "c1", conv)
	a.LLMModelOptions = map[string]any{
		"temperature": 0.7,
		"nested":      map[string]any{"keep": true, "replace": 1},
	}
	a.Config = map[string]any{"tone": "friendly"}

	name := "Renamed"
	model := "gpt-4o"
	a.DeepPatch(Patch{
		Name:     &name,
		LLMModel: &model,
		LLMModelOptions: map[string]any{
			"nested": map[string]any{"replace": 2, "added": "x"},
		},
		Config: map[string]any{"verbosity": "low"},
	})

	assert.Equal(t, "Renamed", a.Name)
	assert.Equal(t, "gpt-4o", a.LLMModel)
	// Untouched fields survive.
	assert.Equal(t, "helper", a.Type)
	assert.Equal(t, 0.7, a.LLMModelOptions["temperature"])
	// Nested maps merge rather than replace.
	nested := a.LLMModelOptions["nested"].(map[string]any)
	assert.Equal(t, true, nested["keep"])
	assert.Equal(t, 2, nested["replace"])
	assert.Equal(t, "x", nested["added"])
	// Config deep-merges too.
	assert.Equal(t, "friendly", a.Config["tone"])
	assert.Equal(t, "low", a.Config["verbosity"])
	// The hydrated reference is never lost by patching.
	assert.Same(t, conv, a.Conversation())
}

func TestDeepPatchEnforcesSinglePseudonym(t *testing.T) {
	a := testAgent("helper", "c1", nil)
	a.DeepPatch(Patch{Pseudonyms: []conversation.Pseudonym{
		{ID: "p-2", Name: "first"},
		{ID: "p-3", Name: "second"},
	}})
	require.Len(t, a.Pseudonyms, 1)
	assert.Equal(t, "first", a.Pseudonyms[0].Name)
}

func TestPseudonymOfEmptyAgent(t *testing.T) {
	a := &Agent{}
	assert.Empty(t, a.Pseudonym().Name)
}

func TestRegistryOrdersByPriority(t *testing.T) {
	low := &stubType{BaseType: BaseType{TypeName: "b", TypePriority: 1}}
	high := &stubType{BaseType: BaseType{TypeName: "a", TypePriority: 10}}
	tie := &stubType{BaseType: BaseType{TypeName: "c", TypePriority: 1}}

	r := NewRegistry(high, low, tie)
	types := r.Types()
	require.Len(t, types, 3)
	assert.Equal(t, "b", types[0].Name())
	assert.Equal(t, "c", types[1].Name())
	assert.Equal(t, "a", types[2].Name())

	_, ok := r.Resolve("a")
	assert.True(t, ok)
	_, ok = r.Resolve("ghost")
	assert.False(t, ok)
}
