package agent

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/berkmancenter/llm-engine-sub000/conversation"
	"github.com/berkmancenter/llm-engine-sub000/internal/testutil"
)

// mockType is a testify-backed agent type for asserting delegate calls.
type mockType struct {
	mock.Mock
	BaseType
}

func newMockType(name string) *mockType {
	return &mockType{BaseType: BaseType{TypeName: name}}
}

func (m *mockType) Evaluate(ctx context.Context, a *Agent, msg *conversation.Message) (*Evaluation, error) {
	args := m.Called(ctx, a, msg)
	var e *Evaluation
	if v := args.Get(0); v != nil {
		e = v.(*Evaluation)
	}
	return e, args.Error(1)
}

func (m *mockType) Respond(ctx context.Context, a *Agent, history []conversation.Message, msg *conversation.Message) ([]Response, error) {
	args := m.Called(ctx, a, history, msg)
	var r []Response
	if v := args.Get(0); v != nil {
		r = v.([]Response)
	}
	return r, args.Error(1)
}

// stubType is a lightweight configurable type for tests that do not need
// call assertions.
type stubType struct {
	BaseType
	evaluate func(ctx context.Context, a *Agent, msg *conversation.Message) (*Evaluation, error)
	respond  func(ctx context.Context, a *Agent, history []conversation.Message, msg *conversation.Message) ([]Response, error)
}

func (s *stubType) Evaluate(ctx context.Context, a *Agent, msg *conversation.Message) (*Evaluation, error) {
	if s.evaluate == nil {
		return NeutralEvaluation(), nil
	}
	return s.evaluate(ctx, a, msg)
}

func (s *stubType) Respond(ctx context.Context, a *Agent, history []conversation.Message, msg *conversation.Message) ([]Response, error) {
	if s.respond == nil {
		return nil, nil
	}
	return s.respond(ctx, a, history, msg)
}

// parsingType adds the input/output parser capabilities to stubType.
type parsingType struct {
	stubType
}

func (p *parsingType) ParseInput(msg conversation.Message) conversation.Message {
	msg.Body = "in:" + msg.Body
	return msg
}

func (p *parsingType) ParseOutput(msg conversation.Message) conversation.Message {
	msg.Body = "out:" + msg.Body
	return msg
}

// introducingType adds the introduction capability to stubType.
type introducingType struct {
	stubType
	introduce func(ctx context.Context, a *Agent, ch conversation.Channel) ([]Response, error)
}

func (i *introducingType) Introduce(ctx context.Context, a *Agent, ch conversation.Channel) ([]Response, error) {
	return i.introduce(ctx, a, ch)
}

// prevalidatingType adds the creation-time validation capability.
type prevalidatingType struct {
	stubType
	prevalidate func(a *Agent) error
}

func (p *prevalidatingType) PreValidate(a *Agent) error {
	return p.prevalidate(a)
}

// hookRecordingType records lifecycle hook invocations.
type hookRecordingType struct {
	stubType
	initialized, started, stopped int
}

func (h *hookRecordingType) Initialize(context.Context, *Agent) error {
	h.initialized++
	return nil
}

func (h *hookRecordingType) Start(context.Context, *Agent) error {
	h.started++
	return nil
}

func (h *hookRecordingType) Stop(context.Context, *Agent) error {
	h.stopped++
	return nil
}

func testConversation(id string) *conversation.Conversation {
	return testutil.NewConversationBuilder(id).Channel("main").Build()
}

func testAgent(typ, conversationID string, conv *conversation.Conversation) *Agent {
	a := &Agent{
		ID:             "agent-1",
		Type:           typ,
		ConversationID: conversationID,
		Pseudonyms:     []conversation.Pseudonym{{ID: "p-1", Name: "helper"}},
		Active:         true,
	}
	if conv != nil {
		a.AttachConversation(conv)
	}
	return a
}
