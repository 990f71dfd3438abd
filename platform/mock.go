package platform

import "context"

// MockPlatform is a canned-response platform for tests and examples. It
// records every request it receives.
type MockPlatform struct {
	PlatformName string
	Defaults     map[string]any
	Reply        string
	Err          error

	Requests []Request
}

// NewMockPlatform builds a mock that answers every completion with reply.
func NewMockPlatform(name, reply string) *MockPlatform {
	return &MockPlatform{PlatformName: name, Reply: reply}
}

// Name implements Platform.
func (m *MockPlatform) Name() string {
	if m.PlatformName == "" {
		return "mock"
	}
	return m.PlatformName
}

// DefaultOptions implements Platform.
func (m *MockPlatform) DefaultOptions() map[string]any { return m.Defaults }

// Complete implements Platform.
func (m *MockPlatform) Complete(_ context.Context, req Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}
