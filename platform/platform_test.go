package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Platform = (*MockPlatform)(nil)

func TestRegistryLookup(t *testing.T) {
	mock := NewMockPlatform("mock", "pong")
	r := NewRegistry(mock)

	p, err := r.Lookup("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	_, err = r.Lookup("ghost")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestRegistryDefaultOptions(t *testing.T) {
	mock := NewMockPlatform("mock", "pong")
	mock.Defaults = map[string]any{"temperature": 0.5}
	r := NewRegistry(mock)

	opts, err := r.DefaultOptions("mock")
	require.NoError(t, err)
	assert.Equal(t, 0.5, opts["temperature"])

	_, err = r.DefaultOptions("ghost")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestRegistryRegisterAndNames(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMockPlatform("b", ""))
	r.Register(NewMockPlatform("a", ""))

	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestMockPlatformRecordsRequests(t *testing.T) {
	mock := NewMockPlatform("mock", "pong")

	out, err := mock.Complete(context.Background(), Request{Prompt: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	require.Len(t, mock.Requests, 1)
	assert.Equal(t, "ping", mock.Requests[0].Prompt)
}

func TestOptionCoercion(t *testing.T) {
	opts := map[string]any{
		"float":       1.5,
		"int":         3,
		"int64":       int64(7),
		"json_number": float64(9),
	}

	assert.Equal(t, 1.5, FloatOption(opts, "float", 0))
	assert.Equal(t, 3.0, FloatOption(opts, "int", 0))
	assert.Equal(t, 0.2, FloatOption(opts, "missing", 0.2))

	assert.Equal(t, int64(3), IntOption(opts, "int", 0))
	assert.Equal(t, int64(7), IntOption(opts, "int64", 0))
	assert.Equal(t, int64(9), IntOption(opts, "json_number", 0))
	assert.Equal(t, int64(42), IntOption(opts, "missing", 42))
	assert.Equal(t, int64(42), IntOption(nil, "missing", 42))
}
