package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Store    = (*InMemoryStore)(nil)
	_ Windower = (*SlidingWindower)(nil)
)

func TestConversationAddAndGetMessages(t *testing.T) {
	conv := New("c1")
	conv.AddMessage(NewMessage("hello", "alice", "main"))
	conv.AddMessage(NewMessage("hi", "bob", "main"))

	msgs := conv.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Body)
	assert.Equal(t, "hi", msgs[1].Body)

	// Defensive copy: mutating the returned slice leaves the history intact.
	msgs[0].Body = "tampered"
	assert.Equal(t, "hello", conv.GetMessages()[0].Body)
}

func TestConversationAddChannelReplacesByName(t *testing.T) {
	conv := New("c1")
	conv.AddChannel(Channel{Name: "main"})
	conv.AddChannel(Channel{Name: "side", Direct: true, Participants: []string{"alice", "helper"}})
	conv.AddChannel(Channel{Name: "main", Direct: false})

	assert.Len(t, conv.GetChannels(), 2)

	ch, ok := conv.Channel("side")
	require.True(t, ok)
	assert.True(t, ch.Direct)
	assert.True(t, ch.HasParticipant("alice"))
	assert.False(t, ch.HasParticipant("carol"))

	_, ok = conv.Channel("missing")
	assert.False(t, ok)
}

func TestConversationDirectChannels(t *testing.T) {
	conv := New("c1")
	conv.AddChannel(Channel{Name: "main"})
	conv.AddChannel(Channel{Name: "dm-1", Direct: true, Participants: []string{"alice", "helper"}})
	conv.AddChannel(Channel{Name: "dm-2", Direct: true, Participants: []string{"bob", "helper"}})

	chs := conv.DirectChannels("helper")
	assert.Len(t, chs, 2)

	chs = conv.DirectChannels("alice", "helper")
	require.Len(t, chs, 1)
	assert.Equal(t, "dm-1", chs[0].Name)

	assert.Empty(t, conv.DirectChannels("carol"))
}

func TestMessageCountExcludingAuthor(t *testing.T) {
	conv := New("c1")
	conv.AddMessage(NewMessage("hello", "alice", "main"))
	conv.AddMessage(NewMessage("hi", "bob", "main"))

	own := NewMessage("I can help", "helper", "main")
	own.FromAgent = true
	conv.AddMessage(own)

	other := NewMessage("me too", "other-bot", "main")
	other.FromAgent = true
	conv.AddMessage(other)

	// Own agent messages are excluded; other agents' messages still count.
	assert.Equal(t, 3, conv.MessageCountExcludingAuthor("helper"))
	// A human using the same display name is not excluded.
	assert.Equal(t, 4, conv.MessageCountExcludingAuthor("nobody"))
}

func TestConversationHasMessage(t *testing.T) {
	conv := New("c1")
	msg := NewMessage("hello", "alice", "main")
	conv.AddMessage(msg)

	assert.True(t, conv.HasMessage(msg.ID))
	assert.False(t, conv.HasMessage("other"))
}

func TestConversationClone(t *testing.T) {
	conv := New("c1")
	conv.Metadata["topic"] = "budget"
	conv.AddMessage(NewMessage("hello", "alice", "main"))
	conv.AddChannel(Channel{Name: "main"})

	clone := conv.Clone()
	clone.AddMessage(NewMessage("divergent", "bob", "main"))
	clone.Metadata["topic"] = "other"

	assert.Len(t, conv.GetMessages(), 1)
	assert.Equal(t, "budget", conv.Metadata["topic"])
}

func TestInMemoryStoreLifecycle(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := store.Create("c1")
	require.NoError(t, err)

	got, err := store.Get("c1")
	require.NoError(t, err)
	assert.Same(t, created, got)

	require.NoError(t, store.AppendMessage("c1", NewMessage("hello", "alice", "main")))
	assert.Len(t, got.GetMessages(), 1)

	assert.ErrorIs(t, store.AppendMessage("missing", Message{}), ErrNotFound)

	require.NoError(t, store.Delete("c1"))
	_, err = store.Get("c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageOnChannelAndAuthoredBy(t *testing.T) {
	msg := NewMessage("hello", "alice", "main", "side")
	assert.True(t, msg.OnChannel("side"))
	assert.False(t, msg.OnChannel("dm"))

	assert.False(t, msg.AuthoredBy("alice"), "human messages are never agent-authored")

	msg.FromAgent = true
	assert.True(t, msg.AuthoredBy("alice"))
	assert.False(t, msg.AuthoredBy("bob"))
}

func TestNewMessageDefaults(t *testing.T) {
	msg := NewMessage("hello", "alice", "main")
	assert.NotEmpty(t, msg.ID)
	assert.True(t, msg.Visible)
	assert.False(t, msg.FromAgent)
	assert.WithinDuration(t, time.Now().UTC(), msg.Timestamp, time.Minute)
}
