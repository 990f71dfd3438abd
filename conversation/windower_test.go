package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berkmancenter/llm-engine-sub000/temporal"
)

var (
	windowNow   = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	windowStart = windowNow.Add(-40 * time.Minute)
)

func msgAt(body, pseudonym string, at time.Time, channels ...string) Message {
	m := NewMessage(body, pseudonym, channels...)
	m.Timestamp = at
	return m
}

func TestWindowCountLimit(t *testing.T) {
	w := NewSlidingWindower()
	var msgs []Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, msgAt("m", "alice", windowStart.Add(time.Duration(i)*time.Minute), "main"))
	}

	out := w.Window(WindowRequest{Messages: msgs, Settings: WindowSettings{MaxMessages: 2}, Now: windowNow})
	require.Len(t, out, 2)
	// The most recent two, in order.
	assert.Equal(t, msgs[3].ID, out[0].ID)
	assert.Equal(t, msgs[4].ID, out[1].ID)
}

func TestWindowAgeLimit(t *testing.T) {
	w := NewSlidingWindower()
	old := msgAt("old", "alice", windowNow.Add(-10*time.Minute), "main")
	fresh := msgAt("fresh", "alice", windowNow.Add(-1*time.Minute), "main")

	out := w.Window(WindowRequest{
		Messages: []Message{old, fresh},
		Settings: WindowSettings{WindowSeconds: 300},
		Now:      windowNow,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "fresh", out[0].Body)
}

func TestWindowVisibilityAndAuthorship(t *testing.T) {
	w := NewSlidingWindower()
	visible := msgAt("public", "alice", windowNow, "main")

	hidden := msgAt("hidden", "alice", windowNow, "main")
	hidden.Visible = false

	ownHidden := msgAt("own note", "helper", windowNow, "main")
	ownHidden.Visible = false
	ownHidden.FromAgent = true

	out := w.Window(WindowRequest{
		Messages:        []Message{visible, hidden, ownHidden},
		Settings:        WindowSettings{MaxMessages: 10},
		AgentPseudonyms: []string{"helper"},
		Now:             windowNow,
	})
	require.Len(t, out, 2)
	assert.Equal(t, "public", out[0].Body)
	assert.Equal(t, "own note", out[1].Body)
}

func TestWindowScopeAndExclusion(t *testing.T) {
	w := NewSlidingWindower()
	onMain := msgAt("main talk", "alice", windowNow, "main")
	onDM := msgAt("private", "alice", windowNow, "dm")
	trigger := msgAt("trigger", "bob", windowNow, "dm")

	scope := Channel{Name: "dm", Direct: true, Participants: []string{"alice", "helper"}}
	out := w.Window(WindowRequest{
		Messages:  []Message{onMain, onDM, trigger},
		Settings:  WindowSettings{MaxMessages: 10},
		Scope:     &scope,
		ExcludeID: trigger.ID,
		Now:       windowNow,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "private", out[0].Body)
}

func TestWindowAppliesParser(t *testing.T) {
	w := NewSlidingWindower()
	msg := msgAt("raw", "alice", windowNow, "main")

	out := w.Window(WindowRequest{
		Messages: []Message{msg},
		Settings: WindowSettings{MaxMessages: 1},
		Parse: func(m Message) Message {
			m.Body = "parsed:" + m.Body
			return m
		},
		Now: windowNow,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "parsed:raw", out[0].Body)
}

func TestNarrowRelativeLast(t *testing.T) {
	w := NewSlidingWindower()
	early := msgAt("early", "alice", windowNow.Add(-20*time.Minute), "main")
	late := msgAt("late", "alice", windowNow.Add(-2*time.Minute), "main")

	ref := temporal.NewRelative(600, temporal.DirectionLast)
	out := w.Narrow([]Message{early, late}, ref, windowStart, windowNow)
	require.Len(t, out, 1)
	assert.Equal(t, "late", out[0].Body)
}

func TestNarrowRelativeFirst(t *testing.T) {
	w := NewSlidingWindower()
	early := msgAt("early", "alice", windowStart.Add(2*time.Minute), "main")
	late := msgAt("late", "alice", windowNow.Add(-2*time.Minute), "main")

	ref := temporal.NewRelative(600, temporal.DirectionFirst)
	out := w.Narrow([]Message{early, late}, ref, windowStart, windowNow)
	require.Len(t, out, 1)
	assert.Equal(t, "early", out[0].Body)
}

func TestNarrowAbsoluteTolerance(t *testing.T) {
	w := NewSlidingWindower()
	// Conversation started 14:20; "at 14:30" with the default 90s tolerance.
	near := msgAt("near", "alice", time.Date(2025, 3, 14, 14, 31, 0, 0, time.UTC), "main")
	far := msgAt("far", "alice", time.Date(2025, 3, 14, 14, 40, 0, 0, time.UTC), "main")

	ref := temporal.NewAbsolute("14:30")
	out := w.Narrow([]Message{near, far}, ref, windowStart, windowNow)
	require.Len(t, out, 1)
	assert.Equal(t, "near", out[0].Body)
}

func TestNarrowAbsoluteTwelveHourResolution(t *testing.T) {
	w := NewSlidingWindower()
	// "at 2:30" on an afternoon conversation resolves to 14:30.
	afternoon := msgAt("pm", "alice", time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC), "main")

	ref := temporal.NewAbsolute("2:30")
	out := w.Narrow([]Message{afternoon}, ref, windowStart, windowNow)
	require.Len(t, out, 1)
}

func TestNarrowRange(t *testing.T) {
	w := NewSlidingWindower()
	inside := msgAt("inside", "alice", time.Date(2025, 3, 14, 14, 35, 0, 0, time.UTC), "main")
	outside := msgAt("outside", "alice", time.Date(2025, 3, 14, 14, 55, 0, 0, time.UTC), "main")

	ref := temporal.NewRange("14:30", "14:40")
	out := w.Narrow([]Message{inside, outside}, ref, windowStart, windowNow)
	require.Len(t, out, 1)
	assert.Equal(t, "inside", out[0].Body)
}

func TestNarrowNilReferenceKeepsAll(t *testing.T) {
	w := NewSlidingWindower()
	msgs := []Message{msgAt("a", "alice", windowNow, "main")}
	assert.Equal(t, msgs, w.Narrow(msgs, nil, windowStart, windowNow))
}

func TestNarrowRejectsInvalidClock(t *testing.T) {
	w := NewSlidingWindower()
	msgs := []Message{msgAt("a", "alice", windowNow, "main")}
	assert.Empty(t, w.Narrow(msgs, temporal.NewAbsolute("99:99"), windowStart, windowNow))
}
