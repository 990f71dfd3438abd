package conversation

import (
	"strconv"
	"strings"
	"time"

	"github.com/berkmancenter/llm-engine-sub000/temporal"
)

// WindowSettings controls how much history the windower hands to an agent.
// Zero values disable the respective limit.
type WindowSettings struct {
	// MaxMessages caps the window to the most recent N admitted messages.
	MaxMessages int `json:"max_messages,omitempty" yaml:"max_messages,omitempty"`
	// WindowSeconds restricts the window to messages younger than this.
	WindowSeconds int `json:"window_seconds,omitempty" yaml:"window_seconds,omitempty"`
}

// IsZero reports whether no limit is configured.
func (s WindowSettings) IsZero() bool {
	return s.MaxMessages == 0 && s.WindowSeconds == 0
}

// WindowRequest bundles the inputs of a windowing call.
type WindowRequest struct {
	// Messages is the full candidate history in conversation order.
	Messages []Message
	// Settings limits the window by count and/or age.
	Settings WindowSettings
	// AgentPseudonyms are the requesting agent's own display names. Messages
	// that are not visible to other participants stay in the window only
	// when the agent authored them itself.
	AgentPseudonyms []string
	// Scope, when set, narrows the window to messages on this channel.
	Scope *Channel
	// ExcludeID drops the message currently under evaluation.
	ExcludeID string
	// Parse, when set, is applied to every admitted message.
	Parse func(Message) Message
	// Now anchors the age limit; the zero value means the wall clock.
	Now time.Time
}

// Windower scopes a conversation history for one agent invocation. The
// response pipeline depends only on this interface; hosts can substitute
// retrieval-backed implementations.
type Windower interface {
	Window(req WindowRequest) []Message
}

// DefaultTimestampTolerance is how far a message timestamp may sit outside
// an absolute or range reference and still be considered a match. Near
// misses are accepted, larger offsets rejected.
const DefaultTimestampTolerance = 90 * time.Second

// SlidingWindower is the default Windower: channel/visibility filtering plus
// a count- and age-bounded sliding window. It also offers Narrow for mapping
// a temporal.TimeReference onto message timestamps.
type SlidingWindower struct {
	TimestampTolerance time.Duration
}

// NewSlidingWindower constructs a SlidingWindower with the default
// timestamp tolerance.
func NewSlidingWindower() *SlidingWindower {
	return &SlidingWindower{TimestampTolerance: DefaultTimestampTolerance}
}

// Window implements Windower.
func (w *SlidingWindower) Window(req WindowRequest) []Message {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	var cutoff time.Time
	if req.Settings.WindowSeconds > 0 {
		cutoff = now.Add(-time.Duration(req.Settings.WindowSeconds) * time.Second)
	}

	out := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if req.ExcludeID != "" && m.ID == req.ExcludeID {
			continue
		}
		if req.Scope != nil && !m.OnChannel(req.Scope.Name) {
			continue
		}
		if !m.Visible && !authoredByAny(m, req.AgentPseudonyms) {
			continue
		}
		if !cutoff.IsZero() && m.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}
	if req.Settings.MaxMessages > 0 && len(out) > req.Settings.MaxMessages {
		out = out[len(out)-req.Settings.MaxMessages:]
	}
	if req.Parse != nil {
		for i := range out {
			out[i] = req.Parse(out[i])
		}
	}
	return out
}

// Narrow filters messages down to those matching a classified time
// reference. Relative windows anchor at the conversation start (first) or at
// now (last); absolute and range references are mapped onto the clock of the
// day the conversation started, widened by TimestampTolerance on both sides.
func (w *SlidingWindower) Narrow(messages []Message, ref *temporal.TimeReference, conversationStart, now time.Time) []Message {
	if ref == nil {
		return messages
	}
	if now.IsZero() {
		now = time.Now()
	}
	tol := w.TimestampTolerance
	if tol == 0 {
		tol = DefaultTimestampTolerance
	}

	var from, to time.Time
	switch ref.Type {
	case temporal.TypeRelative:
		d := time.Duration(ref.DurationSeconds) * time.Second
		if ref.Direction == temporal.DirectionFirst {
			from, to = conversationStart, conversationStart.Add(d)
		} else {
			from, to = now.Add(-d), now
		}
	case temporal.TypeAbsolute:
		t, ok := clockOnDay(ref.Time, conversationStart, now, tol)
		if !ok {
			return nil
		}
		from, to = t.Add(-tol), t.Add(tol)
	case temporal.TypeRange:
		start, ok := clockOnDay(ref.StartTime, conversationStart, now, tol)
		if !ok {
			return nil
		}
		end, ok := clockOnDay(ref.EndTime, conversationStart, now, tol)
		if !ok {
			return nil
		}
		from, to = start.Add(-tol), end.Add(tol)
	default:
		return messages
	}

	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp.Before(from) || m.Timestamp.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func authoredByAny(m Message, pseudonyms []string) bool {
	for _, p := range pseudonyms {
		if m.AuthoredBy(p) {
			return true
		}
	}
	return false
}

// clockOnDay resolves an "H:MM" clock string against the day the
// conversation started. Hour-only ambiguity (no am/pm survives
// classification) is resolved by preferring the interpretation that falls
// inside the conversation so far.
func clockOnDay(clock string, conversationStart, now time.Time, tol time.Duration) (time.Time, bool) {
	parts := strings.SplitN(clock, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute := 0
	if len(parts) == 2 {
		if minute, err = strconv.Atoi(parts[1]); err != nil || minute < 0 || minute > 59 {
			return time.Time{}, false
		}
	}
	y, mo, d := conversationStart.Date()
	loc := conversationStart.Location()
	candidates := []time.Time{time.Date(y, mo, d, hour, minute, 0, 0, loc)}
	if hour < 12 {
		candidates = append(candidates, time.Date(y, mo, d, hour+12, minute, 0, 0, loc))
	}
	for _, t := range candidates {
		if !t.Before(conversationStart.Add(-tol)) && !t.After(now.Add(tol)) {
			return t, true
		}
	}
	// Outside the conversation: keep the literal reading so callers can
	// still reject it by finding no matching messages.
	return candidates[0], true
}
