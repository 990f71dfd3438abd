package temporal

// Type discriminates the three shapes of time reference a question can carry.
type Type string

const (
	// TypeAbsolute is a single clock time ("what happened at 2:15?").
	TypeAbsolute Type = "absolute"
	// TypeRelative is a first/last window measured in seconds.
	TypeRelative Type = "relative"
	// TypeRange is a clock-time interval ("between 2:00 and 2:30").
	TypeRange Type = "range"
)

// Direction anchors a relative window at the start or the end of the
// conversation.
type Direction string

const (
	// DirectionFirst scopes to the opening portion of the conversation.
	DirectionFirst Direction = "first"
	// DirectionLast scopes to the most recent portion of the conversation.
	DirectionLast Direction = "last"
)

// TimeReference is the structured output of classification. Exactly the
// fields relevant to Type are populated: Time for absolute references,
// StartTime/EndTime for ranges, DurationSeconds/Direction for relative
// windows. No reference ever mixes field sets.
type TimeReference struct {
	Type            Type      `json:"type"`
	Time            string    `json:"time,omitempty"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	DurationSeconds int       `json:"duration,omitempty"`
	Direction       Direction `json:"direction,omitempty"`
}

// NewAbsolute builds an absolute clock-time reference.
func NewAbsolute(clock string) *TimeReference {
	return &TimeReference{Type: TypeAbsolute, Time: clock}
}

// NewRange builds a clock-time range reference.
func NewRange(start, end string) *TimeReference {
	return &TimeReference{Type: TypeRange, StartTime: start, EndTime: end}
}

// NewRelative builds a relative window reference. The duration is clamped to
// MinWindowSeconds.
func NewRelative(seconds int, dir Direction) *TimeReference {
	if seconds < MinWindowSeconds {
		seconds = MinWindowSeconds
	}
	return &TimeReference{Type: TypeRelative, DurationSeconds: seconds, Direction: dir}
}
