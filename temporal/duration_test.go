package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		unit   string
		want   int
	}{
		{"digits and minutes", "10", "minutes", 600},
		{"singular minute", "1", "minute", 60},
		{"implicit single unit", "", "minute", 60},
		{"word amount", "five", "minutes", 300},
		{"teens not shadowed", "seventeen", "seconds", 17},
		{"article amount", "a", "minute", 60},
		{"an hour", "an", "hour", 3600},
		{"couple", "couple", "minutes", 120},
		{"few", "few", "seconds", 3},
		{"several", "several", "hours", 5 * 3600},
		{"half hour spelled", "thirty", "minutes", 1800},
		{"hours", "2", "hours", 7200},
		{"abbreviated min", "5", "mins", 300},
		{"abbreviated hr", "1", "hr", 3600},
		{"days", "2", "days", 2 * 86400},
		{"weeks", "1", "week", 604800},
		{"months", "1", "month", 30 * 86400},
		{"years", "1", "year", 365 * 86400},
		{"single letter m", "10", "m", 600},
		{"single letter h", "1", "h", 3600},
		{"single letter s", "45", "s", 45},
		{"unknown amount", "bunch", "minutes", 0},
		{"unknown unit treated as seconds", "10", "fortnights", 10},
		{"zero", "zero", "minutes", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.amount, tt.unit))
		})
	}
}

func TestNewRelativeClampsToFloor(t *testing.T) {
	ref := NewRelative(5, DirectionLast)
	assert.Equal(t, MinWindowSeconds, ref.DurationSeconds)

	ref = NewRelative(31, DirectionFirst)
	assert.Equal(t, 31, ref.DurationSeconds)
}
