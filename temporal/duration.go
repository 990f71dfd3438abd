package temporal

import (
	"strconv"
	"strings"
)

// MinWindowSeconds is the floor applied to every relative window. Retrieval
// over a window shorter than this returns too little context to be useful.
const MinWindowSeconds = 30

// wordAmounts is the closed table of spelled-out amounts the duration
// extractor recognizes. Compound spellings ("twenty five") are out of scope.
var wordAmounts = map[string]int{
	"a": 1, "an": 1, "couple": 2, "few": 3, "several": 5,
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
	"forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90,
}

// unitSeconds maps singularized unit words to their length in seconds.
// Months and years are calendar approximations.
var unitSeconds = map[string]int{
	"second": 1, "sec": 1, "s": 1,
	"minute": 60, "min": 60, "m": 60,
	"hour": 3600, "hr": 3600, "h": 3600,
	"day": 86400,
	"week": 604800,
	"month": 30 * 86400,
	"year": 365 * 86400,
}

// ParseDuration converts an amount token (a digit string or a spelled-out
// word) and a unit word into seconds. An empty amount means one unit ("the
// last minute"), unknown amounts parse to zero and unknown units are treated
// as seconds; callers clamp relative results to MinWindowSeconds.
func ParseDuration(amount, unit string) int {
	n := 0
	if amount == "" {
		n = 1
	} else if v, ok := wordAmounts[amount]; ok {
		n = v
	} else if v, err := strconv.Atoi(amount); err == nil {
		n = v
	}
	mult := 1
	u := strings.ToLower(strings.TrimSpace(unit))
	if len(u) > 1 {
		u = strings.TrimSuffix(u, "s")
	}
	if v, ok := unitSeconds[u]; ok {
		mult = v
	}
	return n * mult
}
