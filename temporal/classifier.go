package temporal

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Hand-tuned acceptance constants for the explicit-extraction gate. They are
// exported so hosts can override them on a Classifier instance instead of
// re-deriving the tuning.
const (
	// BaseIntentScore is granted to any text that carries both a question
	// cue and a content keyword.
	BaseIntentScore = 0.3
	// ExtractionConfidence is granted when an explicit clock time or range
	// was extracted from the text.
	ExtractionConfidence = 0.5
	// QuestionStartBonus is granted when the text opens with a question
	// starter word.
	QuestionStartBonus = 0.2
	// AcceptanceThreshold is the score an absolute/range candidate must
	// exceed to be accepted instead of falling through to catch-up matching.
	AcceptanceThreshold = 0.6

	// ClarificationWindowSeconds is the fixed window for "what did they just
	// say" style clarifications.
	ClarificationWindowSeconds = 60
	// RecentWindowSeconds is the fixed window for "what's happening" style
	// catch-up requests with no explicit time.
	RecentWindowSeconds = 180
)

// Classifier maps free-text questions onto TimeReference values. The zero
// value is not usable; construct with NewClassifier. All fields are
// overridable tuning knobs; Classify is pure and safe for unlimited
// concurrent use.
type Classifier struct {
	BaseIntentScore            float64
	ExtractionConfidence       float64
	QuestionStartBonus         float64
	AcceptanceThreshold        float64
	ClarificationWindowSeconds int
	RecentWindowSeconds        int
}

// NewClassifier returns a Classifier carrying the default tuning.
func NewClassifier() *Classifier {
	return &Classifier{
		BaseIntentScore:            BaseIntentScore,
		ExtractionConfidence:       ExtractionConfidence,
		QuestionStartBonus:         QuestionStartBonus,
		AcceptanceThreshold:        AcceptanceThreshold,
		ClarificationWindowSeconds: ClarificationWindowSeconds,
		RecentWindowSeconds:        RecentWindowSeconds,
	}
}

var (
	stripRe      = regexp.MustCompile(`[^\w\s:?]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalize lowercases, trims, collapses whitespace and strips every
// character except word characters, whitespace, ':' and '?'.
func normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = whitespaceRe.ReplaceAllString(t, " ")
	t = stripRe.ReplaceAllString(t, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

// Idioms checked against the raw (unnormalized) text. These rely on
// punctuation-sensitive anchors such as a bare "what?".
var justJoinedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(what did i miss|what have i missed|catch me up|recap)\b.*\b(beginning|start|started|joined|arrived|so far)\b`),
	regexp.MustCompile(`(?i)\b(just joined|just arrived|just got here)\b.*\b(miss|missed|catch me up|recap|happened|happening)\b`),
	regexp.MustCompile(`(?i)\b(tell|show|give) me everything\b`),
	regexp.MustCompile(`(?i)\bfrom everything\b`),
	regexp.MustCompile(`(?i)\bfrom the beginning\b`),
	regexp.MustCompile(`(?i)\bsince (i|we) (joined|arrived|got here)\b`),
}

var clarificationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*what\s*\?+\s*$`),
	regexp.MustCompile(`(?i)\bcome again\b`),
	regexp.MustCompile(`(?i)\bwhat did (he|she|they) just say\b`),
	regexp.MustCompile(`(?i)\bwhat did i just miss\b`),
	regexp.MustCompile(`(?i)\b(didn't|did not|didnt) (catch|hear|get) (that|it)\b`),
	regexp.MustCompile(`(?i)\b(repeat that|say that again)\b`),
	regexp.MustCompile(`(?i)\bi missed that\b`),
}

// Explicit extraction over normalized text.
var (
	rangeRe = regexp.MustCompile(`\b(?:between|from)\s+(\d{1,2}(?::\d{2})?)\s*(?:am|pm)?\s+(?:and|to)\s+(\d{1,2}(?::\d{2})?)\s*(?:am|pm)?\b`)

	absoluteRe = regexp.MustCompile(`\b(?:at|around|during|before|after|since|from|until)\s+(\d{1,2}(?::\d{2})?)\s*(?:am|pm)?\b`)
	// Go's regexp has no negative lookahead, so range-shaped continuations
	// after an absolute candidate are rejected by inspecting the remainder.
	rangeTailRe = regexp.MustCompile(`^\s*(?:and|to)\s+\d`)

	durationRe       *regexp.Regexp
	singleLetterRe   = regexp.MustCompile(`\b(?:(last|past|first|for)\s+)?(\d+)(h|m|s)\b(?:\s+(?:ago|back|earlier|before))?`)
	questionCueRe    = regexp.MustCompile(`\b(what|when|can|could|did)\b|tell me|show me|summarize|explain`)
	contentKeywordRe = regexp.MustCompile(`\b(happen(?:ed|ing)?|say|said|saying|discuss(?:ed|ing|ion)?|talk(?:ed|ing)?|cover(?:ed|ing)?|mention(?:ed)?|miss(?:ed)?|announce(?:d|ment|ments)?|notes?|noted|summary|summarize|present(?:ed|ing)?)\b|catch me up|fill me in|bring me up to speed|get me up to speed|go over|went over`)
)

var questionStarters = map[string]bool{
	"what": true, "when": true, "can": true, "could": true, "did": true,
	"tell": true, "show": true, "summarize": true, "explain": true,
}

func init() {
	words := make([]string, 0, len(wordAmounts))
	for w := range wordAmounts {
		words = append(words, w)
	}
	// Longest first so "seventeen" is not shadowed by "seven".
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	// "of" bridges spelled amounts to their unit ("a couple of minutes").
	durationRe = regexp.MustCompile(
		`(?:\b(last|past|first|for)\s+)?(?:\b(` + strings.Join(words, "|") + `|\d+)\s+(?:of\s+)?)?\b(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|months?|years?)\b(?:\s+(?:ago|back|earlier|before))?`)
}

// Catch-up matching over normalized text with the trailing '?' stripped.
// Apostrophes are already gone after normalization, so the phrase sets use
// the contracted spellings ("whats").
var (
	entireEventRe = regexp.MustCompile(`\b(catch me up|fill me in|bring me up to speed|get me up to speed|quick recap|quick summary|tldr)\b|whats the gist|what is the gist`)

	entireEventPhrases = []string{
		"what has been said",
		"what has been discussed",
		"what was said",
		"what was discussed",
		"what has everyone said",
		"what did everyone say",
		"what have people been saying",
		"what happened so far",
		"what has happened so far",
		"summarize the conversation",
		"summarize the discussion",
		"can i get a transcript",
		"can i see the transcript",
		"show me the transcript",
		"give me a recap",
		"give me a summary",
	}

	recentActivityRe = regexp.MustCompile(`\bwhats (happening|going on|up)\b|\bwhat is (happening|going on)\b|\bwhat else is (happening|going on)\b`)

	recentActivityPhrases = []string{
		"what are we discussing",
		"what is being discussed",
		"whats being discussed",
		"what are they discussing",
		"what is being covered",
		"whats being covered",
		"what are we talking about",
		"what are they talking about",
		"what are we going over",
		"what are they going over",
		"what is being presented",
		"whats being presented",
		"what did i miss",
	}
)

// Classify maps text to a TimeReference or nil when the text carries no
// recognizable temporal intent. referenceStart is the conversation start
// used to size "from the beginning" windows; now may be the zero value, in
// which case the wall clock is used. The cascade is strictly ordered and the
// first matching stage wins.
func (c *Classifier) Classify(text string, referenceStart, now time.Time) *TimeReference {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if now.IsZero() {
		now = time.Now()
	}

	// Stage 1: just joined / from the beginning (raw text).
	for _, p := range justJoinedPatterns {
		if p.MatchString(text) {
			return NewRelative(c.fullWindowSeconds(referenceStart, now), DirectionFirst)
		}
	}

	// Stage 2: short clarification idioms (raw text).
	for _, p := range clarificationPatterns {
		if p.MatchString(text) {
			return NewRelative(c.ClarificationWindowSeconds, DirectionLast)
		}
	}

	t := normalize(text)

	// Stage 3: explicit range / absolute / duration extraction.
	if ref := extractRange(t); ref != nil {
		if c.acceptExplicit(t) {
			return ref
		}
	} else if ref := extractAbsolute(t); ref != nil {
		if c.acceptExplicit(t) {
			return ref
		}
	} else if ref := extractDuration(t); ref != nil {
		// A bare duration phrase is a valid query even without question
		// framing.
		return ref
	}

	// Stage 4: catch-up / summary requests with no explicit time.
	return c.classifyCatchUp(t, referenceStart, now)
}

// fullWindowSeconds sizes a window spanning the whole conversation so far.
func (c *Classifier) fullWindowSeconds(referenceStart, now time.Time) int {
	if referenceStart.IsZero() || !referenceStart.Before(now) {
		return MinWindowSeconds
	}
	return int(now.Sub(referenceStart).Seconds())
}

// acceptExplicit gates absolute and range candidates behind question framing:
// the text must carry a question cue and a content keyword, and the combined
// score must clear AcceptanceThreshold. Weakly framed candidates fall through
// so catch-up matching can reinterpret the same text.
func (c *Classifier) acceptExplicit(t string) bool {
	hasCue := strings.Contains(t, "?") || questionCueRe.MatchString(t)
	if !hasCue || !contentKeywordRe.MatchString(t) {
		return false
	}
	score := c.BaseIntentScore + c.ExtractionConfidence
	if fields := strings.Fields(t); len(fields) > 0 && questionStarters[fields[0]] {
		score += c.QuestionStartBonus
	}
	return score > c.AcceptanceThreshold
}

func extractRange(t string) *TimeReference {
	m := rangeRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	return NewRange(normalizeClock(m[1]), normalizeClock(m[2]))
}

func extractAbsolute(t string) *TimeReference {
	loc := absoluteRe.FindStringSubmatchIndex(t)
	if loc == nil {
		return nil
	}
	// The second bound of an unmatched range shape must not be swallowed.
	if rangeTailRe.MatchString(t[loc[1]:]) {
		return nil
	}
	return NewAbsolute(normalizeClock(t[loc[2]:loc[3]]))
}

func extractDuration(t string) *TimeReference {
	qualifier, amount, unit, ok := matchDuration(t)
	if !ok {
		return nil
	}
	dir := DirectionLast
	if qualifier == "first" {
		dir = DirectionFirst
	}
	return NewRelative(ParseDuration(amount, unit), dir)
}

// matchDuration tries the word-unit pattern first, then the single-letter
// unit pattern which only fires when the unit letter directly follows a
// digit (so stray letters never parse as units).
func matchDuration(t string) (qualifier, amount, unit string, ok bool) {
	if m := durationRe.FindStringSubmatch(t); m != nil {
		return m[1], m[2], m[3], true
	}
	if m := singleLetterRe.FindStringSubmatch(t); m != nil {
		return m[1], m[2], m[3], true
	}
	return "", "", "", false
}

// classifyCatchUp handles summary requests that name no explicit time. The
// entire-event family produces a window spanning the conversation when a
// start time is known; everything else in the (superset) recent family
// produces a fixed recent window.
func (c *Classifier) classifyCatchUp(t string, referenceStart, now time.Time) *TimeReference {
	t = strings.TrimSpace(strings.TrimRight(t, "?"))
	if t == "" {
		return nil
	}

	entire := entireEventRe.MatchString(t) || containsAny(t, entireEventPhrases)
	if entire && !referenceStart.IsZero() {
		return NewRelative(c.fullWindowSeconds(referenceStart, now), DirectionFirst)
	}

	recent := entire || recentActivityRe.MatchString(t) || containsAny(t, recentActivityPhrases)
	if recent {
		return NewRelative(c.RecentWindowSeconds, DirectionLast)
	}
	return nil
}

// normalizeClock widens a bare hour to H:MM form so downstream consumers see
// one clock format.
func normalizeClock(clock string) string {
	if !strings.Contains(clock, ":") {
		return clock + ":00"
	}
	return clock
}

func containsAny(t string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}
