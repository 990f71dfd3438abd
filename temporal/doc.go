// Package temporal maps free-text questions about a live conversation onto
// structured time references used to scope history retrieval.
//
// The central entry point is Classifier.Classify, a pure, deterministic
// precedence cascade: punctuation-sensitive idioms ("just joined", "come
// again") are checked against the raw text first, explicit clock times,
// ranges and durations are extracted from a normalized form next, and broad
// catch-up phrasings ("catch me up", "what's happening") act as the final
// fallback. ParseDuration converts spelled-out or numeric amounts plus a
// unit word into seconds.
//
// All relative results carry a floor of MinWindowSeconds so downstream
// retrieval never operates on a degenerate window.
package temporal
