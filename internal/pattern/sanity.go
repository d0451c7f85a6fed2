package pattern

import (
	"fmt"
	"math"
	"strings"
)

// #region bounds

const (
	// MaxSequenceValue bounds the magnitude of any sequence element.
	MaxSequenceValue = 1_000_000.0

	// Adjacent-element ratio band. A sane Fibonacci-like progression never
	// jumps more than 5x or collapses below 0.2x between neighbors.
	MaxRatioChange = 5.0
	MinRatioChange = 0.2
)

// #endregion bounds

// #region keys

// canonicalKeys are the 12 recognized musical key labels. Matching is
// case-insensitive.
var canonicalKeys = []string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Keys returns the canonical key labels in chromatic order.
func Keys() []string {
	out := make([]string, len(canonicalKeys))
	copy(out, canonicalKeys)
	return out
}

// IsCanonicalKey reports whether key matches one of the 12 labels,
// ignoring case.
func IsCanonicalKey(key string) bool {
	for _, k := range canonicalKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// #endregion keys

// #region check-sequence

// CheckSequence validates a raw sequence against the numeric bounds.
// Shared between the sanity checker and the safety validator, which
// applies the same rules to a decision's Fibonacci signature.
func CheckSequence(seq []float64) SequenceReport {
	var rep SequenceReport

	if len(seq) == 0 {
		rep.Issues = append(rep.Issues, "sequence is empty")
		return rep
	}

	for i, v := range seq {
		switch {
		case math.IsNaN(v):
			rep.Issues = append(rep.Issues, fmt.Sprintf("sequence[%d] is NaN", i))
			rep.NonFinite = true
		case math.IsInf(v, 0):
			rep.Issues = append(rep.Issues, fmt.Sprintf("sequence[%d] is not finite", i))
			rep.NonFinite = true
		case v > MaxSequenceValue:
			rep.Issues = append(rep.Issues, fmt.Sprintf("sequence[%d] value %g exceeds maximum allowed value %g", i, v, MaxSequenceValue))
			rep.BoundExceeded = true
		case v < -MaxSequenceValue:
			rep.Issues = append(rep.Issues, fmt.Sprintf("sequence[%d] value %g below minimum allowed value %g", i, v, -MaxSequenceValue))
			rep.BoundExceeded = true
		}
	}

	// Ratio checks start at the third element: the first pair of a
	// Fibonacci-like progression is free to establish any scale.
	for i := 2; i < len(seq); i++ {
		prev, cur := seq[i-1], seq[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || math.IsInf(prev, 0) || math.IsInf(cur, 0) {
			continue // already reported above
		}
		if prev == 0 {
			rep.Issues = append(rep.Issues, fmt.Sprintf("division by zero computing ratio at sequence[%d]", i))
			continue
		}
		ratio := cur / prev
		if ratio > MaxRatioChange {
			rep.Issues = append(rep.Issues, fmt.Sprintf("ratio %.4f at sequence[%d] exceeds maximum change %.1f", ratio, i, MaxRatioChange))
			rep.BoundExceeded = true
		} else if ratio < MinRatioChange {
			rep.Issues = append(rep.Issues, fmt.Sprintf("ratio %.4f at sequence[%d] below minimum change %.1f", ratio, i, MinRatioChange))
			rep.BoundExceeded = true
		}
	}

	return rep
}

// #endregion check-sequence

// #region check-sanity

// CheckSanity validates a pattern for mathematical well-formedness.
// Pure and stateless; malformed input is reported through Issues, never
// through an error.
func CheckSanity(p Pattern) SanityCheckResult {
	rep := CheckSequence(p.Sequence)
	issues := rep.Issues
	nonFinite := rep.NonFinite
	boundExceeded := rep.BoundExceeded

	switch {
	case math.IsNaN(p.Position) || math.IsInf(p.Position, 0):
		issues = append(issues, "position is not finite")
		nonFinite = true
	case p.Position < 0 || p.Position >= 12:
		issues = append(issues, fmt.Sprintf("position %g outside [0, 12)", p.Position))
		boundExceeded = true
	}

	if p.Key == "" {
		issues = append(issues, "key is empty")
	} else if !IsCanonicalKey(p.Key) {
		issues = append(issues, fmt.Sprintf("unrecognized musical key %q", p.Key))
	}

	switch {
	case math.IsNaN(p.HarmonyRatio) || math.IsInf(p.HarmonyRatio, 0):
		issues = append(issues, "harmony ratio is not finite")
		nonFinite = true
	case p.HarmonyRatio < 0 || p.HarmonyRatio > 1:
		issues = append(issues, fmt.Sprintf("harmony ratio %g outside [0, 1]", p.HarmonyRatio))
		boundExceeded = true
	}

	severity := SeverityLow
	switch {
	case nonFinite:
		severity = SeverityCritical
	case boundExceeded:
		severity = SeverityHigh
	case len(issues) > 2:
		severity = SeverityMedium
	}

	var recommendations []string
	if nonFinite {
		recommendations = append(recommendations, "replace non-finite values before reuse")
	}
	if len(issues) > 0 {
		recommendations = append(recommendations, "regenerate the pattern from a fresh context snapshot")
	}

	return SanityCheckResult{
		IsSane:          len(issues) == 0,
		Issues:          issues,
		Severity:        severity,
		Recommendations: recommendations,
	}
}

// CheckBatch applies CheckSanity to each pattern independently,
// preserving order.
func CheckBatch(patterns []Pattern) []SanityCheckResult {
	results := make([]SanityCheckResult, len(patterns))
	for i, p := range patterns {
		results[i] = CheckSanity(p)
	}
	return results
}

// #endregion check-sanity
