package safety

// #region containment

// ContainmentLevel is the escalating supervision label attached to a
// validated decision.
type ContainmentLevel string

const (
	ContainmentNone    ContainmentLevel = "none"
	ContainmentLow     ContainmentLevel = "low"
	ContainmentMedium  ContainmentLevel = "medium"
	ContainmentHigh    ContainmentLevel = "high"
	ContainmentMaximum ContainmentLevel = "maximum"
)

// #endregion containment

// #region result

// Result is the outcome of validating one decision. RiskLevel starts at
// the decision's own risk and can only be escalated by the rules.
type Result struct {
	IsSafe          bool
	RiskLevel       float64
	Concerns        []string
	Recommendations []string
	Containment     ContainmentLevel
}

// #endregion result

// #region config

// Config carries the validator's policy tables. Tables are immutable
// after construction; tests override them here rather than through
// package state.
type Config struct {
	// DestructivePatterns are lowercase substrings of genuinely
	// destructive command-like text. Creative or metaphorical vocabulary
	// does not belong here.
	DestructivePatterns []string

	// HighRiskAffinities and HighRiskKeys are categorical deny lists.
	// Both ship empty: no label is inherently unsafe.
	HighRiskAffinities []string
	HighRiskKeys       []string

	// MinStability is the stability score below which decisions are
	// deferred.
	MinStability float64
}

// DefaultConfig returns the shipped policy tables.
func DefaultConfig() Config {
	return Config{
		DestructivePatterns: defaultDestructivePatterns,
		HighRiskAffinities:  nil,
		HighRiskKeys:        nil,
		MinStability:        0.7,
	}
}

// #endregion config
