package pattern

// #region pattern

// Pattern is the numeric substrate a decision is derived from: a
// Fibonacci-like sequence, a category position, a musical key, and a
// harmony ratio.
type Pattern struct {
	Sequence     []float64 `json:"sequence"`
	Position     float64   `json:"position"`
	Key          string    `json:"key"`
	HarmonyRatio float64   `json:"harmony_ratio"`
	Timestamp    int64     `json:"timestamp"`
}

// #endregion pattern

// #region severity

// Severity grades how badly a pattern fails its sanity rules.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// #endregion severity

// #region sanity-result

// SanityCheckResult is the outcome of checking one pattern.
type SanityCheckResult struct {
	IsSane          bool
	Issues          []string
	Severity        Severity
	Recommendations []string
}

// #endregion sanity-result

// #region sequence-report

// SequenceReport carries the sequence-bound findings in a form the safety
// validator can reuse without re-deriving severity.
type SequenceReport struct {
	Issues        []string
	NonFinite     bool // at least one NaN or infinite value
	BoundExceeded bool // at least one magnitude or ratio bound violated
}

// #endregion sequence-report
