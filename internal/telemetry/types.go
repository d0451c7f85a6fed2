package telemetry

import "github.com/evoflux/decision-safety/internal/pattern"

// #region vitals

// Vitals is the normalized health snapshot every pipeline stage reads.
// All scores are in [0, 1]. Timestamp is the collector's epoch-millisecond
// reading and doubles as the determinism key for generation.
type Vitals struct {
	Health     float64 `json:"health"`
	Stress     float64 `json:"stress"`
	Harmony    float64 `json:"harmony"`
	Creativity float64 `json:"creativity"`
	Timestamp  int64   `json:"timestamp"`
}

// #endregion vitals

// #region metrics

// Metrics carries raw system counters alongside the normalized vitals.
type Metrics struct {
	CPULoad         float64 `json:"cpu_load"`
	MemoryUsage     float64 `json:"memory_usage"`
	NetworkActivity float64 `json:"network_activity"`
	ErrorCount      int     `json:"error_count"`
}

// #endregion metrics

// #region feedback

// FeedbackEntry is one operational judgment on a previously applied
// decision. HumanRating is conventionally 1-10.
type FeedbackEntry struct {
	DecisionTypeID      string  `json:"decision_type_id"`
	HumanRating         int     `json:"human_rating"`
	AppliedSuccessfully bool    `json:"applied_successfully"`
	PerformanceImpact   float64 `json:"performance_impact"`
	Timestamp           int64   `json:"timestamp"`
}

// #endregion feedback

// #region context

// Context is the ambient snapshot passed to every pipeline stage:
// vitals, raw metrics, and bounded append-ordered histories of recent
// patterns and feedback (most recent last).
type Context struct {
	Vitals          Vitals
	Metrics         Metrics
	CurrentPatterns []pattern.Pattern
	Feedback        []FeedbackEntry
}

// #endregion context
