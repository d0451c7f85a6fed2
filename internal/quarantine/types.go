package quarantine

import (
	"time"

	"github.com/evoflux/decision-safety/internal/generator"
)

// #region runtime-context

// RuntimeContext carries the post-deployment observations a quarantine
// decision is based on.
type RuntimeContext struct {
	FailureRate       float64 `json:"failure_rate"`
	PerformanceImpact float64 `json:"performance_impact"`
	AnomalyScore      float64 `json:"anomaly_score"`
	FeedbackScore     float64 `json:"feedback_score"`
}

// #endregion runtime-context

// #region risk-assessment

// RiskAssessment is the additive-scoring verdict on a deployed decision.
// RiskLevel is deliberately unclamped; downstream consumers clamp if they
// need to.
type RiskAssessment struct {
	ShouldQuarantine    bool
	RiskLevel           float64
	Reasons             []string
	RecommendedDuration time.Duration
}

// #endregion risk-assessment

// #region entry

// Entry is the persisted quarantine record. MonitoringData is append-only
// and currently unused by logic; it exists for future extension.
type Entry struct {
	PatternID             string                 `json:"pattern_id"`
	Decision              generator.DecisionType `json:"decision"`
	QuarantineReason      string                 `json:"quarantine_reason"`
	RiskLevel             float64                `json:"risk_level"`
	QuarantinedAt         int64                  `json:"quarantined_at"` // epoch ms
	ReleaseCriteria       []string               `json:"release_criteria"`
	MonitoringData        []string               `json:"monitoring_data"`
	RecommendedDurationMS int64                  `json:"recommended_duration_ms"`
}

// #endregion entry

// #region stats

// Stats summarizes the current registry contents. All fields are zero
// when the registry is empty or unreachable.
type Stats struct {
	Count         int
	HighRiskCount int // entries with risk level > 0.8
	MeanRiskLevel float64
	OldestAt      int64 // epoch ms
	NewestAt      int64 // epoch ms
}

// #endregion stats
