package quarantine

import (
	"fmt"
	"time"

	"github.com/evoflux/decision-safety/internal/generator"
)

// #region thresholds

const (
	// QuarantineThreshold is the accumulated risk at which a deployed
	// decision is isolated.
	QuarantineThreshold = 0.7

	// MaxQuarantineDuration caps the recommended isolation window and
	// doubles as the registry expiry horizon.
	MaxQuarantineDuration = 24 * time.Hour
)

// #endregion thresholds

// #region evaluate-risk

// EvaluateRisk scores a deployed decision against its observed runtime
// behavior. Rules are independent and cumulative; each contributes a
// fixed increment.
func EvaluateRisk(d generator.DecisionType, rc RuntimeContext) RiskAssessment {
	var risk float64
	var reasons []string

	if rc.FailureRate > 0.5 {
		risk += 0.3
		reasons = append(reasons, fmt.Sprintf("failure rate %.2f above 0.5", rc.FailureRate))
	}
	if rc.PerformanceImpact < -0.2 {
		risk += 0.25
		reasons = append(reasons, fmt.Sprintf("performance impact %.2f below -0.2", rc.PerformanceImpact))
	}
	if rc.AnomalyScore > 0.8 {
		risk += 0.2
		reasons = append(reasons, fmt.Sprintf("anomaly score %.2f above 0.8", rc.AnomalyScore))
	}
	if rc.FeedbackScore < 0.3 {
		risk += 0.15
		reasons = append(reasons, fmt.Sprintf("feedback score %.2f below 0.3", rc.FeedbackScore))
	}
	if d.RiskLevel > 0.8 {
		risk += 0.1
		reasons = append(reasons, fmt.Sprintf("decision risk level %.2f above 0.8", d.RiskLevel))
	}

	should := risk >= QuarantineThreshold

	// The duration formula uses the risk level directly, not the excess
	// over the threshold.
	var duration time.Duration
	if should {
		duration = time.Duration(risk * float64(time.Hour))
		if duration > MaxQuarantineDuration {
			duration = MaxQuarantineDuration
		}
	}

	return RiskAssessment{
		ShouldQuarantine:    should,
		RiskLevel:           risk,
		Reasons:             reasons,
		RecommendedDuration: duration,
	}
}

// #endregion evaluate-risk
