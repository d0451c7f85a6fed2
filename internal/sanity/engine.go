package sanity

import (
	"fmt"
	"math"

	"github.com/evoflux/decision-safety/internal/pattern"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

// #region weights

// Sub-score weights. They sum to 1.
const (
	weightStability     = 0.3
	weightConsistency   = 0.2
	weightDiversity     = 0.2
	weightInvertedRisk  = 0.2
	weightPatternHealth = 0.1
)

// #endregion weights

// #region engine

// Engine computes a systemic sanity level from the ambient context. It
// holds no state between calls; every assessment is computed fresh from
// its argument.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// #endregion engine

// #region assess

// Assess combines five weighted sub-scores into a sanity level and maps
// it onto the intervention ladder.
func (e *Engine) Assess(tc telemetry.Context) Assessment {
	var concerns, recommendations []string

	stability := stabilityScore(tc.Vitals)
	if stability < e.config.StabilityConcern {
		concerns = append(concerns, fmt.Sprintf("system stability %.2f below %.2f", stability, e.config.StabilityConcern))
		recommendations = append(recommendations, "reduce load before generating further decisions")
	}

	consistency := feedbackConsistency(tc.Feedback)
	if consistency < e.config.ConsistencyConcern {
		concerns = append(concerns, fmt.Sprintf("feedback consistency %.2f below %.2f", consistency, e.config.ConsistencyConcern))
		recommendations = append(recommendations, "review recent feedback for conflicting judgments")
	}

	diversity := decisionDiversity(tc.CurrentPatterns)
	if diversity < e.config.DiversityConcern {
		concerns = append(concerns, fmt.Sprintf("decision diversity %.2f below %.2f", diversity, e.config.DiversityConcern))
		recommendations = append(recommendations, "widen the generation signature to diversify candidates")
	}

	accRisk := accumulatedRisk(tc.Feedback)
	if accRisk > e.config.AccumulatedRiskConcern {
		concerns = append(concerns, fmt.Sprintf("accumulated risk %.2f above %.2f", accRisk, e.config.AccumulatedRiskConcern))
		recommendations = append(recommendations, "pause deployment until the failure streak clears")
	}

	repetition := repetitionRatio(tc.CurrentPatterns)
	if repetition > e.config.RepetitionConcern {
		concerns = append(concerns, fmt.Sprintf("pattern repetition %.2f above %.2f", repetition, e.config.RepetitionConcern))
	}
	trend := creativityTrend(tc.Feedback)
	if trend < 0 {
		concerns = append(concerns, fmt.Sprintf("creativity trending downward (%.3f)", trend))
		recommendations = append(recommendations, "inject fresh context variance into generation")
	}
	health := clamp01(1 - (repetition+math.Max(0, -trend))/2)

	level := weightStability*stability +
		weightConsistency*consistency +
		weightDiversity*diversity +
		weightInvertedRisk*(1-accRisk) +
		weightPatternHealth*health

	intervention := interventionFor(level)

	return Assessment{
		SanityLevel:          level,
		Concerns:             concerns,
		Recommendations:      recommendations,
		RequiresIntervention: level < 0.4,
		Intervention:         intervention,
	}
}

// interventionFor maps a sanity level onto the four-state ladder.
func interventionFor(level float64) InterventionType {
	switch {
	case level >= 0.8:
		return InterventionNone
	case level >= 0.6:
		return InterventionMonitoring
	case level >= 0.4:
		return InterventionPause
	default:
		return InterventionShutdown
	}
}

// #endregion assess

// #region sub-scores

// stabilityScore is health damped by stress.
func stabilityScore(v telemetry.Vitals) float64 {
	return clamp01(v.Health * (1 - v.Stress))
}

// feedbackConsistency inverts the spread of human ratings. Fewer than 5
// entries is too thin to judge and scores neutral.
func feedbackConsistency(feedback []telemetry.FeedbackEntry) float64 {
	if len(feedback) < 5 {
		return 0.5
	}
	var sum float64
	for _, f := range feedback {
		sum += float64(f.HumanRating)
	}
	mean := sum / float64(len(feedback))
	var variance float64
	for _, f := range feedback {
		d := float64(f.HumanRating) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(feedback)))
	return math.Max(0, 1-stdDev/5)
}

// decisionDiversity averages pairwise pattern differences, normalized by
// 2. Fewer than 3 patterns scores neutral.
func decisionDiversity(patterns []pattern.Pattern) float64 {
	if len(patterns) < 3 {
		return 0.5
	}
	var sum float64
	var pairs int
	for i := 0; i < len(patterns); i++ {
		for j := i + 1; j < len(patterns); j++ {
			sum += pattern.Difference(patterns[i], patterns[j])
			pairs++
		}
	}
	return clamp01(sum / float64(pairs) / 2)
}

// accumulatedRisk blends the negative-rating ratio and the failure ratio
// over the most recent 10 feedback entries.
func accumulatedRisk(feedback []telemetry.FeedbackEntry) float64 {
	recent := tail(feedback, 10)
	if len(recent) == 0 {
		return 0
	}
	var negative, failed int
	for _, f := range recent {
		if f.HumanRating < 3 {
			negative++
		}
		if !f.AppliedSuccessfully {
			failed++
		}
	}
	n := float64(len(recent))
	return (float64(negative)/n + float64(failed)/n) / 2
}

// repetitionRatio is the fraction of pattern pairs that are nearly
// identical (difference < 0.1). Requires at least 5 patterns.
func repetitionRatio(patterns []pattern.Pattern) float64 {
	if len(patterns) < 5 {
		return 0
	}
	var repeated, pairs int
	for i := 0; i < len(patterns); i++ {
		for j := i + 1; j < len(patterns); j++ {
			if pattern.Difference(patterns[i], patterns[j]) < 0.1 {
				repeated++
			}
			pairs++
		}
	}
	return float64(repeated) / float64(pairs)
}

// creativityTrend compares the average performance impact of the most
// recent 5 feedback entries against the preceding 5. Requires at least 10
// entries.
func creativityTrend(feedback []telemetry.FeedbackEntry) float64 {
	if len(feedback) < 10 {
		return 0
	}
	recent := tail(feedback, 5)
	preceding := feedback[len(feedback)-10 : len(feedback)-5]
	return meanImpact(recent) - meanImpact(preceding)
}

func meanImpact(feedback []telemetry.FeedbackEntry) float64 {
	if len(feedback) == 0 {
		return 0
	}
	var sum float64
	for _, f := range feedback {
		sum += f.PerformanceImpact
	}
	return sum / float64(len(feedback))
}

// tail returns the last n entries (most recent last).
func tail(feedback []telemetry.FeedbackEntry, n int) []telemetry.FeedbackEntry {
	if len(feedback) <= n {
		return feedback
	}
	return feedback[len(feedback)-n:]
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion sub-scores
