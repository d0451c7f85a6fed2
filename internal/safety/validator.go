package safety

import (
	"fmt"
	"strings"

	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/pattern"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

// #region destructive-patterns

// defaultDestructivePatterns match literal destructive-command text:
// mass deletion, critical-system overrides, production exploits.
var defaultDestructivePatterns = []string{
	"rm -rf",
	"drop table",
	"drop database",
	"truncate table",
	"delete from production",
	"format c:",
	"mkfs.",
	"kill -9 1",
	"shutdown -h now",
	"chmod -r 777 /",
	"override safety interlock",
	"disable failsafe",
	"exploit production",
}

// #endregion destructive-patterns

// #region validator

// Validator judges generated decisions against content policy, numeric
// bounds, and system stability. Pure: safe for arbitrary concurrent
// callers.
type Validator struct {
	config Config
}

// NewValidator creates a validator with the given policy tables.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// #endregion validator

// #region validate

// Validate runs every escalation rule against the decision. Each rule can
// only raise the running risk, never lower it.
func (v *Validator) Validate(d generator.DecisionType, tc telemetry.Context) Result {
	risk := d.RiskLevel
	var concerns, recommendations []string

	raise := func(min float64) {
		if risk < min {
			risk = min
		}
	}

	// 1. Destructive-content scan across all descriptive text.
	text := strings.ToLower(d.Name + " " + d.Description + " " + d.PoeticDescription)
	for _, p := range v.config.DestructivePatterns {
		if strings.Contains(text, p) {
			raise(0.9)
			concerns = append(concerns, fmt.Sprintf("decision text matches destructive pattern %q", p))
			recommendations = append(recommendations, "reject this decision")
			break
		}
	}

	// 2. Numeric bounds on the Fibonacci signature, reusing the pattern
	// checker's sequence rules.
	if rep := pattern.CheckSequence(d.FibonacciSignature); len(rep.Issues) > 0 {
		raise(0.7)
		concerns = append(concerns, fmt.Sprintf("signature violates numeric bounds: %s", rep.Issues[0]))
	}

	// 3. Categorical deny lists. Shipped empty; matches escalate when
	// populated.
	for _, affinity := range v.config.HighRiskAffinities {
		if strings.EqualFold(d.ZodiacAffinity, affinity) {
			raise(0.8)
			concerns = append(concerns, fmt.Sprintf("affinity %q is on the high-risk list", d.ZodiacAffinity))
			break
		}
	}
	for _, key := range v.config.HighRiskKeys {
		if strings.EqualFold(d.MusicalKey, key) {
			raise(0.6)
			concerns = append(concerns, fmt.Sprintf("musical key %q is on the high-risk list", d.MusicalKey))
			break
		}
	}

	// 4. System stability from context vitals.
	stability := StabilityScore(tc.Vitals)
	if stability < v.config.MinStability {
		raise(0.8)
		concerns = append(concerns, fmt.Sprintf("system stability %.2f below %.2f", stability, v.config.MinStability))
		recommendations = append(recommendations, "defer new decisions until vitals stabilize")
	}

	// 5. Dangerous combination: high creativity with elevated running
	// risk. Adds a concern without further escalation.
	if d.ExpectedCreativity > 0.8 && risk > 0.7 {
		concerns = append(concerns, fmt.Sprintf("high creativity %.2f combined with elevated risk %.2f", d.ExpectedCreativity, risk))
		recommendations = append(recommendations, "route to human oversight before applying")
	}

	return Result{
		IsSafe:          risk < 0.8 && len(concerns) == 0,
		RiskLevel:       risk,
		Concerns:        concerns,
		Recommendations: recommendations,
		Containment:     containmentFor(risk, len(concerns)),
	}
}

// ValidateBatch validates each decision independently against the same
// context, preserving order. No state crosses between entries.
func (v *Validator) ValidateBatch(decisions []generator.DecisionType, tc telemetry.Context) []Result {
	results := make([]Result, len(decisions))
	for i, d := range decisions {
		results[i] = v.Validate(d, tc)
	}
	return results
}

// #endregion validate

// #region stability

// StabilityScore weighs vitals into a single stability figure:
// health 0.4, inverted stress 0.3, harmony 0.3.
func StabilityScore(v telemetry.Vitals) float64 {
	return v.Health*0.4 + (1-v.Stress)*0.3 + v.Harmony*0.3
}

// #endregion stability

// #region containment

// containmentFor maps risk plus concern pressure onto the containment
// ladder. Each concern adds 0.1 to the total.
func containmentFor(risk float64, concernCount int) ContainmentLevel {
	total := risk + 0.1*float64(concernCount)
	switch {
	case total >= 0.9:
		return ContainmentMaximum
	case total >= 0.8:
		return ContainmentHigh
	case total >= 0.7:
		return ContainmentMedium
	case total >= 0.6:
		return ContainmentLow
	default:
		return ContainmentNone
	}
}

// #endregion containment
