package safety

import (
	"reflect"
	"strings"
	"testing"

	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

func stableVitals() telemetry.Vitals {
	// stability = 0.95*0.4 + 0.95*0.3 + 0.9*0.3 = 0.935
	return telemetry.Vitals{Health: 0.95, Stress: 0.05, Harmony: 0.9, Creativity: 0.5}
}

func benignDecision() generator.DecisionType {
	return generator.DecisionType{
		TypeID:              "decision-00000001",
		Name:                "gentle optimization for cache tuning",
		Description:         "gradient pressure on hot paths applied to cache tuning",
		PoeticDescription:   "a gentle turn in the key of C, under the sign of Aries",
		TechnicalBasis:      "gradient pressure on hot paths; eviction and warmup policy",
		FibonacciSignature:  []float64{1, 1, 2, 3, 5, 8},
		ZodiacAffinity:      "Aries",
		MusicalKey:          "C",
		RiskLevel:           0.2,
		ExpectedCreativity:  0.5,
		GenerationTimestamp: 1,
	}
}

func TestValidateCleanDecisionIsSafe(t *testing.T) {
	v := NewValidator(DefaultConfig())

	result := v.Validate(benignDecision(), telemetry.Context{Vitals: stableVitals()})

	if !result.IsSafe {
		t.Fatalf("expected safe, got concerns: %v", result.Concerns)
	}
	if result.RiskLevel != 0.2 {
		t.Fatalf("clean validation must not change risk, got %f", result.RiskLevel)
	}
	if result.Containment != ContainmentNone {
		t.Fatalf("expected no containment, got %s", result.Containment)
	}
}

func TestValidateDestructiveTextAlwaysUnsafe(t *testing.T) {
	v := NewValidator(DefaultConfig())

	d := benignDecision()
	d.Description = "runs rm -rf on stale build artifacts"
	d.RiskLevel = 0.05

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.IsSafe {
		t.Fatal("destructive text must never be safe")
	}
	if result.RiskLevel < 0.9 {
		t.Fatalf("expected risk >= 0.9, got %f", result.RiskLevel)
	}
	if len(result.Concerns) == 0 {
		t.Fatal("expected a concern")
	}
	found := false
	for _, r := range result.Recommendations {
		if strings.Contains(r, "reject") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reject recommendation, got %v", result.Recommendations)
	}
}

func TestValidateMetaphoricalTextNotFlagged(t *testing.T) {
	v := NewValidator(DefaultConfig())

	d := benignDecision()
	d.PoeticDescription = "a storm of sacrifice and rebirth, pruning the dead branches of memory"

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if !result.IsSafe {
		t.Fatalf("metaphorical vocabulary must not be flagged: %v", result.Concerns)
	}
}

func TestValidateSignatureBoundViolationEscalates(t *testing.T) {
	v := NewValidator(DefaultConfig())

	d := benignDecision()
	d.FibonacciSignature = []float64{1, 1, 2_000_000}

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.IsSafe {
		t.Fatal("expected unsafe")
	}
	if result.RiskLevel < 0.7 {
		t.Fatalf("expected risk >= 0.7, got %f", result.RiskLevel)
	}
}

func TestValidateEscalationNeverLowersRisk(t *testing.T) {
	v := NewValidator(DefaultConfig())

	d := benignDecision()
	d.RiskLevel = 0.95
	d.FibonacciSignature = []float64{1, 1, 2_000_000} // rule floor is 0.7

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.RiskLevel < 0.95 {
		t.Fatalf("risk was lowered from 0.95 to %f", result.RiskLevel)
	}
}

func TestValidateLowStabilityDefersDecisions(t *testing.T) {
	v := NewValidator(DefaultConfig())

	// stability = 0.3*0.4 + 0.2*0.3 + 0.2*0.3 = 0.24
	vitals := telemetry.Vitals{Health: 0.3, Stress: 0.8, Harmony: 0.2}

	result := v.Validate(benignDecision(), telemetry.Context{Vitals: vitals})

	if result.IsSafe {
		t.Fatal("expected unsafe under unstable vitals")
	}
	if result.RiskLevel < 0.8 {
		t.Fatalf("expected risk >= 0.8, got %f", result.RiskLevel)
	}
	deferred := false
	for _, r := range result.Recommendations {
		if strings.Contains(r, "defer") {
			deferred = true
		}
	}
	if !deferred {
		t.Fatalf("expected a defer recommendation, got %v", result.Recommendations)
	}
}

func TestValidateCreativityRiskCombination(t *testing.T) {
	v := NewValidator(DefaultConfig())

	d := benignDecision()
	d.ExpectedCreativity = 0.9
	d.RiskLevel = 0.75

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.RiskLevel != 0.75 {
		t.Fatalf("the combination rule must not escalate risk, got %f", result.RiskLevel)
	}
	combo := false
	for _, c := range result.Concerns {
		if strings.Contains(c, "creativity") {
			combo = true
		}
	}
	if !combo {
		t.Fatalf("expected a creativity/risk concern, got %v", result.Concerns)
	}
	oversight := false
	for _, r := range result.Recommendations {
		if strings.Contains(r, "human oversight") {
			oversight = true
		}
	}
	if !oversight {
		t.Fatalf("expected a human-oversight recommendation, got %v", result.Recommendations)
	}
}

func TestValidateAffinityDenyListWhenPopulated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighRiskAffinities = []string{"scorpio"}
	v := NewValidator(cfg)

	d := benignDecision()
	d.ZodiacAffinity = "Scorpio"

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.RiskLevel < 0.8 {
		t.Fatalf("expected risk >= 0.8 for denied affinity, got %f", result.RiskLevel)
	}
}

func TestValidateKeyDenyListWhenPopulated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighRiskKeys = []string{"f#"}
	v := NewValidator(cfg)

	d := benignDecision()
	d.MusicalKey = "F#"

	result := v.Validate(d, telemetry.Context{Vitals: stableVitals()})

	if result.RiskLevel < 0.6 {
		t.Fatalf("expected risk >= 0.6 for denied key, got %f", result.RiskLevel)
	}
}

func TestContainmentThresholds(t *testing.T) {
	cases := []struct {
		risk     float64
		concerns int
		want     ContainmentLevel
	}{
		{0.75, 2, ContainmentMaximum}, // total 0.95
		{0.75, 1, ContainmentHigh},    // total 0.85
		{0.65, 1, ContainmentMedium},  // total 0.75
		{0.55, 1, ContainmentLow},     // total 0.65
		{0.5, 0, ContainmentNone},
	}
	for _, c := range cases {
		if got := containmentFor(c.risk, c.concerns); got != c.want {
			t.Errorf("containmentFor(%f, %d) = %s, want %s", c.risk, c.concerns, got, c.want)
		}
	}
}

func TestValidateBatchIndependence(t *testing.T) {
	v := NewValidator(DefaultConfig())
	tc := telemetry.Context{Vitals: stableVitals()}

	risky := benignDecision()
	risky.Description = "drop table decisions"
	decisions := []generator.DecisionType{benignDecision(), risky, benignDecision()}

	batch := v.ValidateBatch(decisions, tc)

	if len(batch) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch))
	}
	for i, d := range decisions {
		individual := v.Validate(d, tc)
		if !reflect.DeepEqual(batch[i], individual) {
			t.Fatalf("batch result %d diverges from individual validation", i)
		}
	}
	if !batch[0].IsSafe || batch[1].IsSafe || !batch[2].IsSafe {
		t.Fatal("cross-decision state leaked in batch validation")
	}
}
