package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/ledger"
	"github.com/evoflux/decision-safety/internal/pattern"
	"github.com/evoflux/decision-safety/internal/quarantine"
	"github.com/evoflux/decision-safety/internal/safety"
	"github.com/evoflux/decision-safety/internal/sanity"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

// #region options

// Options wires the pipeline's components. Ledger and Quarantine may be
// nil; the corresponding steps then become no-ops.
type Options struct {
	Generator  *generator.Generator
	Validator  *safety.Validator
	Engine     *sanity.Engine
	Quarantine *quarantine.System
	Ledger     *ledger.Store
	Logger     *slog.Logger

	MaxPatternWindow  int
	MaxFeedbackWindow int
}

// #endregion options

// #region pipeline

// Pipeline composes the five safety components and owns the bounded
// pattern/feedback windows that feed the sanity engine's context.
type Pipeline struct {
	gen        *generator.Generator
	validator  *safety.Validator
	engine     *sanity.Engine
	quarantine *quarantine.System
	ledger     *ledger.Store
	logger     *slog.Logger

	maxPatterns int
	maxFeedback int

	mu       sync.Mutex
	patterns []pattern.Pattern
	feedback []telemetry.FeedbackEntry
}

// New creates a pipeline. Generator, Validator, and Engine are required.
func New(opts Options) (*Pipeline, error) {
	if opts.Generator == nil || opts.Validator == nil || opts.Engine == nil {
		return nil, fmt.Errorf("pipeline requires generator, validator, and engine")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		gen:         opts.Generator,
		validator:   opts.Validator,
		engine:      opts.Engine,
		quarantine:  opts.Quarantine,
		ledger:      opts.Ledger,
		logger:      logger,
		maxPatterns: opts.MaxPatternWindow,
		maxFeedback: opts.MaxFeedbackWindow,
	}, nil
}

// #endregion pipeline

// #region step-result

// StepResult is what one pipeline pass hands to the external
// decision-application layer.
type StepResult struct {
	Assessment   sanity.Assessment
	Decision     generator.DecisionType
	Pattern      pattern.Pattern
	PatternCheck pattern.SanityCheckResult
	Safety       safety.Result

	// Halted is set when the systemic gate or the pattern check stopped
	// the pass before validation.
	Halted     bool
	HaltReason string
}

// #endregion step-result

// #region step

// Step runs one full pipeline pass: systemic sanity gate, generation,
// pattern sanity check, safety validation, ledger provenance. Insane
// patterns never reach the validator.
func (p *Pipeline) Step(ctx context.Context, vitals telemetry.Vitals, metrics telemetry.Metrics) (StepResult, error) {
	tc := p.snapshotContext(vitals, metrics)

	result := StepResult{Assessment: p.engine.Assess(tc)}

	if result.Assessment.Intervention == sanity.InterventionPause ||
		result.Assessment.Intervention == sanity.InterventionShutdown {
		result.Halted = true
		result.HaltReason = fmt.Sprintf("sanity level %.2f requires %s", result.Assessment.SanityLevel, result.Assessment.Intervention)
		p.logger.Warn("generation gated", "sanity_level", result.Assessment.SanityLevel, "intervention", result.Assessment.Intervention)
		return result, nil
	}

	result.Decision, result.Pattern = p.gen.Generate(tc)

	result.PatternCheck = pattern.CheckSanity(result.Pattern)
	if !result.PatternCheck.IsSane {
		result.Halted = true
		result.HaltReason = fmt.Sprintf("pattern failed sanity check: %s", result.PatternCheck.Issues[0])
		p.logger.Warn("insane pattern withheld from validation",
			"type_id", result.Decision.TypeID,
			"severity", result.PatternCheck.Severity,
			"issues", len(result.PatternCheck.Issues))
		return result, nil
	}

	result.Safety = p.validator.Validate(result.Decision, tc)

	p.mu.Lock()
	p.patterns = telemetry.AppendPattern(p.patterns, result.Pattern, p.maxPatterns)
	p.mu.Unlock()

	if p.ledger != nil {
		if err := p.ledger.RecordDecision(result.Decision); err != nil {
			return result, fmt.Errorf("record decision: %w", err)
		}
		if err := p.ledger.RecordValidation(result.Decision.TypeID, result.Safety); err != nil {
			return result, fmt.Errorf("record validation: %w", err)
		}
	}

	return result, nil
}

// #endregion step

// #region feedback

// Feedback appends an entry to the bounded feedback window. It becomes
// visible to the sanity engine's context on the next Step or Assess call.
func (p *Pipeline) Feedback(entry telemetry.FeedbackEntry) {
	p.mu.Lock()
	p.feedback = telemetry.AppendFeedback(p.feedback, entry, p.maxFeedback)
	p.mu.Unlock()
}

// Assess runs the sanity engine against the current windows without
// generating anything.
func (p *Pipeline) Assess(vitals telemetry.Vitals, metrics telemetry.Metrics) sanity.Assessment {
	return p.engine.Assess(p.snapshotContext(vitals, metrics))
}

// #endregion feedback

// #region observe

// ObservationResult reports a post-deployment evaluation.
type ObservationResult struct {
	InstanceID  string
	Assessment  quarantine.RiskAssessment
	Quarantined bool
}

// ObserveDeployment evaluates a deployed decision against its runtime
// behavior and quarantines it when indicated. instanceID identifies the
// deployment instance; an empty id gets a fresh UUID.
func (p *Pipeline) ObserveDeployment(ctx context.Context, instanceID string, d generator.DecisionType, rc quarantine.RuntimeContext) ObservationResult {
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	result := ObservationResult{
		InstanceID: instanceID,
		Assessment: quarantine.EvaluateRisk(d, rc),
	}
	if result.Assessment.ShouldQuarantine && p.quarantine != nil {
		result.Quarantined = p.quarantine.Quarantine(ctx, instanceID, d, result.Assessment)
	}
	return result
}

// #endregion observe

// #region snapshot

// snapshotContext builds the ambient context from the supplied vitals
// plus copies of the bounded windows, so pure stages never observe a
// window mid-mutation.
func (p *Pipeline) snapshotContext(vitals telemetry.Vitals, metrics telemetry.Metrics) telemetry.Context {
	p.mu.Lock()
	patterns := append([]pattern.Pattern(nil), p.patterns...)
	feedback := append([]telemetry.FeedbackEntry(nil), p.feedback...)
	p.mu.Unlock()

	return telemetry.Context{
		Vitals:          vitals,
		Metrics:         metrics,
		CurrentPatterns: patterns,
		Feedback:        feedback,
	}
}

// #endregion snapshot
