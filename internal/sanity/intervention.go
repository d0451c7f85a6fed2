package sanity

import (
	"context"
	"fmt"
)

// #region actuator

// Actuator abstracts the external actions an intervention triggers, so
// the engine stays decoupled from process management.
type Actuator interface {
	IncreaseMonitoring(ctx context.Context) error
	PauseGeneration(ctx context.Context) error
	TriggerShutdown(ctx context.Context) error
}

// #endregion actuator

// #region execute

// ExecuteIntervention performs the action implied by the assessment's
// intervention type. Actuator errors and panics are captured into the
// result; this function never crashes the caller.
func ExecuteIntervention(ctx context.Context, a Actuator, assessment Assessment) (result InterventionResult) {
	result = InterventionResult{Intervention: assessment.Intervention}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Message = fmt.Sprintf("intervention panicked: %v", r)
		}
	}()

	if assessment.Intervention == InterventionNone {
		result.Success = true
		result.Message = "no intervention required"
		return result
	}

	if a == nil {
		result.Success = false
		result.Message = "no actuator configured"
		return result
	}

	var err error
	switch assessment.Intervention {
	case InterventionMonitoring:
		err = a.IncreaseMonitoring(ctx)
	case InterventionPause:
		err = a.PauseGeneration(ctx)
	case InterventionShutdown:
		err = a.TriggerShutdown(ctx)
	default:
		err = fmt.Errorf("unknown intervention type %q", assessment.Intervention)
	}

	if err != nil {
		result.Success = false
		result.Message = fmt.Sprintf("intervention failed: %v", err)
		return result
	}

	result.Success = true
	result.Message = fmt.Sprintf("executed %s intervention", assessment.Intervention)
	return result
}

// #endregion execute
