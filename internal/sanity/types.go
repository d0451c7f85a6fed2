package sanity

// #region intervention-type

// InterventionType is the containment action implied by a sanity level.
// The four states form a ladder with no cycles; every assessment maps the
// level fresh, nothing is carried between calls.
type InterventionType string

const (
	InterventionNone       InterventionType = "none"
	InterventionMonitoring InterventionType = "monitoring"
	InterventionPause      InterventionType = "pause"
	InterventionShutdown   InterventionType = "shutdown"
)

// #endregion intervention-type

// #region assessment

// Assessment is the systemic health verdict gating future generation.
type Assessment struct {
	SanityLevel          float64
	Concerns             []string
	Recommendations      []string
	RequiresIntervention bool
	Intervention         InterventionType
}

// #endregion assessment

// #region config

// Config holds the concern thresholds for the five sub-scores.
type Config struct {
	StabilityConcern       float64 // stability below this adds a concern
	ConsistencyConcern     float64 // feedback consistency below this
	DiversityConcern       float64 // decision diversity below this
	AccumulatedRiskConcern float64 // accumulated risk above this
	RepetitionConcern      float64 // repetition ratio above this
}

// DefaultConfig returns the documented thresholds.
func DefaultConfig() Config {
	return Config{
		StabilityConcern:       0.7,
		ConsistencyConcern:     0.6,
		DiversityConcern:       0.5,
		AccumulatedRiskConcern: 0.7,
		RepetitionConcern:      0.8,
	}
}

// #endregion config

// #region intervention-result

// InterventionResult reports what ExecuteIntervention did. Actuator
// failures land in Message with Success false; they never propagate.
type InterventionResult struct {
	Intervention InterventionType
	Success      bool
	Message      string
}

// #endregion intervention-result
