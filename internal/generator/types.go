package generator

// #region decision-type

// DecisionType is a generated, immutable candidate action record.
// Identity and scores are pure functions of the context signature the
// record was generated from; consumers must treat it as read-only.
type DecisionType struct {
	TypeID             string    `json:"type_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	PoeticDescription  string    `json:"poetic_description"`
	TechnicalBasis     string    `json:"technical_basis"`
	FibonacciSignature []float64 `json:"fibonacci_signature"`
	ZodiacAffinity     string    `json:"zodiac_affinity"`
	MusicalKey         string    `json:"musical_key"`
	MusicalHarmony     float64   `json:"musical_harmony"`
	RiskLevel          float64   `json:"risk_level"`
	ExpectedCreativity float64   `json:"expected_creativity"`
	ValidationScore    float64   `json:"validation_score"`

	// GenerationTimestamp is derived from the vitals timestamp, not the
	// wall clock, so identical signatures yield identical records.
	GenerationTimestamp int64 `json:"generation_timestamp"`
}

// #endregion decision-type

// #region cache-stats

// CacheStats reports generation cache traffic.
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// #endregion cache-stats
