package generator

// #region category-tables

// category pairs a label used for identity with the technical phrasing
// used in descriptive fields.
type category struct {
	label     string
	technical string
}

var baseTypes = []category{
	{"optimization", "gradient pressure on hot paths"},
	{"exploration", "stochastic probing of idle capacity"},
	{"consolidation", "merging of redundant control paths"},
	{"diversification", "widening of the candidate pool"},
	{"stabilization", "damping of oscillating feedback"},
	{"acceleration", "lookahead scheduling of deferred work"},
	{"refinement", "narrowing of tolerance bands"},
	{"expansion", "allocation of headroom to starved consumers"},
	{"pruning", "retirement of low-yield branches"},
	{"harmonization", "phase alignment of competing cycles"},
	{"adaptation", "threshold drift toward observed load"},
	{"synthesis", "recombination of proven fragments"},
}

var modifiers = []category{
	{"gentle", "sub-threshold adjustment"},
	{"bold", "full-step adjustment"},
	{"cautious", "staged rollout with checkpoints"},
	{"incremental", "monotone small-delta application"},
	{"adaptive", "magnitude scaled by recent variance"},
	{"resonant", "applied in phase with the dominant cycle"},
	{"measured", "rate-limited application"},
	{"recursive", "reapplied to its own output"},
}

var applicationContexts = []category{
	{"memory management", "allocator and cache residency"},
	{"scheduling", "task ordering and preemption"},
	{"resource allocation", "quota and headroom assignment"},
	{"feedback routing", "signal fan-out weighting"},
	{"pattern synthesis", "candidate pattern recombination"},
	{"load shedding", "admission control under pressure"},
	{"signal weighting", "sensor trust calibration"},
	{"cache tuning", "eviction and warmup policy"},
}

// zodiacSigns index by pattern position, [0, 12).
var zodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// #endregion category-tables
