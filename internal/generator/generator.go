package generator

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/evoflux/decision-safety/internal/pattern"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

// #region constants

const (
	// DefaultHarmonyRatio is the golden-ratio fallback used when a context
	// does not specify a harmony ratio of its own.
	DefaultHarmonyRatio = 0.618

	goldenRatio = 1.6180339887498949

	sequenceLength = 8
)

// #endregion constants

// #region generator

// Generator turns a context snapshot into a deterministic decision
// candidate. The only mutable state is the generation cache, which maps a
// context signature to the record computed for it.
type Generator struct {
	mu     sync.RWMutex
	cache  map[string]cached
	hits   atomic.Int64
	misses atomic.Int64
}

type cached struct {
	decision DecisionType
	pat      pattern.Pattern
}

// New creates a Generator. It fails only on broken category tables, which
// is a startup-time misconfiguration; generation itself never errors.
func New() (*Generator, error) {
	if len(baseTypes) == 0 || len(modifiers) == 0 || len(applicationContexts) == 0 {
		return nil, errors.New("generator category tables are empty")
	}
	if len(pattern.Keys()) == 0 {
		return nil, errors.New("no recognized musical keys available")
	}
	if len(zodiacSigns) != 12 {
		return nil, errors.New("zodiac table must carry 12 labels")
	}
	return &Generator{cache: make(map[string]cached)}, nil
}

// #endregion generator

// #region generate

// Generate returns the decision candidate for the given context, and the
// pattern it was derived from. Identical context signatures always return
// identical records; cache hits perform no recomputation. Degenerate
// input (zero or negative timestamp, saturated or NaN vitals) still
// produces a valid record.
func (g *Generator) Generate(tc telemetry.Context) (DecisionType, pattern.Pattern) {
	sig := Signature(tc)

	g.mu.RLock()
	entry, ok := g.cache[sig]
	g.mu.RUnlock()
	if ok {
		g.hits.Add(1)
		return copyOf(entry)
	}

	computed := cached{}
	computed.pat = derivePattern(sig, tc.Vitals.Timestamp)
	computed.decision = buildDecision(computed.pat)

	// Atomic check-then-insert. A concurrent caller may have computed the
	// same signature; both computations are identical, first write wins.
	g.mu.Lock()
	if entry, ok = g.cache[sig]; !ok {
		g.cache[sig] = computed
		entry = computed
	}
	g.mu.Unlock()
	g.misses.Add(1)

	return copyOf(entry)
}

// Stats returns cache hit/miss counts and current size.
func (g *Generator) Stats() CacheStats {
	g.mu.RLock()
	size := len(g.cache)
	g.mu.RUnlock()
	return CacheStats{Hits: g.hits.Load(), Misses: g.misses.Load(), Size: size}
}

func copyOf(c cached) (DecisionType, pattern.Pattern) {
	d := c.decision
	d.FibonacciSignature = append([]float64(nil), c.decision.FibonacciSignature...)
	p := c.pat
	p.Sequence = append([]float64(nil), c.pat.Sequence...)
	return d, p
}

// #endregion generate

// #region signature

// Signature derives the determinism key from a context: the vitals
// timestamp widened with the vitals values at 3-decimal precision. NaN
// vitals format as "NaN" and stay deterministic.
func Signature(tc telemetry.Context) string {
	v := tc.Vitals
	return fmt.Sprintf("%d|%.3f|%.3f|%.3f|%.3f", v.Timestamp, v.Health, v.Stress, v.Harmony, v.Creativity)
}

// rollingHash is a djb2-style order-sensitive 32-bit hash. Collisions are
// acceptable: the category tuple space is far smaller than the signature
// space, so distinct contexts are expected to collide on identity.
func rollingHash(parts ...string) uint32 {
	var h uint32 = 5381
	for _, p := range parts {
		for i := 0; i < len(p); i++ {
			h = h*33 + uint32(p[i])
		}
		h = h*33 + '|'
	}
	return h
}

// #endregion signature

// #region derive-pattern

// derivePattern builds a sane Fibonacci-like pattern from the signature.
// The second term is capped at twice the first, so adjacent ratios stay
// inside the checker's band by construction.
func derivePattern(sig string, ts int64) pattern.Pattern {
	seed := rollingHash(sig)

	first := float64(1 + seed%8)
	growth := 1.0 + float64((seed>>8)%100)/100.0
	seq := make([]float64, sequenceLength)
	seq[0] = first
	seq[1] = first * growth
	for i := 2; i < sequenceLength; i++ {
		seq[i] = seq[i-1] + seq[i-2]
	}

	if ts <= 0 {
		ts = 1
	}

	return pattern.Pattern{
		Sequence:     seq,
		Position:     float64((seed >> 4) % 12),
		Key:          pattern.Keys()[(seed>>16)%12],
		HarmonyRatio: DefaultHarmonyRatio,
		Timestamp:    ts,
	}
}

// #endregion derive-pattern

// #region build-decision

// buildDecision derives the three categorical selections from the
// pattern, each independently deterministic, and scores the result.
func buildDecision(p pattern.Pattern) DecisionType {
	base := baseTypes[int(p.Position)%len(baseTypes)]
	mod := modifiers[int(rollingHash(fmt.Sprint(p.Sequence)))%len(modifiers)]
	appCtx := applicationContexts[keyIndex(p.Key)%len(applicationContexts)]

	id := rollingHash(base.label, mod.label, appCtx.label)
	zodiac := zodiacSigns[int(p.Position)%len(zodiacSigns)]

	drift := ratioDrift(p.Sequence)
	harmonyScore := clamp01(1 - drift)
	risk := clamp01(0.6*drift + 0.4*(1-p.HarmonyRatio))
	creativity := clamp01(0.5*p.HarmonyRatio + 0.5*sequenceSpread(p.Sequence))

	return DecisionType{
		TypeID:              fmt.Sprintf("decision-%08x", id),
		Name:                fmt.Sprintf("%s %s for %s", mod.label, base.label, appCtx.label),
		Description:         fmt.Sprintf("%s applied to %s via %s", base.technical, appCtx.label, mod.technical),
		PoeticDescription:   fmt.Sprintf("a %s turn in the key of %s, under the sign of %s", mod.label, p.Key, zodiac),
		TechnicalBasis:      fmt.Sprintf("%s; %s", base.technical, appCtx.technical),
		FibonacciSignature:  append([]float64(nil), p.Sequence...),
		ZodiacAffinity:      zodiac,
		MusicalKey:          p.Key,
		MusicalHarmony:      harmonyScore,
		RiskLevel:           risk,
		ExpectedCreativity:  creativity,
		ValidationScore:     clamp01((harmonyScore + (1 - risk)) / 2),
		GenerationTimestamp: p.Timestamp,
	}
}

// ratioDrift measures how far the average adjacent ratio strays from the
// golden ratio, normalized by the golden ratio itself.
func ratioDrift(seq []float64) float64 {
	if len(seq) < 3 {
		return 1
	}
	var sum float64
	var n int
	for i := 2; i < len(seq); i++ {
		if seq[i-1] == 0 {
			continue
		}
		sum += seq[i] / seq[i-1]
		n++
	}
	if n == 0 {
		return 1
	}
	return clamp01(math.Abs(sum/float64(n)-goldenRatio) / goldenRatio)
}

// sequenceSpread is the relative range of the sequence, a cheap proxy for
// how much ground the progression covers.
func sequenceSpread(seq []float64) float64 {
	if len(seq) == 0 {
		return 0
	}
	lo, hi := seq[0], seq[0]
	for _, v := range seq {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return clamp01((hi - lo) / math.Max(math.Abs(hi), 1))
}

func keyIndex(key string) int {
	for i, k := range pattern.Keys() {
		if k == key {
			return i
		}
	}
	return 0
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion build-decision
