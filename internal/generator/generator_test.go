package generator

import (
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/evoflux/decision-safety/internal/pattern"
	"github.com/evoflux/decision-safety/internal/telemetry"
)

func testContext(ts int64) telemetry.Context {
	return telemetry.Context{
		Vitals: telemetry.Vitals{
			Health: 0.9, Stress: 0.1, Harmony: 0.8, Creativity: 0.5,
			Timestamp: ts,
		},
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	tc := testContext(1700000000000)
	first, firstPat := g.Generate(tc)
	second, secondPat := g.Generate(tc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical context produced different decisions:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(firstPat, secondPat) {
		t.Fatal("identical context produced different patterns")
	}
}

func TestGenerateCacheHitSkipsRecomputation(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	tc := testContext(1700000000000)
	g.Generate(tc)
	g.Generate(tc)
	g.Generate(tc)

	stats := g.Stats()
	if stats.Misses != 1 {
		t.Fatalf("expected exactly 1 computation, got %d", stats.Misses)
	}
	if stats.Hits != 2 {
		t.Fatalf("expected 2 cache hits, got %d", stats.Hits)
	}
	if stats.Size != 1 {
		t.Fatalf("expected cache size 1, got %d", stats.Size)
	}
}

func TestGenerateDistinctSignaturesCachedSeparately(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	g.Generate(testContext(1))
	g.Generate(testContext(2))

	if stats := g.Stats(); stats.Size != 2 {
		t.Fatalf("expected 2 cached signatures, got %d", stats.Size)
	}
}

func TestGeneratedPatternIsSane(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	for _, ts := range []int64{1, 42, 1700000000000, 9999999999999} {
		_, p := g.Generate(testContext(ts))
		result := pattern.CheckSanity(p)
		if !result.IsSane {
			t.Fatalf("generated pattern for ts=%d is insane: %v", ts, result.Issues)
		}
	}
}

func TestGenerateDegenerateInputStillValid(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	cases := []telemetry.Context{
		{Vitals: telemetry.Vitals{Timestamp: 0}},
		{Vitals: telemetry.Vitals{Timestamp: -5, Health: 1, Stress: 1, Harmony: 1, Creativity: 1}},
		{Vitals: telemetry.Vitals{Timestamp: 7, Health: math.NaN(), Stress: math.NaN()}},
	}
	for i, tc := range cases {
		d, _ := g.Generate(tc)
		if d.GenerationTimestamp <= 0 {
			t.Fatalf("case %d: generation timestamp must be positive, got %d", i, d.GenerationTimestamp)
		}
		if d.TypeID == "" || d.Name == "" || d.Description == "" || d.PoeticDescription == "" || d.TechnicalBasis == "" {
			t.Fatalf("case %d: descriptive fields must be non-empty: %+v", i, d)
		}
		for name, v := range map[string]float64{
			"musical_harmony":     d.MusicalHarmony,
			"risk_level":          d.RiskLevel,
			"expected_creativity": d.ExpectedCreativity,
			"validation_score":    d.ValidationScore,
		} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("case %d: %s=%f out of [0, 1]", i, name, v)
			}
		}
	}
}

func TestGenerateReturnsIndependentCopies(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	tc := testContext(123)
	first, _ := g.Generate(tc)
	first.FibonacciSignature[0] = -999

	second, _ := g.Generate(tc)
	if second.FibonacciSignature[0] == -999 {
		t.Fatal("mutating a returned record leaked into the cache")
	}
}

func TestGenerateConcurrentCallers(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	tc := testContext(555)
	want, _ := g.Generate(tc)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, _ := g.Generate(testContext(555))
				if !reflect.DeepEqual(got, want) {
					t.Errorf("concurrent generation diverged")
					return
				}
				g.Generate(testContext(n))
			}
		}(int64(i))
	}
	wg.Wait()
}

func TestRollingHashOrderSensitive(t *testing.T) {
	if rollingHash("a", "b", "c") == rollingHash("c", "b", "a") {
		t.Fatal("hash must be order-sensitive")
	}
	if rollingHash("a", "b") != rollingHash("a", "b") {
		t.Fatal("hash must be stable")
	}
}

func TestTypeIDFormat(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	d, _ := g.Generate(testContext(99))
	if !strings.HasPrefix(d.TypeID, "decision-") {
		t.Fatalf("unexpected type id %q", d.TypeID)
	}
}
