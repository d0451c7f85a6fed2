package ledger

import (
	"path/filepath"
	"testing"

	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/safety"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDecision(typeID string, risk float64) generator.DecisionType {
	return generator.DecisionType{
		TypeID:              typeID,
		Name:                "gentle optimization",
		FibonacciSignature:  []float64{1, 1, 2, 3},
		ZodiacAffinity:      "Aries",
		MusicalKey:          "C",
		RiskLevel:           risk,
		ExpectedCreativity:  0.5,
		ValidationScore:     0.7,
		GenerationTimestamp: 1700000000000,
	}
}

func TestRecordAndListDecisions(t *testing.T) {
	store := testStore(t)

	if err := store.RecordDecision(sampleDecision("decision-00000001", 0.2)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordDecision(sampleDecision("decision-00000002", 0.4)); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := store.RecentDecisions(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Most recent first.
	if rows[0].TypeID != "decision-00000002" || rows[1].TypeID != "decision-00000001" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[0].RiskLevel != 0.4 || rows[0].MusicalKey != "C" || rows[0].GeneratedAt != 1700000000000 {
		t.Fatalf("row fields off: %+v", rows[0])
	}
}

func TestRecordAndListValidations(t *testing.T) {
	store := testStore(t)

	safe := safety.Result{IsSafe: true, RiskLevel: 0.2, Containment: safety.ContainmentNone}
	unsafe := safety.Result{
		IsSafe:      false,
		RiskLevel:   0.9,
		Containment: safety.ContainmentHigh,
		Concerns:    []string{"decision text matches destructive pattern \"rm -rf\""},
	}

	if err := store.RecordValidation("decision-00000001", safe); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordValidation("decision-00000002", unsafe); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := store.RecentValidations(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].IsSafe || rows[0].RiskLevel != 0.9 || rows[0].Containment != "high" {
		t.Fatalf("unsafe row off: %+v", rows[0])
	}
	if rows[0].Concerns == "" {
		t.Fatal("expected concerns JSON on the unsafe row")
	}
	if !rows[1].IsSafe || rows[1].Concerns != "" {
		t.Fatalf("safe row off: %+v", rows[1])
	}
}

func TestRecentDecisionsHonorsLimit(t *testing.T) {
	store := testStore(t)

	for i := 0; i < 5; i++ {
		if err := store.RecordDecision(sampleDecision("decision-00000001", 0.2)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rows, err := store.RecentDecisions(3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestStoreReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.RecordDecision(sampleDecision("decision-00000001", 0.2)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.RecentDecisions(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the row to survive reopen, got %d", len(rows))
	}
}
