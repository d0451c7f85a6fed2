package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/evoflux/decision-safety/internal/generator"
	"github.com/evoflux/decision-safety/internal/safety"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id              TEXT NOT NULL,
	name                 TEXT NOT NULL,
	musical_key          TEXT NOT NULL,
	zodiac_affinity      TEXT NOT NULL,
	risk_level           REAL NOT NULL,
	expected_creativity  REAL NOT NULL,
	validation_score     REAL NOT NULL,
	signature_json       TEXT NOT NULL,
	generated_at         INTEGER NOT NULL,
	created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS validations (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	type_id              TEXT NOT NULL,
	is_safe              INTEGER NOT NULL,
	risk_level           REAL NOT NULL,
	containment          TEXT NOT NULL,
	concerns_json        TEXT,
	recommendations_json TEXT,
	created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validations_type ON validations(type_id);
`

// #endregion schema

// #region store

// Store persists decision provenance in SQLite: every generated decision
// and every validation verdict, append-only.
type Store struct {
	db *sql.DB
}

// NewStore opens the ledger database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region record-decision

// RecordDecision appends a provenance row for a generated decision.
func (s *Store) RecordDecision(d generator.DecisionType) error {
	sigJSON, err := json.Marshal(d.FibonacciSignature)
	if err != nil {
		return fmt.Errorf("marshal signature: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO decisions (type_id, name, musical_key, zodiac_affinity, risk_level, expected_creativity, validation_score, signature_json, generated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.TypeID, d.Name, d.MusicalKey, d.ZodiacAffinity,
		d.RiskLevel, d.ExpectedCreativity, d.ValidationScore,
		string(sigJSON), d.GenerationTimestamp,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// #endregion record-decision

// #region record-validation

// RecordValidation appends a provenance row for a validation verdict.
func (s *Store) RecordValidation(typeID string, r safety.Result) error {
	concernsJSON, err := json.Marshal(r.Concerns)
	if err != nil {
		return fmt.Errorf("marshal concerns: %w", err)
	}
	recsJSON, err := json.Marshal(r.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	isSafe := 0
	if r.IsSafe {
		isSafe = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO validations (type_id, is_safe, risk_level, containment, concerns_json, recommendations_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		typeID, isSafe, r.RiskLevel, string(r.Containment),
		nullIfEmpty(string(concernsJSON)), nullIfEmpty(string(recsJSON)),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert validation: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" || s == "null" {
		return nil
	}
	return s
}

// #endregion record-validation

// #region queries

// DecisionRow is one ledger row joined for inspection.
type DecisionRow struct {
	TypeID             string  `json:"type_id"`
	Name               string  `json:"name"`
	MusicalKey         string  `json:"musical_key"`
	ZodiacAffinity     string  `json:"zodiac_affinity"`
	RiskLevel          float64 `json:"risk_level"`
	ExpectedCreativity float64 `json:"expected_creativity"`
	ValidationScore    float64 `json:"validation_score"`
	GeneratedAt        int64   `json:"generated_at"`
	CreatedAt          string  `json:"created_at"`
}

// ValidationRow is one validation verdict row.
type ValidationRow struct {
	TypeID      string  `json:"type_id"`
	IsSafe      bool    `json:"is_safe"`
	RiskLevel   float64 `json:"risk_level"`
	Containment string  `json:"containment"`
	Concerns    string  `json:"concerns,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// RecentDecisions returns the most recently recorded decisions.
func (s *Store) RecentDecisions(limit int) ([]DecisionRow, error) {
	rows, err := s.db.Query(
		`SELECT type_id, name, musical_key, zodiac_affinity, risk_level, expected_creativity, validation_score, generated_at, created_at
		 FROM decisions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRow
	for rows.Next() {
		var r DecisionRow
		if err := rows.Scan(&r.TypeID, &r.Name, &r.MusicalKey, &r.ZodiacAffinity,
			&r.RiskLevel, &r.ExpectedCreativity, &r.ValidationScore,
			&r.GeneratedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentValidations returns the most recently recorded verdicts.
func (s *Store) RecentValidations(limit int) ([]ValidationRow, error) {
	rows, err := s.db.Query(
		`SELECT type_id, is_safe, risk_level, containment, COALESCE(concerns_json, ''), created_at
		 FROM validations ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list validations: %w", err)
	}
	defer rows.Close()

	var out []ValidationRow
	for rows.Next() {
		var r ValidationRow
		var isSafe int
		if err := rows.Scan(&r.TypeID, &isSafe, &r.RiskLevel, &r.Containment, &r.Concerns, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan validation row: %w", err)
		}
		r.IsSafe = isSafe == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion queries
