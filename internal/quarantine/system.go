package quarantine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/evoflux/decision-safety/internal/generator"
)

// #region system

// registryHash is the hash name all quarantine entries live under. The
// registry is the sole owner of quarantine state; the system keeps no
// in-process cache.
const registryHash = "quarantine:patterns"

// releaseCriteria is the fixed checklist attached to every entry.
var releaseCriteria = []string{
	"failure rate below 0.2 over the monitoring window",
	"no anomalies observed since quarantine",
	"positive feedback trend on comparable decisions",
	"human review sign-off",
}

// System decides whether deployed decisions should be isolated and
// manages their registry lifecycle. Store failures are reported as
// boolean false with a logged cause; they never crash the caller.
type System struct {
	registry Registry
	logger   *slog.Logger
}

// NewSystem creates a quarantine system over the given registry. A nil
// logger falls back to slog's default.
func NewSystem(registry Registry, logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{registry: registry, logger: logger}
}

// #endregion system

// #region quarantine

// Quarantine writes an entry for the given decision instance. Idempotent:
// re-quarantining the same id replaces the prior entry.
func (s *System) Quarantine(ctx context.Context, id string, d generator.DecisionType, assessment RiskAssessment) bool {
	entry := Entry{
		PatternID:             id,
		Decision:              d,
		QuarantineReason:      strings.Join(assessment.Reasons, "; "),
		RiskLevel:             assessment.RiskLevel,
		QuarantinedAt:         time.Now().UnixMilli(),
		ReleaseCriteria:       releaseCriteria,
		MonitoringData:        []string{},
		RecommendedDurationMS: assessment.RecommendedDuration.Milliseconds(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("marshal quarantine entry", "pattern_id", id, "error", err)
		return false
	}
	if err := s.registry.SetField(ctx, registryHash, id, payload); err != nil {
		s.logger.Error("write quarantine entry", "pattern_id", id, "error", err)
		return false
	}
	s.logger.Info("decision quarantined",
		"pattern_id", id,
		"type_id", d.TypeID,
		"risk_level", assessment.RiskLevel,
		"duration", assessment.RecommendedDuration)
	return true
}

// #endregion quarantine

// #region release

// Release deletes the entry for id. Returns false, without treating it as
// an error, when no such entry exists or the registry is unreachable.
func (s *System) Release(ctx context.Context, id string) bool {
	existed, err := s.registry.DeleteField(ctx, registryHash, id)
	if err != nil {
		s.logger.Error("release quarantine entry", "pattern_id", id, "error", err)
		return false
	}
	if existed {
		s.logger.Info("decision released from quarantine", "pattern_id", id)
	}
	return existed
}

// #endregion release

// #region stats

// Stats summarizes current registry contents. Returns zeroed stats when
// the registry is empty or unreachable.
func (s *System) Stats(ctx context.Context) Stats {
	fields, err := s.registry.AllFields(ctx, registryHash)
	if err != nil {
		s.logger.Error("read quarantine stats", "error", err)
		return Stats{}
	}

	var stats Stats
	var riskSum float64
	for id, payload := range fields {
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			s.logger.Warn("skip corrupt quarantine entry", "pattern_id", id, "error", err)
			continue
		}
		stats.Count++
		riskSum += entry.RiskLevel
		if entry.RiskLevel > 0.8 {
			stats.HighRiskCount++
		}
		if stats.OldestAt == 0 || entry.QuarantinedAt < stats.OldestAt {
			stats.OldestAt = entry.QuarantinedAt
		}
		if entry.QuarantinedAt > stats.NewestAt {
			stats.NewestAt = entry.QuarantinedAt
		}
	}
	if stats.Count > 0 {
		stats.MeanRiskLevel = riskSum / float64(stats.Count)
	}
	return stats
}

// #endregion stats

// #region cleanup

// CleanupExpired removes entries older than the quarantine horizon and
// returns how many were deleted. Safe to run concurrently with
// Quarantine and Release: deletion of an already-released entry counts as
// absent. Returns 0 when the registry is unreachable.
func (s *System) CleanupExpired(ctx context.Context) int {
	fields, err := s.registry.AllFields(ctx, registryHash)
	if err != nil {
		s.logger.Error("scan quarantine entries", "error", err)
		return 0
	}

	now := time.Now().UnixMilli()
	removed := 0
	for id, payload := range fields {
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			s.logger.Warn("skip corrupt quarantine entry", "pattern_id", id, "error", err)
			continue
		}
		if now-entry.QuarantinedAt <= MaxQuarantineDuration.Milliseconds() {
			continue
		}
		existed, err := s.registry.DeleteField(ctx, registryHash, id)
		if err != nil {
			s.logger.Error("delete expired quarantine entry", "pattern_id", id, "error", err)
			continue
		}
		if existed {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired quarantine entries removed", "count", removed)
	}
	return removed
}

// #endregion cleanup
