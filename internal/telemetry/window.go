package telemetry

import "github.com/evoflux/decision-safety/internal/pattern"

// #region windows

// AppendPattern appends p to the history, evicting the oldest entries to
// keep at most limit. A limit <= 0 means unbounded.
func AppendPattern(history []pattern.Pattern, p pattern.Pattern, limit int) []pattern.Pattern {
	history = append(history, p)
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// AppendFeedback appends e to the history, evicting the oldest entries to
// keep at most limit. A limit <= 0 means unbounded.
func AppendFeedback(history []FeedbackEntry, e FeedbackEntry, limit int) []FeedbackEntry {
	history = append(history, e)
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// #endregion windows
