package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/progress"
)

// importEntry is one record in a JSON import file.
type importEntry struct {
	UserID       string   `json:"user_id"`
	SessionID    string   `json:"session_id,omitempty"`
	Mode         string   `json:"mode"`
	Exercise     string   `json:"exercise"`
	ExerciseKind string   `json:"exercise_kind"`
	ActivityKind string   `json:"activity_kind"`
	PerformedAt  string   `json:"performed_at"` // YYYY-MM-DD
	Reps         *float64 `json:"reps,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Attempted    *float64 `json:"attempted,omitempty"`
	Made         *float64 `json:"made,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	TimeMin      *float64 `json:"time_min,omitempty"`
	AvgTimeSec   *float64 `json:"avg_time_sec,omitempty"`
	Points       *float64 `json:"points,omitempty"`
	Completed    bool     `json:"completed,omitempty"`
}

// ImportJSON loads a JSON array of performance entries, storing each one.
// It returns the number of entries imported; a malformed entry aborts the
// import with the index of the offender.
func (s *Service) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	var entries []importEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decoding import file: %w", err)
	}

	for i, e := range entries {
		performedAt, err := time.Parse("2006-01-02", e.PerformedAt)
		if err != nil {
			return i, fmt.Errorf("entry %d: parsing performed_at %q: %w", i, e.PerformedAt, err)
		}

		_, err = s.LogPerformance(ctx, LogParams{
			UserID:       e.UserID,
			SessionID:    e.SessionID,
			Mode:         e.Mode,
			Exercise:     e.Exercise,
			ExerciseKind: progress.ExerciseKind(e.ExerciseKind),
			ActivityKind: e.ActivityKind,
			PerformedAt:  performedAt,
			Reps:         e.Reps,
			Weight:       e.Weight,
			Attempted:    e.Attempted,
			Made:         e.Made,
			Distance:     e.Distance,
			TimeMin:      e.TimeMin,
			AvgTimeSec:   e.AvgTimeSec,
			Points:       e.Points,
			Completed:    e.Completed,
		})
		if err != nil {
			return i, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	logging.Info("import completed", "entries", len(entries))
	return len(entries), nil
}
