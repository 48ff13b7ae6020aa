package db

import (
	"database/sql"
	"time"
)

// PerformanceRecord is one stored set/attempt row. Sparse numeric columns
// use sql.NullFloat64: an invalid value means the field does not apply to
// the row's kind, never a logged zero.
type PerformanceRecord struct {
	ID           string
	UserID       string
	SessionID    string
	Mode         string
	ExerciseName string
	ExerciseKind string
	PerformedAt  time.Time
	Reps         sql.NullFloat64
	Weight       sql.NullFloat64
	Attempted    sql.NullFloat64
	Made         sql.NullFloat64
	Distance     sql.NullFloat64
	TimeMin      sql.NullFloat64
	AvgTimeSec   sql.NullFloat64
	Points       sql.NullFloat64
	Completed    bool
	CreatedAt    time.Time
}

// CorpusEntry is one distinct exercise name a user has logged in a mode.
type CorpusEntry struct {
	ExerciseName string
	ExerciseKind string
}

// ActivityLog is one logged session for streak tracking.
type ActivityLog struct {
	ID          string
	UserID      string
	Kind        string
	PerformedAt time.Time
	CreatedAt   time.Time
}
