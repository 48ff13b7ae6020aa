// Package db is a hand-written query layer over the SQLite store. Dates are
// persisted as YYYY-MM-DD text; time-of-day never reaches the database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DBTX is the subset of database/sql both *sql.DB and *sql.Tx satisfy.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries bundles all database operations.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over a database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to an open transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ListRecordsInRangeParams scopes candidate records to a user, mode, and
// inclusive date range.
type ListRecordsInRangeParams struct {
	UserID string
	Mode   string
	Start  time.Time
	End    time.Time
}

const listRecordsInRange = `
SELECT id, user_id, session_id, mode, exercise_name, exercise_kind, performed_at,
       reps, weight, attempted, made, distance, time_min, avg_time_sec, points,
       completed, created_at
FROM performance_records
WHERE user_id = ? AND mode = ? AND performed_at >= ? AND performed_at <= ?
ORDER BY performed_at ASC, created_at ASC
`

// ListRecordsInRange returns the user's records for a mode inside the date
// range, oldest first. This implements the fetchCandidateRecords contract.
func (q *Queries) ListRecordsInRange(ctx context.Context, arg ListRecordsInRangeParams) ([]PerformanceRecord, error) {
	rows, err := q.db.QueryContext(ctx, listRecordsInRange,
		arg.UserID, arg.Mode, formatDate(arg.Start), formatDate(arg.End))
	if err != nil {
		return nil, fmt.Errorf("querying records in range: %w", err)
	}
	defer rows.Close()

	var records []PerformanceRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListExerciseCorpusParams scopes the corpus to a user and mode.
type ListExerciseCorpusParams struct {
	UserID string
	Mode   string
}

const listExerciseCorpus = `
SELECT exercise_name, exercise_kind
FROM performance_records
WHERE user_id = ? AND mode = ?
GROUP BY exercise_name, exercise_kind
ORDER BY MIN(created_at) ASC
`

// ListExerciseCorpus returns the distinct (name, kind) pairs the user has
// ever logged in a mode, in first-seen order.
func (q *Queries) ListExerciseCorpus(ctx context.Context, arg ListExerciseCorpusParams) ([]CorpusEntry, error) {
	rows, err := q.db.QueryContext(ctx, listExerciseCorpus, arg.UserID, arg.Mode)
	if err != nil {
		return nil, fmt.Errorf("querying exercise corpus: %w", err)
	}
	defer rows.Close()

	var corpus []CorpusEntry
	for rows.Next() {
		var e CorpusEntry
		if err := rows.Scan(&e.ExerciseName, &e.ExerciseKind); err != nil {
			return nil, fmt.Errorf("scanning corpus entry: %w", err)
		}
		corpus = append(corpus, e)
	}
	return corpus, rows.Err()
}

// ListRecentActivityDatesParams scopes activity dates to a user and kind.
type ListRecentActivityDatesParams struct {
	UserID string
	Kind   string
	Limit  int64
}

const listRecentActivityDates = `
SELECT DISTINCT performed_at
FROM activity_log
WHERE user_id = ? AND kind = ?
ORDER BY performed_at DESC
LIMIT ?
`

// ListRecentActivityDates returns the user's most recent distinct activity
// dates for a kind, newest first. This implements the
// fetchRecentActivityDates contract.
func (q *Queries) ListRecentActivityDates(ctx context.Context, arg ListRecentActivityDatesParams) ([]time.Time, error) {
	rows, err := q.db.QueryContext(ctx, listRecentActivityDates, arg.UserID, arg.Kind, arg.Limit)
	if err != nil {
		return nil, fmt.Errorf("querying activity dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning activity date: %w", err)
		}
		d, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// CountActivityRowsParams scopes the total count to a user and kind.
type CountActivityRowsParams struct {
	UserID string
	Kind   string
}

// CountActivityRows returns the all-time number of logged activities of a
// kind, the streak summary's total.
func (q *Queries) CountActivityRows(ctx context.Context, arg CountActivityRowsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_log WHERE user_id = ? AND kind = ?`,
		arg.UserID, arg.Kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting activity rows: %w", err)
	}
	return count, nil
}

// InsertPerformanceRecordParams carries one new record row.
type InsertPerformanceRecordParams struct {
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
}

const insertPerformanceRecord = `
INSERT INTO performance_records (
    id, user_id, session_id, mode, exercise_name, exercise_kind, performed_at,
    reps, weight, attempted, made, distance, time_min, avg_time_sec, points, completed
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertPerformanceRecord stores one logged set/attempt.
func (q *Queries) InsertPerformanceRecord(ctx context.Context, arg InsertPerformanceRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertPerformanceRecord,
		arg.ID, arg.UserID, arg.SessionID, arg.Mode, arg.ExerciseName,
		arg.ExerciseKind, formatDate(arg.PerformedAt),
		arg.Reps, arg.Weight, arg.Attempted, arg.Made, arg.Distance,
		arg.TimeMin, arg.AvgTimeSec, arg.Points, arg.Completed)
	if err != nil {
		return fmt.Errorf("inserting performance record: %w", err)
	}
	return nil
}

// InsertActivityLogParams carries one new activity row.
type InsertActivityLogParams struct {
	ID          string
	UserID      string
	Kind        string
	PerformedAt time.Time
}

// InsertActivityLog stores one logged session for streak tracking.
func (q *Queries) InsertActivityLog(ctx context.Context, arg InsertActivityLogParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, user_id, kind, performed_at) VALUES (?, ?, ?, ?)`,
		arg.ID, arg.UserID, arg.Kind, formatDate(arg.PerformedAt))
	if err != nil {
		return fmt.Errorf("inserting activity log: %w", err)
	}
	return nil
}

// CountRecords returns the total number of stored performance records.
func (q *Queries) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM performance_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// CountUsers returns the number of distinct users with stored records.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM performance_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// NewestRecordDate returns the most recent performed_at date, or nil when
// the table is empty.
func (q *Queries) NewestRecordDate(ctx context.Context) (interface{}, error) {
	var raw interface{}
	err := q.db.QueryRowContext(ctx, `SELECT MAX(performed_at) FROM performance_records`).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("finding newest record date: %w", err)
	}
	return raw, nil
}

// OldestRecordDate returns the earliest performed_at date, or nil when
// the table is empty.
func (q *Queries) OldestRecordDate(ctx context.Context) (interface{}, error) {
	var raw interface{}
	err := q.db.QueryRowContext(ctx, `SELECT MIN(performed_at) FROM performance_records`).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("finding oldest record date: %w", err)
	}
	return raw, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (PerformanceRecord, error) {
	var r PerformanceRecord
	var performedAt, createdAt string
	err := row.Scan(
		&r.ID, &r.UserID, &r.SessionID, &r.Mode, &r.ExerciseName,
		&r.ExerciseKind, &performedAt,
		&r.Reps, &r.Weight, &r.Attempted, &r.Made, &r.Distance,
		&r.TimeMin, &r.AvgTimeSec, &r.Points, &r.Completed, &createdAt)
	if err != nil {
		return PerformanceRecord{}, fmt.Errorf("scanning record: %w", err)
	}

	if r.PerformedAt, err = parseDate(performedAt); err != nil {
		return PerformanceRecord{}, err
	}
	// created_at carries a full timestamp
	if r.CreatedAt, err = time.Parse(time.DateTime, createdAt); err != nil {
		return PerformanceRecord{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return r, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
