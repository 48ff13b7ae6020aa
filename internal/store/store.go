// Package store is the effectful shell around the pure progress engine: it
// owns the fetch contracts, composes resolve -> plan -> fetch -> aggregate ->
// scale, and keeps all I/O out of the engine itself.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/athlog/athlog-mcp/internal/db"
	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/progress"
)

// recentActivityLimit bounds how many activity dates feed a streak walk.
const recentActivityLimit = 30

// Querier is the database surface the service depends on.
type Querier interface {
	ListRecordsInRange(ctx context.Context, arg db.ListRecordsInRangeParams) ([]db.PerformanceRecord, error)
	ListExerciseCorpus(ctx context.Context, arg db.ListExerciseCorpusParams) ([]db.CorpusEntry, error)
	ListRecentActivityDates(ctx context.Context, arg db.ListRecentActivityDatesParams) ([]time.Time, error)
	CountActivityRows(ctx context.Context, arg db.CountActivityRowsParams) (int64, error)
	InsertPerformanceRecord(ctx context.Context, arg db.InsertPerformanceRecordParams) error
	InsertActivityLog(ctx context.Context, arg db.InsertActivityLogParams) error
}

// ActivityKinds are the independent streak domains; they are never mixed.
var ActivityKinds = []string{"workout", "practice", "game"}

// ValidActivityKind reports whether kind names a streak domain.
func ValidActivityKind(kind string) bool {
	for _, k := range ActivityKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Service composes the query layer with the progress engine.
type Service struct {
	queries  Querier
	dispatch progress.Dispatcher
	now      func() time.Time
}

// NewService creates a Service over a query layer.
func NewService(queries Querier) *Service {
	return &Service{
		queries: queries,
		now:     time.Now,
	}
}

// ProgressQuery is one (user, mode, query, metric, range) request.
type ProgressQuery struct {
	UserID    string
	Mode      string
	Query     string
	Metric    progress.Metric
	RangeDays int
	Fill      progress.FillMode
}

// ProgressResult is the engine's full answer for one query. Scale is nil
// when the series has nothing to display. NoMatch and an empty Series are
// soft outcomes, distinguished only for diagnostics.
type ProgressResult struct {
	Series        progress.Series
	Scale         *progress.Scale
	Resolved      []string
	CanonicalKind progress.ExerciseKind
	Plan          progress.Plan
	RangeFallback bool
	NoMatch       bool
}

// QueryProgress runs one fetch-and-compute pass. Overlapping passes follow
// last-request-wins: a pass superseded by a newer call returns
// progress.ErrSuperseded and its result must be discarded. Storage errors
// propagate verbatim; "no match" and "no data" come back as soft empty
// results.
func (s *Service) QueryProgress(ctx context.Context, q ProgressQuery) (ProgressResult, error) {
	ctx, current := s.dispatch.Begin(ctx)

	plan, err := progress.PlanFor(q.RangeDays)
	fallback := false
	if err != nil {
		if !errors.Is(err, progress.ErrInvalidRange) {
			return ProgressResult{}, err
		}
		// Historical behavior: unrecognized ranges degrade to the 7-day
		// plan. Surfaced in the result so callers can tell.
		logging.Warn("invalid day range, using 7-day plan", "range_days", q.RangeDays)
		plan = progress.PlanOrDefault(q.RangeDays)
		fallback = true
	}

	result := ProgressResult{Plan: plan, RangeFallback: fallback}

	corpus, err := s.queries.ListExerciseCorpus(ctx, db.ListExerciseCorpusParams{
		UserID: q.UserID,
		Mode:   q.Mode,
	})
	if err != nil {
		return ProgressResult{}, fmt.Errorf("fetching exercise corpus: %w", err)
	}

	matches := progress.Resolve(q.Query, toEngineCorpus(corpus))
	if len(matches) == 0 {
		result.NoMatch = true
		if !current() {
			return ProgressResult{}, progress.ErrSuperseded
		}
		logging.Debug("query resolved no exercises", "query", q.Query, "mode", q.Mode)
		return result, nil
	}

	result.Resolved = progress.Names(matches)
	result.CanonicalKind, _ = progress.CanonicalKind(matches)

	today := progress.Midnight(s.now())
	rows, err := s.queries.ListRecordsInRange(ctx, db.ListRecordsInRangeParams{
		UserID: q.UserID,
		Mode:   q.Mode,
		Start:  today.AddDate(0, 0, -plan.TotalDays()),
		End:    today.AddDate(0, 0, -1),
	})
	if err != nil {
		return ProgressResult{}, fmt.Errorf("fetching candidate records: %w", err)
	}

	result.Series = progress.Aggregate(toEngineRecords(rows), result.Resolved, q.Metric, plan, today, q.Fill)

	scale, err := progress.ScaleSeries(result.Series)
	switch {
	case err == nil:
		result.Scale = &scale
	case errors.Is(err, progress.ErrNoDisplayableData):
		logging.Debug("no data in range", "query", q.Query, "resolved", result.Resolved, "range_days", plan.RangeDays)
	default:
		return ProgressResult{}, err
	}

	if !current() {
		return ProgressResult{}, progress.ErrSuperseded
	}
	return result, nil
}

// QueryStreak computes the streak summary for one activity kind.
func (s *Service) QueryStreak(ctx context.Context, userID, kind string) (progress.StreakState, error) {
	if !ValidActivityKind(kind) {
		return progress.StreakState{}, fmt.Errorf("unknown activity kind %q", kind)
	}

	dates, err := s.queries.ListRecentActivityDates(ctx, db.ListRecentActivityDatesParams{
		UserID: userID,
		Kind:   kind,
		Limit:  recentActivityLimit,
	})
	if err != nil {
		return progress.StreakState{}, fmt.Errorf("fetching activity dates: %w", err)
	}

	total, err := s.queries.CountActivityRows(ctx, db.CountActivityRowsParams{
		UserID: userID,
		Kind:   kind,
	})
	if err != nil {
		return progress.StreakState{}, fmt.Errorf("counting activities: %w", err)
	}

	return progress.ComputeStreak(dates, total, s.now()), nil
}

// SearchResult is a ranked exercise resolution for a query.
type SearchResult struct {
	Matches       []progress.Match
	CanonicalKind progress.ExerciseKind
	NoMatch       bool
}

// SearchExercises resolves a free-text query against the user's corpus
// without aggregating anything.
func (s *Service) SearchExercises(ctx context.Context, userID, mode, query string) (SearchResult, error) {
	corpus, err := s.queries.ListExerciseCorpus(ctx, db.ListExerciseCorpusParams{
		UserID: userID,
		Mode:   mode,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("fetching exercise corpus: %w", err)
	}

	matches := progress.Resolve(query, toEngineCorpus(corpus))
	if len(matches) == 0 {
		return SearchResult{NoMatch: true}, nil
	}
	kind, _ := progress.CanonicalKind(matches)
	return SearchResult{Matches: matches, CanonicalKind: kind}, nil
}

// ExerciseCorpus lists everything the user has logged in a mode.
func (s *Service) ExerciseCorpus(ctx context.Context, userID, mode string) ([]progress.CorpusEntry, error) {
	corpus, err := s.queries.ListExerciseCorpus(ctx, db.ListExerciseCorpusParams{
		UserID: userID,
		Mode:   mode,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching exercise corpus: %w", err)
	}
	return toEngineCorpus(corpus), nil
}

// LogParams carries one performance entry to store. Nil numeric fields are
// stored as NULL, preserving the absent-vs-zero distinction.
type LogParams struct {
	UserID       string
	SessionID    string
	Mode         string
	Exercise     string
	ExerciseKind progress.ExerciseKind
	ActivityKind string
	PerformedAt  time.Time

	Reps       *float64
	Weight     *float64
	Attempted  *float64
	Made       *float64
	Distance   *float64
	TimeMin    *float64
	AvgTimeSec *float64
	Points     *float64
	Completed  bool
}

// LogResult identifies a stored record and the session it was attached to.
type LogResult struct {
	RecordID  string
	SessionID string
}

// LogPerformance stores a record and its streak-tracking activity row.
func (s *Service) LogPerformance(ctx context.Context, p LogParams) (LogResult, error) {
	if p.Exercise == "" {
		return LogResult{}, fmt.Errorf("exercise name is required")
	}
	if !ValidActivityKind(p.ActivityKind) {
		return LogResult{}, fmt.Errorf("unknown activity kind %q", p.ActivityKind)
	}
	if p.PerformedAt.IsZero() {
		p.PerformedAt = progress.Midnight(s.now())
	}
	if p.SessionID == "" {
		p.SessionID = uuid.NewString()
	}

	recordID := uuid.NewString()
	err := s.queries.InsertPerformanceRecord(ctx, db.InsertPerformanceRecordParams{
		ID:           recordID,
		UserID:       p.UserID,
		SessionID:    p.SessionID,
		Mode:         p.Mode,
		ExerciseName: p.Exercise,
		ExerciseKind: string(p.ExerciseKind),
		PerformedAt:  p.PerformedAt,
		Reps:         toNullFloat(p.Reps),
		Weight:       toNullFloat(p.Weight),
		Attempted:    toNullFloat(p.Attempted),
		Made:         toNullFloat(p.Made),
		Distance:     toNullFloat(p.Distance),
		TimeMin:      toNullFloat(p.TimeMin),
		AvgTimeSec:   toNullFloat(p.AvgTimeSec),
		Points:       toNullFloat(p.Points),
		Completed:    p.Completed,
	})
	if err != nil {
		return LogResult{}, err
	}

	err = s.queries.InsertActivityLog(ctx, db.InsertActivityLogParams{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		Kind:        p.ActivityKind,
		PerformedAt: p.PerformedAt,
	})
	if err != nil {
		return LogResult{}, err
	}

	logging.Debug("performance logged",
		"record_id", recordID, "user", p.UserID, "exercise", p.Exercise, "mode", p.Mode)
	return LogResult{RecordID: recordID, SessionID: p.SessionID}, nil
}

func toEngineCorpus(entries []db.CorpusEntry) []progress.CorpusEntry {
	corpus := make([]progress.CorpusEntry, len(entries))
	for i, e := range entries {
		corpus[i] = progress.CorpusEntry{
			Name: e.ExerciseName,
			Kind: progress.ExerciseKind(e.ExerciseKind),
		}
	}
	return corpus
}

func toEngineRecords(rows []db.PerformanceRecord) []progress.Record {
	records := make([]progress.Record, len(rows))
	for i, r := range rows {
		records[i] = progress.Record{
			SessionID:   r.SessionID,
			Exercise:    r.ExerciseName,
			Kind:        progress.ExerciseKind(r.ExerciseKind),
			PerformedAt: r.PerformedAt,
			Reps:        fromNullFloat(r.Reps),
			Weight:      fromNullFloat(r.Weight),
			Attempted:   fromNullFloat(r.Attempted),
			Made:        fromNullFloat(r.Made),
			Distance:    fromNullFloat(r.Distance),
			TimeMin:     fromNullFloat(r.TimeMin),
			AvgTimeSec:  fromNullFloat(r.AvgTimeSec),
			Points:      fromNullFloat(r.Points),
			Completed:   r.Completed,
		}
	}
	return records
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
