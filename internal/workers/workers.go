package workers

import (
	"context"
	"database/sql"
	"time"

	"github.com/athlog/athlog-mcp/internal/db"
	"github.com/athlog/athlog-mcp/internal/logging"
)

// StatsLogger periodically logs database statistics
type StatsLogger struct {
	queries  *db.Queries
	interval time.Duration
}

// NewStatsLogger creates a new stats logging worker
func NewStatsLogger(queries *db.Queries, interval time.Duration) *StatsLogger {
	return &StatsLogger{
		queries:  queries,
		interval: interval,
	}
}

// Run starts the stats logging worker
func (s *StatsLogger) Run(ctx context.Context) {
	log := logging.Logger
	log.Info().Dur("interval", s.interval).Msg("stats logger started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Log once on startup
	LogDatabaseStats(ctx, s.queries)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stats logger stopped")
			return
		case <-ticker.C:
			LogDatabaseStats(ctx, s.queries)
		}
	}
}

// LogDatabaseStats logs current database statistics
func LogDatabaseStats(ctx context.Context, queries *db.Queries) {
	log := logging.Logger

	count, err := queries.CountRecords(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count records")
		return
	}

	if count == 0 {
		log.Info().Int64("total_records", 0).Msg("database statistics")
		return
	}

	users, _ := queries.CountUsers(ctx)
	newestRaw, _ := queries.NewestRecordDate(ctx)
	oldestRaw, _ := queries.OldestRecordDate(ctx)

	newest := formatDate(newestRaw)
	oldest := formatDate(oldestRaw)

	log.Info().
		Int64("total_records", count).
		Int64("users", users).
		Str("newest_record", newest).
		Str("oldest_record", oldest).
		Msg("database statistics")
}

func formatDate(raw interface{}) string {
	if raw == nil {
		return "unknown"
	}
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case sql.NullTime:
		if v.Valid {
			return v.Time.Format(time.RFC3339)
		}
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return "unknown"
}
