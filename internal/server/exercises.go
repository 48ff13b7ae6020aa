package server

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

// SearchExercisesInput - input for the exercise resolution tool
type SearchExercisesInput struct {
	User  string `json:"user,omitempty" jsonschema:"User id to query. Leave empty for the server's default user."`
	Mode  string `json:"mode" jsonschema:"Sport mode scoping the corpus. Examples: lifting, basketball."`
	Query string `json:"query" jsonschema:"Free-text exercise search to resolve against the user's logged names."`
}

type SearchExercisesOutput struct {
	Query         string          `json:"query"`
	NoMatch       bool            `json:"no_match,omitempty"`
	CanonicalKind string          `json:"canonical_kind,omitempty"`
	Matches       []ExerciseMatch `json:"matches"`
}

type ExerciseMatch struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
}

// LogPerformanceInput - input for storing one performance entry
type LogPerformanceInput struct {
	User         string   `json:"user,omitempty" jsonschema:"User id to log for. Leave empty for the server's default user."`
	Mode         string   `json:"mode" jsonschema:"Sport mode the entry belongs to."`
	Exercise     string   `json:"exercise" jsonschema:"Exercise name as the user calls it."`
	ExerciseKind string   `json:"exercise_kind,omitempty" jsonschema:"Kind of entry: exercise, shooting, drill, sprint, hit, field, rally. Default: exercise."`
	ActivityKind string   `json:"activity_kind,omitempty" jsonschema:"Streak domain the session counts toward: workout, practice, or game. Default: workout."`
	SessionID    string   `json:"session_id,omitempty" jsonschema:"Session to attach the entry to; a new session id is generated when empty."`
	PerformedAt  string   `json:"performed_at,omitempty" jsonschema:"Calendar date YYYY-MM-DD. Default: today."`
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

type LogPerformanceOutput struct {
	RecordID  string `json:"record_id"`
	SessionID string `json:"session_id,omitempty"`
}

// registerExerciseTools registers exercise search and logging tools
func (s *Server) registerExerciseTools() {
	logging.Debug("Registering tool", "name", "search_exercises")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "search_exercises",
		Description: `Resolve a free-text exercise search against what the user has actually logged.

Use when:
- User asks "What did I call that shoulder exercise?" or wants to check what a query would match
- A get_progress call returned no_match and you want to see the corpus candidates

Parameters:
- mode (string): Sport mode scoping the corpus. Required.
- query (string): Free-text search. Required.

Returns: Ranked matching exercise names with similarity scores, plus the canonical kind decided by plurality vote across the matches. no_match=true with an empty list means nothing matched.

Example: {"mode": "lifting", "query": "bench"}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Search Exercises",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.searchExercises)

	logging.Debug("Registering tool", "name", "log_performance")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "log_performance",
		Description: `Store one performance entry (a set, attempt, drill, or similar) for a user.

Use when:
- User says "Log 3x8 bench at 185" or "I made 15 of 20 free throws today"

Parameters:
- mode (string): Sport mode. Required.
- exercise (string): Exercise name. Required.
- exercise_kind (string): exercise, shooting, drill, sprint, hit, field, or rally. Default "exercise".
- activity_kind (string): workout, practice, or game. Default "workout".
- performed_at (string): Date YYYY-MM-DD, default today.
- Numeric fields (all optional, omit what does not apply): reps, weight, attempted, made, distance, time_min, avg_time_sec, points; completed (boolean).

Returns: The new record id and the session id it was attached to.

Example: {"mode": "lifting", "exercise": "bench press", "reps": 8, "weight": 185}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Log Performance",
			ReadOnlyHint:    false,
			IdempotentHint:  false,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.logPerformance)
}

// searchExercises resolves a query without aggregating anything
func (s *Server) searchExercises(ctx context.Context, req *mcp.CallToolRequest, input SearchExercisesInput) (*mcp.CallToolResult, SearchExercisesOutput, error) {
	logging.Info("MCP tool call", "tool", "search_exercises", "mode", input.Mode, "query", input.Query)

	if input.Mode == "" {
		return nil, SearchExercisesOutput{}, NewInvalidInputError("mode is required")
	}
	if input.Query == "" {
		return nil, SearchExercisesOutput{}, NewInvalidInputError("query is required")
	}

	result, err := s.store.SearchExercises(ctx, s.user(input.User), input.Mode, input.Query)
	if err != nil {
		logging.Error("searchExercises failed", "error", err)
		return nil, SearchExercisesOutput{}, NewDatabaseError(err)
	}

	output := SearchExercisesOutput{
		Query:         input.Query,
		NoMatch:       result.NoMatch,
		CanonicalKind: string(result.CanonicalKind),
		Matches:       make([]ExerciseMatch, 0, len(result.Matches)),
	}
	for _, m := range result.Matches {
		output.Matches = append(output.Matches, ExerciseMatch{
			Name:  m.Name,
			Kind:  string(m.Kind),
			Score: m.Score,
		})
	}

	logging.Info("MCP tool completed", "tool", "search_exercises", "matches", len(output.Matches))
	return nil, output, nil
}

// logPerformance stores one entry and its streak activity row
func (s *Server) logPerformance(ctx context.Context, req *mcp.CallToolRequest, input LogPerformanceInput) (*mcp.CallToolResult, LogPerformanceOutput, error) {
	logging.Info("MCP tool call", "tool", "log_performance",
		"mode", input.Mode, "exercise", input.Exercise)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "log_performance", "input", logging.ToJSON(input))
	}

	if input.Mode == "" {
		return nil, LogPerformanceOutput{}, NewInvalidInputError("mode is required")
	}
	if input.Exercise == "" {
		return nil, LogPerformanceOutput{}, NewInvalidInputError("exercise is required")
	}

	exerciseKind := input.ExerciseKind
	if exerciseKind == "" {
		exerciseKind = string(progress.KindExercise)
	}
	activityKind := input.ActivityKind
	if activityKind == "" {
		activityKind = "workout"
	}
	if !store.ValidActivityKind(activityKind) {
		return nil, LogPerformanceOutput{}, NewInvalidInputErrorWithDetails(
			"unknown activity kind", "activity_kind="+activityKind)
	}

	var performedAt time.Time
	if input.PerformedAt != "" {
		var err error
		performedAt, err = time.Parse(time.DateOnly, input.PerformedAt)
		if err != nil {
			return nil, LogPerformanceOutput{}, NewInvalidInputErrorWithDetails(
				"performed_at must be YYYY-MM-DD", fmt.Sprintf("performed_at=%q", input.PerformedAt))
		}
	}

	params := store.LogParams{
		UserID:       s.user(input.User),
		SessionID:    input.SessionID,
		Mode:         input.Mode,
		Exercise:     input.Exercise,
		ExerciseKind: progress.ExerciseKind(exerciseKind),
		ActivityKind: activityKind,
		PerformedAt:  performedAt,
		Reps:         input.Reps,
		Weight:       input.Weight,
		Attempted:    input.Attempted,
		Made:         input.Made,
		Distance:     input.Distance,
		TimeMin:      input.TimeMin,
		AvgTimeSec:   input.AvgTimeSec,
		Points:       input.Points,
		Completed:    input.Completed,
	}

	result, err := s.store.LogPerformance(ctx, params)
	if err != nil {
		logging.Error("logPerformance failed", "error", err)
		return nil, LogPerformanceOutput{}, NewDatabaseError(err)
	}

	logging.Info("MCP tool completed", "tool", "log_performance", "record_id", result.RecordID)
	return nil, LogPerformanceOutput{RecordID: result.RecordID, SessionID: result.SessionID}, nil
}
