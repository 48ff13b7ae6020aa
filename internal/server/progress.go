package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

// Input types

// GetProgressInput - input for the progress series query
type GetProgressInput struct {
	User      string `json:"user,omitempty" jsonschema:"User id to query. Leave empty for the server's default user."`
	Mode      string `json:"mode" jsonschema:"Sport mode scoping the exercise corpus. Examples: lifting, basketball, football."`
	Query     string `json:"query" jsonschema:"Free-text exercise search, matched against the names the user has actually logged. Example: 'bench' resolves to 'bench press'."`
	Metric    string `json:"metric" jsonschema:"Metric to aggregate. Valid values: reps, weight, reps_x_weight, attempted, made, percentage, distance, time_min, avg_time_sec, completed, points."`
	RangeDays int    `json:"range_days,omitempty" jsonschema:"Day range to bucket. Supported values: 7, 30, 90, 180, 360. Other values fall back to 7 and are flagged in the response. Default: 7."`
	Fill      string `json:"fill,omitempty" jsonschema:"Bucket fill mode: 'sparse' omits empty buckets (default), 'zero' keeps them with value 0."`
}

// Output types

type GetProgressOutput struct {
	Mode          string        `json:"mode"`
	Query         string        `json:"query"`
	Metric        string        `json:"metric"`
	RangeDays     int           `json:"range_days"`
	RangeFallback bool          `json:"range_fallback,omitempty"`
	NoMatch       bool          `json:"no_match,omitempty"`
	Resolved      []string      `json:"resolved,omitempty"`
	CanonicalKind string        `json:"canonical_kind,omitempty"`
	Series        []SeriesPoint `json:"series"`
	Scale         *GraphScale   `json:"scale,omitempty"`
}

type SeriesPoint struct {
	Index int     `json:"index"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

type GraphScale struct {
	DisplayMin float64    `json:"display_min"`
	DisplayMax float64    `json:"display_max"`
	Ticks      [6]float64 `json:"ticks"`
}

// registerProgressTools registers the progress series tool
func (s *Server) registerProgressTools() {
	logging.Debug("Registering tool", "name", "get_progress")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_progress",
		Description: `Build a time-bucketed progress series for an exercise, with chart-ready scaling.

Use when:
- User asks "How is my bench press trending?" or "Show my free throw percentage over 90 days"
- User wants a numeric trend for any logged exercise and metric

Parameters:
- mode (string): Sport mode scoping the search (lifting, basketball, ...). Required.
- query (string): Free-text exercise name; fuzzy-matched against what the user has logged. Required.
- metric (string): One of reps, weight, reps_x_weight, attempted, made, percentage, distance, time_min, avg_time_sec, completed, points. Required.
- range_days (integer): 7, 30, 90, 180, or 360. Default 7.
- fill (string): "sparse" (default) or "zero".

Returns: The resolved exercise names, their canonical kind, the bucketed series (oldest bucket first, per-bucket mean of the metric), and display scaling (padded min/max plus 6 tick values). An empty series with no_match=true means the query resolved nothing; an empty series otherwise means no data in range. Both are normal empty states, not errors.

Example: {"mode": "lifting", "query": "bench", "metric": "reps_x_weight", "range_days": 90}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Progress Series",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getProgress)
}

// getProgress resolves a query and aggregates its metric into buckets
func (s *Server) getProgress(ctx context.Context, req *mcp.CallToolRequest, input GetProgressInput) (*mcp.CallToolResult, GetProgressOutput, error) {
	logging.Info("MCP tool call", "tool", "get_progress",
		"mode", input.Mode, "query", input.Query, "metric", input.Metric, "range_days", input.RangeDays)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_progress", "input", logging.ToJSON(input))
	}

	if input.Mode == "" {
		return nil, GetProgressOutput{}, NewInvalidInputError("mode is required")
	}
	if input.Query == "" {
		return nil, GetProgressOutput{}, NewInvalidInputError("query is required")
	}

	metric := progress.Metric(input.Metric)
	if !metric.Valid() {
		return nil, GetProgressOutput{}, NewInvalidInputErrorWithDetails(
			"unknown metric", fmt.Sprintf("metric=%q", input.Metric))
	}

	fill := progress.FillSparse
	switch input.Fill {
	case "", "sparse":
	case "zero":
		fill = progress.FillZero
	default:
		return nil, GetProgressOutput{}, NewInvalidInputErrorWithDetails(
			"unknown fill mode", fmt.Sprintf("fill=%q", input.Fill))
	}

	rangeDays := input.RangeDays
	if rangeDays == 0 {
		rangeDays = 7
	}

	result, err := s.store.QueryProgress(ctx, store.ProgressQuery{
		UserID:    s.user(input.User),
		Mode:      input.Mode,
		Query:     input.Query,
		Metric:    metric,
		RangeDays: rangeDays,
		Fill:      fill,
	})
	if err != nil {
		if errors.Is(err, progress.ErrSuperseded) {
			return nil, GetProgressOutput{}, NewSupersededError()
		}
		logging.Error("getProgress failed", "error", err)
		return nil, GetProgressOutput{}, NewDatabaseError(err)
	}

	output := GetProgressOutput{
		Mode:          input.Mode,
		Query:         input.Query,
		Metric:        string(metric),
		RangeDays:     result.Plan.RangeDays,
		RangeFallback: result.RangeFallback,
		NoMatch:       result.NoMatch,
		Resolved:      result.Resolved,
		CanonicalKind: string(result.CanonicalKind),
		Series:        convertSeries(result.Series),
	}
	if result.Scale != nil {
		output.Scale = &GraphScale{
			DisplayMin: result.Scale.DisplayMin,
			DisplayMax: result.Scale.DisplayMax,
			Ticks:      result.Scale.Ticks,
		}
	}

	logging.Info("MCP tool completed", "tool", "get_progress",
		"resolved", len(result.Resolved), "points", len(result.Series), "no_match", result.NoMatch)
	if logging.IsTraceEnabled() {
		logging.Debug("MCP response", "tool", "get_progress", "output", logging.ToJSON(output))
	}
	return nil, output, nil
}

func convertSeries(series progress.Series) []SeriesPoint {
	points := make([]SeriesPoint, len(series))
	for i, p := range series {
		points[i] = SeriesPoint{
			Index: p.Index,
			Start: p.Start.Format(time.DateOnly),
			End:   p.End.Format(time.DateOnly),
			Value: p.Value,
			Count: p.Count,
		}
	}
	return points
}
