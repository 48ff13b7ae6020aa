package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
)

// registerPrompts registers all MCP prompts for the server
func (s *Server) registerPrompts() {
	logging.Debug("Registering MCP prompts")

	// Trend check prompt
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "trend_check",
		Description: "Analyze the trend of one exercise and metric over a day range",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "mode",
				Description: "Sport mode scoping the exercise (e.g., 'lifting', 'basketball')",
				Required:    true,
			},
			{
				Name:        "exercise",
				Description: "Exercise to analyze, as the user calls it",
				Required:    true,
			},
			{
				Name:        "metric",
				Description: "Metric to trend: reps, weight, reps_x_weight, percentage, distance, time_min, avg_time_sec, points",
				Required:    false,
			},
			{
				Name:        "range_days",
				Description: "Day range: 7, 30, 90, 180, or 360",
				Required:    false,
			},
		},
	}, s.trendCheckPrompt)

	// Consistency check prompt
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "consistency_check",
		Description: "Review logging streaks and training consistency across activity kinds",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "kind",
				Description: "Activity kind to focus on: 'workout', 'practice', or 'game'. Leave empty for all.",
				Required:    false,
			},
		},
	}, s.consistencyCheckPrompt)

	logging.Debug("MCP prompts registered", "count", 2)
}

// trendCheckPrompt generates a prompt for single-exercise trend analysis
func (s *Server) trendCheckPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	mode := ""
	exercise := ""
	metric := "reps"
	rangeDays := "90"

	if req.Params.Arguments != nil {
		if m, ok := req.Params.Arguments["mode"]; ok {
			mode = m
		}
		if e, ok := req.Params.Arguments["exercise"]; ok {
			exercise = e
		}
		if m, ok := req.Params.Arguments["metric"]; ok && m != "" {
			metric = m
		}
		if r, ok := req.Params.Arguments["range_days"]; ok && r != "" {
			rangeDays = r
		}
	}

	logging.Info("MCP prompt requested", "prompt", "trend_check",
		"mode", mode, "exercise", exercise, "metric", metric, "range_days", rangeDays)

	promptText := fmt.Sprintf(`Please analyze the trend of my %s (%s mode), focusing on %s over the last %s days.

Use the following tools to gather data:
1. **search_exercises** with mode=%q and query=%q to confirm which logged exercises the name resolves to
2. **get_progress** with mode=%q, query=%q, metric=%q, range_days=%s for the bucketed series

Then provide:
- **Direction**: Is the metric rising, flat, or falling across the buckets?
- **Magnitude**: How large is the change from the oldest bucket to the newest?
- **Gaps**: Point out buckets with no data and what that says about consistency
- **Caveats**: Note if the query resolved to several different exercises

Use the actual bucket values from the tools; do not estimate.`,
		exercise, mode, metric, rangeDays,
		mode, exercise, mode, exercise, metric, rangeDays)

	return &mcp.GetPromptResult{
		Description: "Exercise trend analysis prompt",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}

// consistencyCheckPrompt generates a prompt for streak and consistency review
func (s *Server) consistencyCheckPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	kind := ""
	if req.Params.Arguments != nil {
		if k, ok := req.Params.Arguments["kind"]; ok {
			kind = k
		}
	}

	logging.Info("MCP prompt requested", "prompt", "consistency_check", "kind", kind)

	scope := "every activity kind (workouts, practices, and games)"
	toolArgs := "{}"
	if kind != "" {
		scope = kind + "s"
		toolArgs = fmt.Sprintf(`{"kind": %q}`, kind)
	}

	promptText := fmt.Sprintf(`Please review my training consistency for %s.

Use the following tools to gather data:
1. **get_streaks** with %s for current streaks and lifetime totals

Then provide:
- **Current Streaks**: How many consecutive days I've logged, per kind
- **Standing**: How the streak compares to my lifetime totals
- **Risk**: Whether any streak is about to lapse (nothing logged today yet)
- **Encouragement**: One concrete, specific suggestion to keep the streak going

Be concise and use the actual numbers from the tools.`, scope, toolArgs)

	return &mcp.GetPromptResult{
		Description: "Training consistency review prompt",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
