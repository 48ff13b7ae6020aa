package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/store"
)

// GetStreaksInput - input for the streak summary tool
type GetStreaksInput struct {
	User string `json:"user,omitempty" jsonschema:"User id to query. Leave empty for the server's default user."`
	Kind string `json:"kind,omitempty" jsonschema:"Activity kind to report: workout, practice, or game. Streak domains are independent and never mixed. Leave empty for all three."`
}

type GetStreaksOutput struct {
	Streaks []StreakSummary `json:"streaks"`
}

type StreakSummary struct {
	Kind   string `json:"kind"`
	Total  int64  `json:"total"`
	Streak int    `json:"streak"`
}

// registerStreakTools registers the streak summary tool
func (s *Server) registerStreakTools() {
	logging.Debug("Registering tool", "name", "get_streaks")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_streaks",
		Description: `Get consecutive-day streaks and lifetime totals per activity kind.

Use when:
- User asks "What's my workout streak?" or "How many days in a row have I practiced?"
- User wants lifetime counts of workouts, practices, or games

Parameters:
- kind (string): "workout", "practice", or "game". Leave empty for all three.

Returns: For each kind, the lifetime total and the current streak (consecutive days with at least one log, walking backward from today; a day not yet logged today does not break the streak). Streaks cap at 999.

Example: {"kind": "workout"} or {}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Streaks",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getStreaks)
}

// getStreaks reports streak state for one or all activity kinds
func (s *Server) getStreaks(ctx context.Context, req *mcp.CallToolRequest, input GetStreaksInput) (*mcp.CallToolResult, GetStreaksOutput, error) {
	logging.Info("MCP tool call", "tool", "get_streaks", "kind", input.Kind)

	kinds := store.ActivityKinds
	if input.Kind != "" {
		if !store.ValidActivityKind(input.Kind) {
			return nil, GetStreaksOutput{}, NewInvalidInputErrorWithDetails(
				"unknown activity kind", "kind="+input.Kind)
		}
		kinds = []string{input.Kind}
	}

	user := s.user(input.User)
	output := GetStreaksOutput{Streaks: make([]StreakSummary, 0, len(kinds))}
	for _, kind := range kinds {
		state, err := s.store.QueryStreak(ctx, user, kind)
		if err != nil {
			logging.Error("getStreaks failed", "kind", kind, "error", err)
			return nil, GetStreaksOutput{}, NewDatabaseError(err)
		}
		output.Streaks = append(output.Streaks, StreakSummary{
			Kind:   kind,
			Total:  state.Total,
			Streak: state.Streak,
		})
	}

	logging.Info("MCP tool completed", "tool", "get_streaks", "kinds", len(kinds))
	return nil, output, nil
}
