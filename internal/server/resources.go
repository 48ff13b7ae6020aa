package server

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/store"
)

// registerResources registers all MCP resources for the server
func (s *Server) registerResources() {
	logging.Debug("Registering MCP resources")

	// Static resource: streak summary for all kinds
	s.mcp.AddResource(&mcp.Resource{
		URI:         "athlog://streaks/current",
		Name:        "current_streaks",
		Description: "Current consecutive-day streaks and lifetime totals for workouts, practices, and games",
		MIMEType:    "application/json",
	}, s.readCurrentStreaks)

	// Resource template: exercise corpus by mode
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "athlog://exercises/{mode}",
		Name:        "exercise_corpus",
		Description: "Every exercise name the user has logged in a sport mode, with its kind",
		MIMEType:    "application/json",
	}, s.readExerciseCorpus)

	logging.Debug("MCP resources registered", "count", 2)
}

// readCurrentStreaks returns the streak summary for every activity kind
func (s *Server) readCurrentStreaks(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "current_streaks")

	summaries := make([]StreakSummary, 0, len(store.ActivityKinds))
	for _, kind := range store.ActivityKinds {
		state, err := s.store.QueryStreak(ctx, s.defaultUser, kind)
		if err != nil {
			logging.Error("readCurrentStreaks failed", "kind", kind, "error", err)
			return nil, NewDatabaseError(err)
		}
		summaries = append(summaries, StreakSummary{
			Kind:   kind,
			Total:  state.Total,
			Streak: state.Streak,
		})
	}

	jsonData, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal streaks", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "athlog://streaks/current",
				MIMEType: "application/json",
				Text:     string(jsonData),
			},
		},
	}, nil
}

// readExerciseCorpus returns the logged exercise names for one sport mode
func (s *Server) readExerciseCorpus(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	mode := strings.TrimPrefix(uri, "athlog://exercises/")
	logging.Info("MCP resource read", "resource", "exercise_corpus", "mode", mode)

	if mode == "" || mode == uri {
		return nil, NewInvalidInputError("resource URI must name a sport mode")
	}

	corpus, err := s.store.ExerciseCorpus(ctx, s.defaultUser, mode)
	if err != nil {
		logging.Error("readExerciseCorpus failed", "error", err)
		return nil, NewDatabaseError(err)
	}

	type corpusEntry struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	entries := make([]corpusEntry, 0, len(corpus))
	for _, e := range corpus {
		entries = append(entries, corpusEntry{Name: e.Name, Kind: string(e.Kind)})
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal corpus", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonData),
			},
		},
	}, nil
}
