package server

import (
	"context"
	"errors"
	"testing"

	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

// mockStore implements the Store interface for testing. Each method returns
// the canned result, or failWith when set, and records the last arguments.
type mockStore struct {
	progressResult store.ProgressResult
	streakStates   map[string]progress.StreakState
	searchResult   store.SearchResult
	corpus         []progress.CorpusEntry
	logResult      store.LogResult
	failWith       error

	lastProgressQuery store.ProgressQuery
	lastStreakUser    string
	lastStreakKind    string
	lastLogParams     store.LogParams
}

func (m *mockStore) QueryProgress(ctx context.Context, q store.ProgressQuery) (store.ProgressResult, error) {
	m.lastProgressQuery = q
	if m.failWith != nil {
		return store.ProgressResult{}, m.failWith
	}
	return m.progressResult, nil
}

func (m *mockStore) QueryStreak(ctx context.Context, userID, kind string) (progress.StreakState, error) {
	m.lastStreakUser = userID
	m.lastStreakKind = kind
	if m.failWith != nil {
		return progress.StreakState{}, m.failWith
	}
	return m.streakStates[kind], nil
}

func (m *mockStore) SearchExercises(ctx context.Context, userID, mode, query string) (store.SearchResult, error) {
	if m.failWith != nil {
		return store.SearchResult{}, m.failWith
	}
	return m.searchResult, nil
}

func (m *mockStore) ExerciseCorpus(ctx context.Context, userID, mode string) ([]progress.CorpusEntry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.corpus, nil
}

func (m *mockStore) LogPerformance(ctx context.Context, p store.LogParams) (store.LogResult, error) {
	m.lastLogParams = p
	if m.failWith != nil {
		return store.LogResult{}, m.failWith
	}
	return m.logResult, nil
}

func newTestServer(m *mockStore) *Server {
	return New(m, "default")
}

func TestNew(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockStore{})
	if srv == nil {
		t.Fatal("expected non-nil server")
	}
	if srv.MCPServer() == nil {
		t.Fatal("expected non-nil MCP server")
	}
}

func TestUserDefaulting(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockStore{})

	if got := srv.user(""); got != "default" {
		t.Errorf("user(\"\") = %q, want %q", got, "default")
	}
	if got := srv.user("alice"); got != "alice" {
		t.Errorf("user(\"alice\") = %q, want %q", got, "alice")
	}
}

// toolError asserts err is a ToolError with the given code
func toolError(t *testing.T, err error, code ErrorCode) *ToolError {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if te.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, te.Code, te)
	}
	return te
}

func TestToolErrorFormatting(t *testing.T) {
	t.Parallel()

	plain := NewInvalidInputError("mode is required")
	if plain.Error() != "INVALID_INPUT: mode is required" {
		t.Errorf("unexpected error string: %q", plain.Error())
	}

	detailed := NewInvalidInputErrorWithDetails("unknown metric", `metric="bogus"`)
	if detailed.Error() != `INVALID_INPUT: unknown metric (metric="bogus")` {
		t.Errorf("unexpected error string: %q", detailed.Error())
	}
}
