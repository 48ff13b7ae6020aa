package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

// ptr returns a pointer to the given value - useful for optional fields in structs
func ptr[T any](v T) *T {
	return &v
}

// Store defines the service surface the MCP tools are built on.
type Store interface {
	QueryProgress(ctx context.Context, q store.ProgressQuery) (store.ProgressResult, error)
	QueryStreak(ctx context.Context, userID, kind string) (progress.StreakState, error)
	SearchExercises(ctx context.Context, userID, mode, query string) (store.SearchResult, error)
	ExerciseCorpus(ctx context.Context, userID, mode string) ([]progress.CorpusEntry, error)
	LogPerformance(ctx context.Context, p store.LogParams) (store.LogResult, error)
}

// Server wraps the MCP server and the progress service.
type Server struct {
	mcp         *mcp.Server
	store       Store
	defaultUser string
}

// MCPServer returns the underlying MCP server (for use with HTTP/SSE transport)
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// New creates a new MCP server exposing progress and streak tools.
// defaultUser is the user id assumed when a tool call does not name one.
func New(st Store, defaultUser string) *Server {
	logging.Info("MCP server initializing", "name", "athlog-mcp", "version", "1.0.0")

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "athlog-mcp",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		mcp:         mcpServer,
		store:       st,
		defaultUser: defaultUser,
	}

	logging.Debug("Registering MCP tools")
	s.registerProgressTools()
	s.registerStreakTools()
	s.registerExerciseTools()

	logging.Debug("Registering MCP resources")
	s.registerResources()

	logging.Debug("Registering MCP prompts")
	s.registerPrompts()

	logging.Info("MCP server initialized", "tools_registered", 4, "resources_registered", 2, "prompts_registered", 2)
	return s
}

// Run starts the MCP server over stdio transport
func (s *Server) Run(ctx context.Context) error {
	logging.Info("MCP server starting")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// user resolves the effective user id for a tool call.
func (s *Server) user(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultUser
}
