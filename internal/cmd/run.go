package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/athlog/athlog-mcp/internal/db"
	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/athlog/athlog-mcp/internal/server"
	"github.com/athlog/athlog-mcp/internal/store"
	"github.com/athlog/athlog-mcp/internal/workers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	_ "modernc.org/sqlite"
)

// RuntimeConfig holds all runtime configuration from CLI flags and the
// optional config file
type RuntimeConfig struct {
	DBPath        string
	MCPPort       int
	DefaultUser   string
	StatsInterval time.Duration
	ImportPath    string
}

// Run is the main entry point for the unified run mode
func Run(cfg *RuntimeConfig) error {
	log := logging.Logger

	log.Info().
		Str("db_path", cfg.DBPath).
		Int("mcp_port", cfg.MCPPort).
		Str("default_user", cfg.DefaultUser).
		Dur("stats_interval", cfg.StatsInterval).
		Msg("starting athlog-mcp")

	// Set up context for shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Open database with SQLite concurrency settings
	log.Info().Str("path", cfg.DBPath).Msg("opening database")
	sqlDB, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	// Configure SQLite for concurrent access
	if err := configureSQLite(sqlDB); err != nil {
		return fmt.Errorf("configuring SQLite: %w", err)
	}

	// Check for database lock (another instance running)
	if err := checkDatabaseLock(sqlDB); err != nil {
		return err
	}

	// Run SQL migrations using goose
	gooseProvider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, os.DirFS("sql/migrations"))
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := gooseProvider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for _, r := range results {
		log.Debug().Int64("version", r.Source.Version).Str("path", r.Source.Path).Msg("migration applied")
	}
	log.Debug().Int("applied", len(results)).Msg("database migrations completed")

	// Create queries and the progress service
	queries := db.New(sqlDB)
	svc := store.NewService(queries)

	// Log database statistics
	workers.LogDatabaseStats(ctx, queries)

	// Seed the database from a JSON import file when requested
	if cfg.ImportPath != "" {
		if err := importEntries(ctx, svc, cfg.ImportPath); err != nil {
			return fmt.Errorf("importing %s: %w", cfg.ImportPath, err)
		}
		workers.LogDatabaseStats(ctx, queries)
	}

	// Start background workers with errgroup for graceful shutdown
	g, gCtx := errgroup.WithContext(ctx)

	statsLogger := workers.NewStatsLogger(queries, cfg.StatsInterval)
	g.Go(func() error {
		statsLogger.Run(gCtx)
		return nil
	})

	// Start MCP server
	srv := server.New(svc, cfg.DefaultUser)

	var serverErr error
	if cfg.MCPPort > 0 {
		serverErr = runHTTPServer(ctx, srv.MCPServer(), cfg.MCPPort)
	} else {
		log.Info().Msg("MCP server running via stdio")
		serverErr = srv.Run(ctx)
	}

	// Wait for workers to finish
	log.Info().Msg("waiting for workers to shut down")
	cancel()
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("worker error during shutdown")
	} else {
		log.Info().Msg("all workers shut down gracefully")
	}

	return serverErr
}

// importEntries loads performance entries from a JSON file at startup
func importEntries(ctx context.Context, svc *store.Service, path string) error {
	log := logging.Logger
	log.Info().Str("path", path).Msg("importing performance entries")

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	count, err := svc.ImportJSON(ctx, f)
	if err != nil {
		return err
	}

	log.Info().Int("entries", count).Msg("import finished")
	return nil
}

// runHTTPServer runs the MCP server over HTTP/SSE
func runHTTPServer(ctx context.Context, mcpServer *mcp.Server, port int) error {
	log := logging.Logger

	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", addr).
			Str("endpoint", fmt.Sprintf("http://localhost%s", addr)).
			Msg("MCP server running via HTTP/SSE")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		return httpServer.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// configureSQLite sets up SQLite for concurrent access
func configureSQLite(sqlDB *sql.DB) error {
	log := logging.Logger

	// Enable WAL mode for better concurrency (allows concurrent reads)
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("setting WAL mode: %w", err)
	}

	// Set busy timeout to 5 seconds (wait instead of failing immediately)
	if _, err := sqlDB.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	// Synchronous mode - NORMAL is safe with WAL and faster than FULL
	if _, err := sqlDB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("setting synchronous mode: %w", err)
	}

	// Limit connection pool - SQLite works best with limited connections
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	log.Debug().
		Str("journal_mode", "WAL").
		Str("busy_timeout", "5000ms").
		Msg("SQLite configured")
	return nil
}

// checkDatabaseLock verifies no other process has the database locked
func checkDatabaseLock(sqlDB *sql.DB) error {
	log := logging.Logger

	// Try to acquire an exclusive lock with immediate timeout
	// This will fail if another process has the database open
	_, err := sqlDB.Exec("PRAGMA locking_mode=EXCLUSIVE")
	if err != nil {
		return fmt.Errorf("another instance may be running (database locked): %w", err)
	}

	// Try to start a transaction to actually acquire the lock
	_, err = sqlDB.Exec("BEGIN EXCLUSIVE")
	if err != nil {
		if strings.Contains(err.Error(), "locked") || strings.Contains(err.Error(), "busy") {
			return fmt.Errorf("another instance is already running (database is locked)")
		}
		return fmt.Errorf("checking database lock: %w", err)
	}

	// Commit the transaction - we've verified no other process has exclusive access
	_, err = sqlDB.Exec("COMMIT")
	if err != nil {
		return fmt.Errorf("releasing lock check: %w", err)
	}

	log.Debug().Msg("database lock check passed")
	return nil
}
