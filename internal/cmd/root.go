package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/athlog/athlog-mcp/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbosity     int
	configPath    string
	dbPath        string
	mcpPort       int
	defaultUser   string
	statsInterval time.Duration
	importPath    string
)

var rootCmd = &cobra.Command{
	Use:   "athlog-mcp",
	Short: "Athlog MCP Server - expose training progress analytics via Model Context Protocol",
	Long: `Athlog MCP Server stores performance logs in a local SQLite database and
exposes progress aggregation via the Model Context Protocol (MCP) for AI
assistants.

The server provides:
- Fuzzy exercise name resolution against what the user actually logged
- Time-bucketed metric aggregation over 7/30/90/180/360 day ranges
- Graph-ready axis scaling for the aggregated series
- Consecutive-day logging streaks per activity kind

Entries can be logged through the log_performance tool or seeded from a
JSON file with --import.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on verbosity before any command runs
		logging.Setup(logging.Level(verbosity))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create runtime config from CLI flags
		rtCfg := &RuntimeConfig{
			DBPath:        dbPath,
			MCPPort:       mcpPort,
			DefaultUser:   defaultUser,
			StatsInterval: statsInterval,
			ImportPath:    importPath,
		}

		// Layer the config file underneath: it only fills in settings the
		// user did not set explicitly on the command line.
		if configPath != "" {
			fileCfg, err := LoadFileConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config file: %w", err)
			}
			if err := fileCfg.Apply(cmd.Flags(), rtCfg); err != nil {
				return fmt.Errorf("applying config file: %w", err)
			}
		}

		return Run(rtCfg)
	},
}

func init() {
	// Logging verbosity
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v for debug, -vv for trace with full tool payloads)")

	// Runtime settings as CLI flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to optional YAML config file (flags win over file values)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "athlog.db", "path to SQLite database file")
	rootCmd.PersistentFlags().IntVarP(&mcpPort, "port", "p", 0, "MCP server port (0 for stdio mode)")
	rootCmd.PersistentFlags().StringVar(&defaultUser, "user", "default", "user id assumed when a tool call does not name one")
	rootCmd.PersistentFlags().DurationVar(&statsInterval, "stats-interval", 15*time.Minute, "interval between database statistics log lines")
	rootCmd.PersistentFlags().StringVar(&importPath, "import", "", "JSON file of performance entries to load at startup")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
