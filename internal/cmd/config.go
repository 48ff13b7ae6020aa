package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors RuntimeConfig for the optional YAML config file.
// Durations are strings in Go duration syntax ("15m", "1h30m").
type FileConfig struct {
	DB            string `yaml:"db"`
	Port          *int   `yaml:"port"`
	User          string `yaml:"user"`
	StatsInterval string `yaml:"stats_interval"`
	Import        string `yaml:"import"`
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply copies file values into the runtime config for every setting the
// user did not change on the command line. Explicit flags always win.
func (f *FileConfig) Apply(flags *pflag.FlagSet, cfg *RuntimeConfig) error {
	if f.DB != "" && !flags.Changed("db") {
		cfg.DBPath = f.DB
	}
	if f.Port != nil && !flags.Changed("port") {
		cfg.MCPPort = *f.Port
	}
	if f.User != "" && !flags.Changed("user") {
		cfg.DefaultUser = f.User
	}
	if f.StatsInterval != "" && !flags.Changed("stats-interval") {
		d, err := time.ParseDuration(f.StatsInterval)
		if err != nil {
			return fmt.Errorf("parsing stats_interval %q: %w", f.StatsInterval, err)
		}
		cfg.StatsInterval = d
	}
	if f.Import != "" && !flags.Changed("import") {
		cfg.ImportPath = f.Import
	}
	return nil
}
