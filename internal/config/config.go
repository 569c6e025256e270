// Package config handles configuration loading and validation for raDB
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"raDB/internal/logger"
)

// Config holds all configuration for raDB
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
	Exec   ExecConfig   `mapstructure:"exec"`
	REPL   REPLConfig   `mapstructure:"repl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// OutputConfig controls how result relations are printed
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Color    bool   `mapstructure:"color"`
	EchoRows bool   `mapstructure:"echo_rows"`
}

// ExecConfig controls query evaluation in batch runs
type ExecConfig struct {
	Workers         int  `mapstructure:"workers"`
	ContinueOnError bool `mapstructure:"continue_on_error"`
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt      string `mapstructure:"prompt"`
	HistoryFile string `mapstructure:"history_file"`
}

// OutputFormats lists the accepted values of output.format.
var OutputFormats = []string{"text", "markdown", "json"}

func defaultConfig() *Config {
	history := ".radb_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".radb_history")
	}

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			EchoRows: false,
		},
		Exec: ExecConfig{
			Workers:         1,
			ContinueOnError: true,
		},
		REPL: REPLConfig{
			Prompt:      "radb> ",
			HistoryFile: history,
		},
	}
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("output.echo_rows", cfg.Output.EchoRows)
	v.SetDefault("exec.workers", cfg.Exec.Workers)
	v.SetDefault("exec.continue_on_error", cfg.Exec.ContinueOnError)
	v.SetDefault("repl.prompt", cfg.REPL.Prompt)
	v.SetDefault("repl.history_file", cfg.REPL.HistoryFile)

	v.SetEnvPrefix("RADB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("radb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.radb")
		v.AddConfigPath("/etc/radb")

		// No config file is fine, defaults apply.
		_ = v.ReadInConfig()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are sensible
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if !ValidOutputFormat(c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (expected one of %s)",
			c.Output.Format, strings.Join(OutputFormats, ", "))
	}

	if c.Exec.Workers < 1 {
		return fmt.Errorf("exec.workers must be at least 1, got %d", c.Exec.Workers)
	}

	return nil
}

// ValidOutputFormat reports whether name is a known output format.
func ValidOutputFormat(name string) bool {
	for _, f := range OutputFormats {
		if f == name {
			return true
		}
	}
	return false
}

// CreateDefaultConfig writes a default configuration file
func CreateDefaultConfig(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	content := `# raDB Configuration File

log:
  level: info            # debug, info, warn, error
  format: text           # text or json
  output: stderr         # stderr, stdout, or file path

output:
  format: text           # text, markdown or json
  color: true            # colored headers and errors on terminals
  echo_rows: false       # also print "name = [rows]" before each table

exec:
  workers: 1             # queries of one batch evaluated in parallel
  continue_on_error: true

repl:
  prompt: "radb> "
  # history_file: ~/.radb_history
`

	return os.WriteFile(path, []byte(content), 0644)
}
