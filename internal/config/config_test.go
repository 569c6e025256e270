package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Output.Format)
	require.True(t, cfg.Output.Color)
	require.False(t, cfg.Output.EchoRows)
	require.Equal(t, 1, cfg.Exec.Workers)
	require.True(t, cfg.Exec.ContinueOnError)
	require.Equal(t, "radb> ", cfg.REPL.Prompt)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		shouldError bool
	}{
		{
			name:        "valid config",
			modify:      func(c *Config) {},
			shouldError: false,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "invalid"
			},
			shouldError: true,
		},
		{
			name: "warning log level",
			modify: func(c *Config) {
				c.Log.Level = "WARNING"
			},
			shouldError: false,
		},
		{
			name: "invalid log format",
			modify: func(c *Config) {
				c.Log.Format = "xml"
			},
			shouldError: true,
		},
		{
			name: "invalid output format",
			modify: func(c *Config) {
				c.Output.Format = "csv"
			},
			shouldError: true,
		},
		{
			name: "markdown output",
			modify: func(c *Config) {
				c.Output.Format = "markdown"
			},
			shouldError: false,
		},
		{
			name: "zero workers",
			modify: func(c *Config) {
				c.Exec.Workers = 0
			},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.shouldError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radb.yaml")
	content := `
log:
  level: debug
output:
  format: json
exec:
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Output.Format)
	require.Equal(t, 4, cfg.Exec.Workers)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RADB_OUTPUT_FORMAT", "markdown")
	t.Setenv("RADB_EXEC_WORKERS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "markdown", cfg.Output.Format)
	require.Equal(t, 3, cfg.Exec.Workers)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exec:\n  workers: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "radb.yaml")
	require.NoError(t, CreateDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "radb> ", cfg.REPL.Prompt)
	require.Equal(t, 1, cfg.Exec.Workers)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
