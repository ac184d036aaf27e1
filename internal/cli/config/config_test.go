package config

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontierlabs/worldctl/internal/materialize"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("packages-dir", "", "")
	fs.String("output", "", "")
	fs.String("log-level", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

// TestLoadConfig_Defaults loads from an empty directory with no config file.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "", GetConfigFileUsed())
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultPackagesDir), cfg.PackagesDir)
	assert.Equal(t, DefaultFallbackEnv, cfg.DefaultEnv)
	assert.Equal(t, DefaultMarker, cfg.Marker)
	assert.Equal(t, DefaultMaxBytes, cfg.MaxBytes)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
	assert.Equal(t, "SSU_NAMESPACE", cfg.Package("ssu").NamespaceEnv)
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests loading and merging a config file over defaults.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := filepath.Join("testdata", "full.yaml")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	absTestdata, err := filepath.Abs("testdata")
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, absTestdata, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(absTestdata, "worlds"), cfg.PackagesDir)
	assert.Equal(t, "SHARED_NAMESPACE", cfg.DefaultEnv)
	assert.Equal(t, "@@NS@@", cfg.Marker)
	assert.Equal(t, 14, cfg.MaxBytes)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)

	// ssu keeps its default namespace variable; only the template changed.
	ssu := cfg.Package("ssu")
	assert.Equal(t, "SSU_NAMESPACE", ssu.NamespaceEnv)
	assert.Equal(t, "ssu/constants.sol", ssu.Template)

	assert.Equal(t, "GATE_NS", cfg.Package("gates").NamespaceEnv)
	assert.Equal(t, "TRIBES_NAMESPACE", cfg.Package("tribes").NamespaceEnv)
	assert.Equal(t, []string{"gates", "ssu"}, cfg.PackageNames())

	path, err := cfg.TemplatePath("gates")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(absTestdata, "worlds", "gates", "constants.sol"), path)

	_, err = cfg.TemplatePath("tribes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no template configured")

	m := cfg.Materializer()
	out, err := m.Materialize("abc", "", "ns=@@NS@@")
	require.NoError(t, err)
	assert.Equal(t, "ns=abc", out)
	_, err = m.Materialize("fifteen_bytes_x", "", "ns=@@NS@@")
	assert.ErrorIs(t, err, materialize.ErrIdentifierTooLong)
}

// TestLoadConfig_Precedence verifies flags > env vars > config file.
func TestLoadConfig_Precedence(t *testing.T) {
	cfgPath := filepath.Join("testdata", "full.yaml")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("WORLDCTL_MAX_BYTES", "12")
		t.Setenv("WORLDCTL_OUTPUT", "markdown")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.MaxBytes)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("flags override env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("WORLDCTL_OUTPUT", "markdown")

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--output", "text", "--log-level", "debug", "--packages-dir", "elsewhere"}))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)

		wantDir, err := filepath.Abs("elsewhere")
		require.NoError(t, err)

		assert.Equal(t, "text", cfg.OutputFormat)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, wantDir, cfg.PackagesDir)
	})

	t.Run("unset flags do not override", func(t *testing.T) {
		ResetConfig()
		flags := newFlags()
		require.NoError(t, flags.Parse(nil))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		errSubstr string
	}{
		{name: "unknown output", file: "invalid_output.yaml", errSubstr: "unknown output format"},
		{name: "zero max bytes", file: "invalid_max_bytes.yaml", errSubstr: "max_bytes must be positive"},
		{name: "missing file", file: "does_not_exist.yaml", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(filepath.Join("testdata", tt.file), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty packages dir", mutate: func(c *Config) { c.PackagesDir = "" }, errSubstr: "packages_dir is required"},
		{name: "empty marker", mutate: func(c *Config) { c.Marker = "" }, errSubstr: "marker must not be empty"},
		{name: "negative max bytes", mutate: func(c *Config) { c.MaxBytes = -1 }, errSubstr: "max_bytes must be positive"},
		{name: "empty default env", mutate: func(c *Config) { c.DefaultEnv = "" }, errSubstr: "default_env is required"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_ValidateDirectories(t *testing.T) {
	cfg := Default()
	cfg.PackagesDir = t.TempDir()
	assert.NoError(t, cfg.ValidateDirectories())

	cfg.PackagesDir = filepath.Join(cfg.PackagesDir, "missing")
	err := cfg.ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--packages-dir")
}

func TestEnviron(t *testing.T) {
	e := Environ{"SSU_NAMESPACE": "dev", "DEFAULT_NAMESPACE": "prod"}

	primary, fallback := e.Inputs("SSU_NAMESPACE", "DEFAULT_NAMESPACE")
	assert.Equal(t, materialize.Input{Name: "SSU_NAMESPACE", Value: "dev"}, primary)
	assert.Equal(t, materialize.Input{Name: "DEFAULT_NAMESPACE", Value: "prod"}, fallback)
	assert.Equal(t, "", e.Lookup("MISSING"))

	t.Setenv("WORLDCTL_TEST_ENVIRON", "present")
	assert.Equal(t, "present", ReadEnviron().Lookup("WORLDCTL_TEST_ENVIRON"))
}

func TestTerminalFromEnv(t *testing.T) {
	term, err := TerminalFromEnv(Environ{"TERM": "xterm-256color"})
	require.NoError(t, err)
	assert.False(t, term.ColorDisabled())

	term, err = TerminalFromEnv(Environ{"NO_COLOR": "1"})
	require.NoError(t, err)
	assert.True(t, term.ColorDisabled())

	term, err = TerminalFromEnv(Environ{"TERM": "dumb"})
	require.NoError(t, err)
	assert.True(t, term.ColorDisabled())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = slog.LevelWarn

	logger := NewLogger(&buf, cfg)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	cfg.Verbose = true
	NewLogger(&buf, cfg).Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}
