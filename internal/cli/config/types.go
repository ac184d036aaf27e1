// Package config provides configuration management for the worldctl CLI.
//
// Shared defaults and the per-package configuration type live in
// internal/config; this package adds the CLI layering (file, environment,
// flags) on top of them.
package config

import (
	"log/slog"
	"time"

	intconfig "github.com/frontierlabs/worldctl/internal/config"
)

// PackageConfig is an alias for the shared package configuration.
type PackageConfig = intconfig.PackageConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot   string                   `koanf:"-"`
	PackagesDir   string                   `koanf:"packages_dir"`
	DefaultEnv    string                   `koanf:"default_env"`
	Marker        string                   `koanf:"marker"`
	MaxBytes      int                      `koanf:"max_bytes"`
	Verbose       bool                     `koanf:"verbose"`
	OutputFormat  string                   `koanf:"output"`
	LogLevel      slog.Level               `koanf:"log_level"`
	WatchDebounce time.Duration            `koanf:"watch_debounce"`
	Packages      map[string]PackageConfig `koanf:"packages"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultPackagesDir   = intconfig.DefaultPackagesDir
	DefaultFallbackEnv   = intconfig.DefaultFallbackEnv
	DefaultMarker        = intconfig.DefaultMarker
	DefaultMaxBytes      = intconfig.DefaultMaxBytes
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel      = "info"
	DefaultWatchDebounce = 100 * time.Millisecond
)

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		PackagesDir:   DefaultPackagesDir,
		DefaultEnv:    DefaultFallbackEnv,
		Marker:        DefaultMarker,
		MaxBytes:      DefaultMaxBytes,
		OutputFormat:  DefaultOutput,
		LogLevel:      slog.LevelInfo,
		WatchDebounce: DefaultWatchDebounce,
		Packages:      intconfig.DefaultPackages(),
	}
}
