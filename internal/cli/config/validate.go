package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	intconfig "github.com/frontierlabs/worldctl/internal/config"
	"github.com/frontierlabs/worldctl/internal/materialize"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PackagesDir == "" {
		return fmt.Errorf("packages_dir is required")
	}
	if c.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("max_bytes must be positive, got %d", c.MaxBytes)
	}
	if c.DefaultEnv == "" {
		return fmt.Errorf("default_env is required")
	}
	if c.OutputFormat != "" && !contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.PackagesDir); os.IsNotExist(err) {
		return fmt.Errorf("packages directory does not exist: %s\nHint: Create the directory or use --packages-dir to specify a different path", c.PackagesDir)
	}
	return nil
}

// Package returns the configuration for name, deriving the namespace
// variable when it is not configured.
func (c *Config) Package(name string) PackageConfig {
	p := c.Packages[name]
	intconfig.ApplyPackageDefaults(name, &p)
	return p
}

// PackageNames returns the configured package names, sorted.
func (c *Config) PackageNames() []string {
	names := make([]string, 0, len(c.Packages))
	for name := range c.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplatePath returns the template file for a package, resolved against the
// packages directory.
func (c *Config) TemplatePath(name string) (string, error) {
	p := c.Package(name)
	if p.Template == "" {
		return "", fmt.Errorf("package %s has no template configured\nHint: set packages.%s.template in %s or pass --template", name, name, intconfig.ConfigFileName)
	}
	return resolvePathRelativeTo(p.Template, c.PackagesDir), nil
}

// Materializer returns a materializer using the configured marker and limit.
func (c *Config) Materializer() materialize.Materializer {
	return materialize.New(c.Marker, c.MaxBytes)
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
