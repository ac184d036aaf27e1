// Package config provides shared configuration defaults for worldctl.
// This package is decoupled from CLI concerns so the schema loader can
// use the same defaults as the commands.
package config

import (
	"strings"
	"unicode"

	"github.com/frontierlabs/worldctl/internal/materialize"
)

// Default configuration values.
const (
	DefaultPackagesDir = "packages"
	DefaultFallbackEnv = "DEFAULT_NAMESPACE"
	DefaultMarker      = materialize.DefaultMarker
	DefaultMaxBytes    = materialize.MaxIdentifierBytes
	DefaultPackage     = "ssu"
	WorldFileName      = "world.yaml"
)

// PackageConfig describes where a package takes its namespace from and which
// template, if any, receives it.
type PackageConfig struct {
	NamespaceEnv string `koanf:"namespace_env" json:"namespace_env"`
	Template     string `koanf:"template" json:"template,omitempty"`
}

// DefaultPackages returns the built-in package table.
func DefaultPackages() map[string]PackageConfig {
	return map[string]PackageConfig{
		DefaultPackage: {
			NamespaceEnv: "SSU_NAMESPACE",
			Template:     "ssu/src/systems/constants.sol",
		},
	}
}

// NamespaceEnvFor derives the primary environment variable for a package:
// "eve-transfert" becomes EVE_TRANSFERT_NAMESPACE.
func NamespaceEnvFor(pkg string) string {
	var b strings.Builder
	for _, r := range pkg {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte('_')
		}
	}
	b.WriteString("_NAMESPACE")
	return b.String()
}

// ApplyPackageDefaults fills in the namespace variable when it is unset.
func ApplyPackageDefaults(name string, p *PackageConfig) {
	if p == nil {
		return
	}
	if p.NamespaceEnv == "" {
		p.NamespaceEnv = NamespaceEnvFor(name)
	}
}
