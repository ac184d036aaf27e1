package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/frontierlabs/worldctl/internal/materialize"
)

// Environ is a snapshot of the process environment. Commands read identifier
// sources from it instead of calling os.Getenv, so tests can inject values.
type Environ map[string]string

// ReadEnviron snapshots the current process environment.
func ReadEnviron() Environ {
	return Environ(env.ToMap(os.Environ()))
}

// Lookup returns the value of name, or "".
func (e Environ) Lookup(name string) string {
	return e[name]
}

// Inputs returns the named primary and fallback identifier sources.
func (e Environ) Inputs(primary, fallback string) (materialize.Input, materialize.Input) {
	return materialize.Input{Name: primary, Value: e.Lookup(primary)},
		materialize.Input{Name: fallback, Value: e.Lookup(fallback)}
}

// Terminal holds environment settings that affect rendering.
type Terminal struct {
	NoColor string `env:"NO_COLOR"`
	Term    string `env:"TERM"`
}

// ColorDisabled reports whether styled output should be plain.
func (t Terminal) ColorDisabled() bool {
	return t.NoColor != "" || t.Term == "dumb"
}

// ParseEnv loads tagged struct fields from environ.
func ParseEnv(target any, environ Environ) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// TerminalFromEnv parses the rendering settings from environ.
func TerminalFromEnv(environ Environ) (Terminal, error) {
	var t Terminal
	err := ParseEnv(&t, environ)
	return t, err
}
