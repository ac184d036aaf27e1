// Package materialize substitutes a validated namespace identifier into a
// template holding a single placeholder.
//
// The functions in this file are pure: they never read the environment or
// touch the filesystem. File handling lives in file.go.
package materialize

import "strings"

const (
	// DefaultMarker is the placeholder replaced by the namespace.
	DefaultMarker = "%SSU_NAMESPACE%"

	// MaxIdentifierBytes is the size of the on-chain bytes16 namespace slot.
	MaxIdentifierBytes = 16
)

// Materializer holds the placeholder and byte limit used for substitution.
// The zero value uses DefaultMarker and MaxIdentifierBytes.
type Materializer struct {
	Marker string
	Limit  int
}

// New returns a Materializer with the given marker and limit.
// Empty or non-positive arguments fall back to the defaults.
func New(marker string, limit int) Materializer {
	return Materializer{Marker: marker, Limit: limit}
}

func (m Materializer) marker() string {
	if m.Marker == "" {
		return DefaultMarker
	}
	return m.Marker
}

func (m Materializer) limit() int {
	if m.Limit <= 0 {
		return MaxIdentifierBytes
	}
	return m.Limit
}

// Resolve returns primary when it is non-empty, else fallback.
func Resolve(primary, fallback string) (string, error) {
	if primary != "" {
		return primary, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", &MissingIdentifierError{}
}

// Validate checks id against the default byte limit.
func Validate(id string) error {
	return Materializer{}.Validate(id)
}

// Validate checks that id fits in the configured number of encoded bytes.
func (m Materializer) Validate(id string) error {
	if n := len(id); n > m.limit() {
		return &IdentifierTooLongError{Identifier: id, Bytes: n, Limit: m.limit()}
	}
	return nil
}

// Materialize substitutes the effective identifier using the default marker and limit.
func Materialize(primary, fallback, template string) (string, error) {
	return Materializer{}.Materialize(primary, fallback, template)
}

// Materialize resolves the identifier from primary and fallback, validates it
// and replaces the single marker occurrence in template.
// Identifier errors are reported before template errors.
func (m Materializer) Materialize(primary, fallback, template string) (string, error) {
	id, err := Resolve(primary, fallback)
	if err != nil {
		return "", err
	}
	return m.Apply(id, template)
}

// Apply validates id and substitutes it into template.
func (m Materializer) Apply(id, template string) (string, error) {
	if id == "" {
		return "", &MissingIdentifierError{}
	}
	if err := m.Validate(id); err != nil {
		return "", err
	}

	marker := m.marker()
	switch n := strings.Count(template, marker); {
	case n == 0:
		return "", &MarkerNotFoundError{Marker: marker}
	case n > 1:
		return "", &MultipleMarkersError{Marker: marker, Count: n}
	}
	return strings.Replace(template, marker, id, 1), nil
}
