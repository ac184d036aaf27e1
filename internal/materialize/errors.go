package materialize

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a materialization failure.
type Kind int

// Failure kinds. KindUnknown covers errors that did not come from this package.
const (
	KindUnknown Kind = iota
	KindMissingIdentifier
	KindIdentifierTooLong
	KindMarkerNotFound
	KindMultipleMarkers
)

func (k Kind) String() string {
	switch k {
	case KindMissingIdentifier:
		return "missing_identifier"
	case KindIdentifierTooLong:
		return "identifier_too_long"
	case KindMarkerNotFound:
		return "marker_not_found"
	case KindMultipleMarkers:
		return "multiple_markers"
	default:
		return "unknown"
	}
}

// Sentinel values for errors.Is matching against a failure kind.
var (
	ErrMissingIdentifier = errors.New("missing identifier")
	ErrIdentifierTooLong = errors.New("identifier too long")
	ErrMarkerNotFound    = errors.New("marker not found")
	ErrMultipleMarkers   = errors.New("multiple markers")
)

// Error is implemented by every failure returned from this package.
type Error interface {
	error
	Kind() Kind
}

// MissingIdentifierError reports that neither identifier source had a value.
type MissingIdentifierError struct {
	// Sources names the inputs that were consulted, in resolution order.
	Sources []string
}

func (e *MissingIdentifierError) Kind() Kind { return KindMissingIdentifier }

func (e *MissingIdentifierError) Error() string {
	switch len(e.Sources) {
	case 0:
		return "namespace is not set"
	case 1:
		return fmt.Sprintf("%s is not set", e.Sources[0])
	default:
		return fmt.Sprintf("%s is not set (checked %s)", e.Sources[0], strings.Join(e.Sources, ", "))
	}
}

func (e *MissingIdentifierError) Is(target error) bool { return target == ErrMissingIdentifier }

// IdentifierTooLongError reports an identifier whose encoding exceeds the slot size.
type IdentifierTooLongError struct {
	Identifier string
	Bytes      int
	Limit      int
}

func (e *IdentifierTooLongError) Kind() Kind { return KindIdentifierTooLong }

func (e *IdentifierTooLongError) Error() string {
	return fmt.Sprintf("namespace %q is %d bytes, longer than the %d byte limit by %d",
		e.Identifier, e.Bytes, e.Limit, e.Bytes-e.Limit)
}

func (e *IdentifierTooLongError) Is(target error) bool { return target == ErrIdentifierTooLong }

// MarkerNotFoundError reports a template without its placeholder.
type MarkerNotFoundError struct {
	Marker string
}

func (e *MarkerNotFoundError) Kind() Kind { return KindMarkerNotFound }

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("placeholder %s not found in template", e.Marker)
}

func (e *MarkerNotFoundError) Is(target error) bool { return target == ErrMarkerNotFound }

// MultipleMarkersError reports a template that holds the placeholder more than once.
type MultipleMarkersError struct {
	Marker string
	Count  int
}

func (e *MultipleMarkersError) Kind() Kind { return KindMultipleMarkers }

func (e *MultipleMarkersError) Error() string {
	return fmt.Sprintf("placeholder %s appears %d times in template, expected exactly once", e.Marker, e.Count)
}

func (e *MultipleMarkersError) Is(target error) bool { return target == ErrMultipleMarkers }

// KindOf returns the failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var me Error
	if errors.As(err, &me) {
		return me.Kind()
	}
	return KindUnknown
}
