package materialize

// Process exit codes. Each failure kind gets its own code so scripts can
// tell them apart.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitMissingIdentifier = 2
	ExitIdentifierTooLong = 3
	ExitMarkerNotFound    = 4
	ExitMultipleMarkers   = 5
)

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindMissingIdentifier:
		return ExitMissingIdentifier
	case KindIdentifierTooLong:
		return ExitIdentifierTooLong
	case KindMarkerNotFound:
		return ExitMarkerNotFound
	case KindMultipleMarkers:
		return ExitMultipleMarkers
	default:
		return ExitFailure
	}
}
