package domain

// WriteOutcome is the result of a version-guarded store update.
type WriteOutcome int

const (
	// WriteOK means the row matched the expected version and was written.
	WriteOK WriteOutcome = iota
	// WriteNotFound means no row exists for the identifier.
	WriteNotFound
	// WriteConflict means the row exists but carries a different version.
	WriteConflict
)

func (o WriteOutcome) String() string {
	switch o {
	case WriteOK:
		return "ok"
	case WriteNotFound:
		return "not_found"
	case WriteConflict:
		return "conflict"
	}
	return "unknown"
}
