package fetch

import "fmt"

// ErrorKind classifies fetch failures so the orchestrator can log them
// uniformly without inspecting transport internals.
type ErrorKind string

const (
	ErrorTimeout         ErrorKind = "timeout"
	ErrorNetwork         ErrorKind = "network"
	ErrorHTTP            ErrorKind = "http"
	ErrorInvalidResponse ErrorKind = "invalid_response"
)

// Error is a per-source fetch failure. It is always caught by the
// orchestrator and never reaches API callers.
type Error struct {
	Kind     ErrorKind
	SourceID string
	Status   int // HTTP status for ErrorHTTP, zero otherwise
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorHTTP:
		return fmt.Sprintf("fetch %s: HTTP %d", e.SourceID, e.Status)
	case ErrorTimeout:
		return fmt.Sprintf("fetch %s: timed out", e.SourceID)
	default:
		return fmt.Sprintf("fetch %s: %v", e.SourceID, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
