package txt

import (
	"errors"
	"fmt"
)

// Fatal decode failures by category. Match with errors.Is; the concrete
// error is always a ParseError carrying the offending line.
var (
	ErrFormat        = errors.New("invalid txt format")
	ErrEmptyTrack    = errors.New("no notes in track")
	ErrMissingFields = errors.New("required header fields missing")
)

// ParseError is a fatal chart error tied to a 1-based input line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Warning is a recoverable decode diagnostic. The chart stays usable
// but the repaired spots are worth surfacing.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
