package errors

import "fmt"

// Type classifies scraper errors into the recovery tiers the run loop
// understands.
type Type string

const (
	// TypeFetch covers network, timeout and navigation failures for a
	// single course identifier. Recovered by skipping that identifier.
	TypeFetch Type = "fetch"
	// TypeParse covers a malformed instructor cell. Recovered by
	// skipping that cell's contribution only.
	TypeParse Type = "parse"
	// TypeSessionExpired means the site served its not-authenticated
	// page. Fatal after one final checkpoint.
	TypeSessionExpired Type = "session_expired"
	// TypePersistence means the checkpoint file could not be written.
	// Fatal immediately.
	TypePersistence Type = "persistence"
)

// Error carries the error type plus the course identifier it occurred
// on, when one applies. Course is -1 when no identifier is involved.
type Error struct {
	Type    Type
	Course  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Course >= 0 {
		return fmt.Sprintf("%s error on course %05d: %s", e.Type, e.Course, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewFetch wraps a navigation or network failure for one identifier.
func NewFetch(course int, err error) *Error {
	return &Error{Type: TypeFetch, Course: course, Message: err.Error(), Err: err}
}

// NewParse reports a cell that could not be parsed on one identifier.
func NewParse(course int, msg string) *Error {
	return &Error{Type: TypeParse, Course: course, Message: msg}
}

// NewSessionExpired reports the not-authenticated sentinel page.
func NewSessionExpired(course int) *Error {
	return &Error{Type: TypeSessionExpired, Course: course, Message: "authenticated session lost"}
}

// NewPersistence wraps a checkpoint write failure.
func NewPersistence(err error) *Error {
	return &Error{Type: TypePersistence, Course: -1, Message: err.Error(), Err: err}
}

// IsFatal reports whether an error type terminates the run. Fetch and
// parse errors are swallowed locally; session and persistence failures
// propagate to the top level.
func IsFatal(t Type) bool {
	switch t {
	case TypeSessionExpired, TypePersistence:
		return true
	}
	return false
}
