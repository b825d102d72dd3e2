package apperr

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies an application error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed input, caught before any write
	KindNotFound                   // referenced id does not exist
	KindConflict                   // double-booking on instructor or location
	KindState                      // operation disallowed by current state
	KindInternal                   // storage/transport failure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Set for KindConflict only: which dimension collided and with what.
	Dimension    string
	ConflictWith uuid.UUID
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a double-booking. The dimension is "instructor" or
// "location"; with is the booking the new interval collides with.
func Conflict(dimension string, with uuid.UUID, format string, args ...any) *Error {
	return &Error{
		Kind:         KindConflict,
		Message:      fmt.Sprintf(format, args...),
		Dimension:    dimension,
		ConflictWith: with,
	}
}

func State(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
