// Package apperr defines the application error taxonomy. Every operation
// returns either a success payload or one of these kinds; handlers recover
// them at the boundary and map them to HTTP statuses and localized
// messages. Anything else is treated as a server error and never leaks
// internal state.
package apperr

import "fmt"

// Kind classifies an application error.
type Kind int

const (
	// KindValidation covers missing or out-of-range input.
	KindValidation Kind = iota
	// KindNotFound covers absent exams, homework, users and classrooms.
	KindNotFound
	// KindForbidden covers missing capability or ownership.
	KindForbidden
	// KindConflict covers duplicate assignment, re-submission, grading
	// before submission, and passed deadlines.
	KindConflict
	// KindUpstream covers content provider failures, surfaced with the
	// provider's message and never retried automatically.
	KindUpstream
	// KindUnauthorized covers missing or invalid credentials.
	KindUnauthorized
)

// Error is an application error: a kind plus an i18n message ID, optionally
// wrapping a cause.
type Error struct {
	Kind  Kind
	MsgID string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.MsgID, e.Err)
	}
	return e.MsgID
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a validation error with the given message ID.
func Validation(msgID string) *Error { return &Error{Kind: KindValidation, MsgID: msgID} }

// NotFound returns a not-found error with the given message ID.
func NotFound(msgID string) *Error { return &Error{Kind: KindNotFound, MsgID: msgID} }

// Forbidden returns a forbidden error with the given message ID.
func Forbidden(msgID string) *Error { return &Error{Kind: KindForbidden, MsgID: msgID} }

// Conflict returns a conflict error with the given message ID.
func Conflict(msgID string) *Error { return &Error{Kind: KindConflict, MsgID: msgID} }

// Upstream returns an upstream error wrapping the provider failure.
func Upstream(msgID string, err error) *Error {
	return &Error{Kind: KindUpstream, MsgID: msgID, Err: err}
}

// Unauthorized returns an unauthorized error with the given message ID.
func Unauthorized(msgID string) *Error { return &Error{Kind: KindUnauthorized, MsgID: msgID} }
