// Package apperr holds the error taxonomy shared by the storefront and the
// admin panel. Remote failures are wrapped, never retried; the HTTP layer
// decides how each kind is surfaced.
package apperr

import (
	"errors"
	"fmt"
)

// ErrDuplicateSubmission is returned when a one-time form token is replayed.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// RemoteQueryError means a read against a remote collection failed.
type RemoteQueryError struct {
	Collection string
	Err        error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Collection, e.Err)
}

func (e *RemoteQueryError) Unwrap() error { return e.Err }

// RemoteMutationError means an insert, update or delete failed. Message
// carries the backing service's own text so it can be shown to the user.
type RemoteMutationError struct {
	Collection string
	Op         string
	Err        error
}

func (e *RemoteMutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *RemoteMutationError) Unwrap() error { return e.Err }

// Message is the underlying service message.
func (e *RemoteMutationError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NotFoundError means a single-row lookup did not resolve to exactly one row.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

// ValidationError is raised before any remote call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func Query(collection string, err error) error {
	return &RemoteQueryError{Collection: collection, Err: err}
}

func Mutation(collection, op string, err error) error {
	return &RemoteMutationError{Collection: collection, Op: op, Err: err}
}

func NotFound(collection, id string) error {
	return &NotFoundError{Collection: collection, ID: id}
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
