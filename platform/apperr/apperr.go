// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer middleware
// automatically maps them to appropriate HTTP status codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data. Details may carry the full
	// list of violated rules so a caller can fix everything in one pass.
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., duplicate).
	KindConflict
	// KindInvalidState indicates the quote's current status forbids the
	// requested mutation. Details carries the current status.
	KindInvalidState
	// KindInvalidTransition indicates a lifecycle transition not present in
	// the allowed table. Details carries source and attempted target.
	KindInvalidTransition
	// KindIneligible indicates a conversion attempted on a quote that cannot
	// produce an order (not Won, or nothing orderable).
	KindIneligible
	// KindCollaborator indicates an external collaborator call failed. The
	// collaborator message is surfaced verbatim.
	KindCollaborator
	// KindUnauthorized indicates authentication is required or failed.
	KindUnauthorized
	// KindBadRequest indicates a malformed or invalid request.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// StateDetails is attached to KindInvalidState errors.
type StateDetails struct {
	CurrentStatus string `json:"currentStatus"`
}

// TransitionDetails is attached to KindInvalidTransition errors.
type TransitionDetails struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict, KindInvalidState, KindInvalidTransition:
		return http.StatusConflict
	case KindIneligible:
		return http.StatusUnprocessableEntity
	case KindCollaborator:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// ValidationList creates a validation error carrying every violated rule.
func ValidationList(message string, violations []string) *Error {
	return New(KindValidation, message).WithDetails(violations)
}

// Conflict creates a conflict error (e.g., duplicate resource).
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// InvalidState creates an invalid-state error naming the current status.
func InvalidState(message string, currentStatus string) *Error {
	return New(KindInvalidState, message).WithDetails(StateDetails{CurrentStatus: currentStatus})
}

// InvalidTransition creates an invalid-transition error naming both statuses.
func InvalidTransition(from string, to string) *Error {
	return New(KindInvalidTransition, fmt.Sprintf("transition from %s to %s is not allowed", from, to)).
		WithDetails(TransitionDetails{From: from, To: to})
}

// Ineligible creates a conversion-ineligibility error.
func Ineligible(message string) *Error {
	return New(KindIneligible, message)
}

// Collaborator creates an external-collaborator failure error. The message is
// the collaborator's own, surfaced verbatim.
func Collaborator(message string) *Error {
	return New(KindCollaborator, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
