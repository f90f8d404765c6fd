package goerror

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a classification tag, and the details a handler needs to build a response.
type Error struct {
	err        error
	msg        string
	tag        *Tag
	reason     string
	violations validator.Violations
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.Tag().Message()
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Tag: %s, Code: %s, Message: %s, Reason: %s, Underlying Error: %v",
		e.Tag().String(),
		e.Code(),
		e.msg,
		e.reason,
		e.err,
	)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Tag returns the classification tag. It is never nil.
func (e *Error) Tag() *Tag {
	if e.tag == nil {
		return Internal
	}
	return e.tag
}

// Code returns the stable error code of the tag.
func (e *Error) Code() string {
	return e.Tag().Code()
}

// StatusCode returns the HTTP status of the tag.
func (e *Error) StatusCode() int {
	return e.Tag().Status()
}

// Reason returns the diagnostic detail, if any. It is safe to show to clients.
func (e *Error) Reason() string {
	return e.reason
}

// Violations returns the validation violations, if any.
func (e *Error) Violations() validator.Violations {
	return e.violations
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// New creates an error classified by tag.
func New(tag *Tag, msg string) error {
	return &Error{tag: tag, msg: msg}
}

// Wrap creates an error classified by tag that wraps cause.
func Wrap(tag *Tag, cause error, msg string) error {
	return &Error{tag: tag, msg: msg, err: cause}
}

// NewWithReason creates an error classified by tag with a diagnostic reason.
func NewWithReason(tag *Tag, msg, reason string) error {
	return &Error{tag: tag, msg: msg, reason: reason}
}

// NewValidationFailed creates a validation error from violations.
func NewValidationFailed(vs validator.Violations) error {
	return &Error{tag: ValidationFailed, msg: ValidationFailed.Message(), err: vs, violations: vs}
}

// NewNotFound creates a not found error for the resource kind identified by id.
func NewNotFound(kind string, id any) error {
	return &Error{
		tag:    NotFound,
		msg:    fmt.Sprintf("%s not found", kind),
		err:    ErrNotFound,
		reason: fmt.Sprintf("%s %v does not exist", kind, id),
	}
}

// NewConflict creates a conflict error with the specified message.
func NewConflict(msg string) error {
	return &Error{tag: Conflict, msg: msg, err: ErrConflict}
}

// NewUnauthorized creates an authentication failure with a diagnostic reason.
func NewUnauthorized(reason string) error {
	return &Error{tag: Unauthorized, reason: reason}
}

// NewForbidden creates an authorization failure with a diagnostic reason.
func NewForbidden(reason string) error {
	return &Error{tag: Forbidden, reason: reason}
}

// NewBadInput creates an error for a request that cannot be read, such as a
// malformed body.
func NewBadInput(msgs ...string) error {
	if len(msgs) == 0 {
		return &Error{tag: BadInput, msg: "Invalid request body"}
	}
	return &Error{tag: BadInput, msg: msgs[0]}
}

// NewInternal creates an internal error wrapping cause.
func NewInternal(cause error) error {
	return &Error{tag: Internal, msg: Internal.Message(), err: cause}
}

// From coerces err into an *Error. Violations become ValidationFailed, the
// repository sentinels NotFound and Conflict, and anything else Internal.
// It returns nil for a nil err.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}

	if vs, ok := validator.AsViolations(err); ok {
		ge, _ = NewValidationFailed(vs).(*Error)
		return ge
	}

	tag := Internal
	switch {
	case errors.Is(err, ErrNotFound):
		tag = NotFound
	case errors.Is(err, ErrConflict):
		tag = Conflict
	}

	return &Error{tag: tag, msg: tag.Message(), err: err}
}
