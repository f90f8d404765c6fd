package goerror

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/pkg/strcase"
)

// Tag classifies an error condition. Tags form a tree rooted at Any; a child
// inherits the status of its parent unless it overrides it.
//
// Tags are immutable and compared by identity.
type Tag struct {
	name    string
	parent  *Tag
	status  int
	code    string
	message string
}

// TagOption customizes a specialized tag.
type TagOption func(*Tag)

// WithStatus overrides the inherited HTTP status.
func WithStatus(status int) TagOption {
	return func(t *Tag) {
		t.status = status
	}
}

// WithCode overrides the error code derived from the tag name.
func WithCode(code string) TagOption {
	return func(t *Tag) {
		t.code = code
	}
}

// WithDefaultMessage overrides the inherited default message.
func WithDefaultMessage(msg string) TagOption {
	return func(t *Tag) {
		t.message = msg
	}
}

// Base tags.
var (
	// Any is the root of every tag. Its handler is the catch-all.
	Any = &Tag{
		name:    "Any",
		status:  http.StatusInternalServerError,
		code:    "INTERNAL_ERROR",
		message: "An unexpected error occurred",
	}

	ValidationFailed = Any.Specialize("ValidationFailed",
		WithStatus(http.StatusBadRequest), WithDefaultMessage("Validation failed"))
	NotFound = Any.Specialize("NotFound",
		WithStatus(http.StatusNotFound), WithDefaultMessage("Resource not found"))
	Conflict = Any.Specialize("Conflict",
		WithStatus(http.StatusConflict), WithDefaultMessage("Resource conflict"))
	Unauthorized = Any.Specialize("Unauthorized",
		WithStatus(http.StatusUnauthorized), WithDefaultMessage("Unauthorized"))
	Forbidden = Any.Specialize("Forbidden",
		WithStatus(http.StatusForbidden), WithDefaultMessage("Forbidden"))
	BadInput = Any.Specialize("BadInput",
		WithStatus(http.StatusBadRequest), WithDefaultMessage("Invalid request"))
	Internal = Any.Specialize("Internal",
		WithCode("INTERNAL_ERROR"), WithDefaultMessage("Internal server error"))
)

// Specialize returns a child of t. The code defaults to the upper snake case
// name, e.g. "MemberEmailTaken" becomes "MEMBER_EMAIL_TAKEN".
func (t *Tag) Specialize(name string, opts ...TagOption) *Tag {
	child := &Tag{
		name:    name,
		parent:  t,
		status:  t.status,
		code:    strings.ToUpper(strcase.ToLowerSnake(name)),
		message: t.message,
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// Name returns the tag name.
func (t *Tag) Name() string { return t.name }

// Parent returns the parent tag, nil for Any.
func (t *Tag) Parent() *Tag { return t.parent }

// Status returns the HTTP status of the tag.
func (t *Tag) Status() int { return t.status }

// Code returns the stable error code of the tag.
func (t *Tag) Code() string { return t.code }

// Message returns the default user-facing message of the tag.
func (t *Tag) Message() string { return t.message }

// String returns the tag path from the root, e.g. "Any/Conflict/MemberEmailTaken".
func (t *Tag) String() string {
	if t.parent == nil {
		return t.name
	}
	return t.parent.String() + "/" + t.name
}

// IsA reports whether t is ancestor or one of its descendants.
func (t *Tag) IsA(ancestor *Tag) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}
