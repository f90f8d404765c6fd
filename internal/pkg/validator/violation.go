package validator

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

// Violation is a single constraint failure.
type Violation struct {
	// Path is the concrete field path, e.g. "tags[2]". Empty for object-level rules.
	Path         string `json:"fieldPath"`
	Kind         Kind   `json:"kind"`
	Message      string `json:"message"`
	InvalidValue any    `json:"invalidValue,omitempty"`
}

// Detail returns the client facing form "path: message".
func (v Violation) Detail() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Violations is the ordered result of one evaluation. Empty means valid.
type Violations []Violation

// Error implements the error interface.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(vs.Details(), "; ")
}

// Details returns the Detail of every violation, in order.
func (vs Violations) Details() []string {
	return lo.Map(vs, func(v Violation, _ int) string {
		return v.Detail()
	})
}

// Has reports whether any violation targets path.
func (vs Violations) Has(path string) bool {
	return lo.ContainsBy(vs, func(v Violation) bool {
		return v.Path == path
	})
}

// Fields returns the distinct violated paths in first-seen order.
func (vs Violations) Fields() []string {
	return lo.Uniq(lo.Map(vs, func(v Violation, _ int) string {
		return v.Path
	}))
}

// Err returns vs as an error, or nil when empty.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

// AsViolations extracts Violations from err.
func AsViolations(err error) (Violations, bool) {
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}
