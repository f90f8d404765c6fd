package validator

import "github.com/shandysiswandi/gatekeep/internal/pkg/config"

// Validator validates request and domain objects.
type Validator interface {
	// Evaluate returns every violation of obj for the active groups.
	Evaluate(obj any, active GroupSet, cfg config.Config) Violations

	// Validate returns Violations as an error, or nil when obj is valid.
	Validate(obj any, groups ...Group) error
}
