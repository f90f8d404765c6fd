package validator

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidConstraint is returned when a constraint cannot be registered.
	ErrInvalidConstraint = errors.New("validator: invalid constraint")

	// ErrSchemaFrozen is returned when registering on a schema already used by an Executor.
	ErrSchemaFrozen = errors.New("validator: schema is frozen")

	// ErrUnknownKind is returned by NewExecutor when a constraint names an unregistered kind.
	ErrUnknownKind = errors.New("validator: unknown constraint kind")
)

func errorf(kind Kind, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConstraint, kind, reason)
}

type rule struct {
	eval    Evaluator
	message string
}

// RuleOption customizes a custom rule.
type RuleOption func(*rule)

// WithDefaultMessage sets the message used when a constraint of the rule has none.
func WithDefaultMessage(template string) RuleOption {
	return func(r *rule) {
		r.message = template
	}
}

type registered struct {
	Constraint
	path fieldPath
}

// Schema is the registry of constraints and custom rules.
//
// A Schema is mutable until it is passed to NewExecutor.
type Schema struct {
	mu          sync.Mutex
	frozen      bool
	constraints []registered
	rules       map[Kind]rule
}

// NewSchema returns an empty Schema.
func NewSchema() *Schema {
	return &Schema{rules: make(map[Kind]rule)}
}

// RegisterConstraint attaches c to path. An empty path registers an
// object-level constraint, which must use a custom kind.
func (s *Schema) RegisterConstraint(path string, c Constraint) error {
	if c.Kind == "" {
		return errorf(c.Kind, "kind is required")
	}

	fp, err := parsePath(path)
	if err != nil {
		return err
	}

	if fp.objectLevel() && c.Kind.IsBuiltin() {
		return errorf(c.Kind, "object-level constraints must use a custom kind")
	}

	if c.Kind.IsBuiltin() {
		if c.Params, err = compileParams(c.Kind, c.Params); err != nil {
			return err
		}
	}
	c.Groups = append([]Group(nil), c.Groups...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrSchemaFrozen
	}
	s.constraints = append(s.constraints, registered{Constraint: c, path: fp})

	return nil
}

// RegisterCustomRule registers eval under kind. The evaluator is not invoked
// during registration.
func (s *Schema) RegisterCustomRule(kind Kind, eval Evaluator, opts ...RuleOption) error {
	if kind == "" || eval == nil {
		return errorf(kind, "kind and evaluator are required")
	}
	if kind.IsBuiltin() {
		return errorf(kind, "cannot replace a built-in kind")
	}

	r := rule{eval: eval}
	for _, opt := range opts {
		opt(&r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrSchemaFrozen
	}
	if _, ok := s.rules[kind]; ok {
		return errorf(kind, "rule already registered")
	}
	s.rules[kind] = r

	return nil
}

// freeze marks the schema read-only and returns its contents.
func (s *Schema) freeze() ([]registered, map[Kind]rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frozen = true

	rules := make(map[Kind]rule, len(s.rules))
	for k, r := range s.rules {
		rules[k] = r
	}

	return append([]registered(nil), s.constraints...), rules
}
