package validator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
)

// Configuration keys read on every evaluation.
const (
	// KeyFailFast stops evaluation at the first violation.
	KeyFailFast = "validation.fail-fast"
	// KeyDisabledKinds lists kinds that are skipped.
	KeyDisabledKinds = "validation.disabled-kinds"
	// KeySensitiveFields lists field paths whose invalid values are never reported.
	KeySensitiveFields = "validation.sensitive-fields"
)

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithClock sets the clock used by the past and future kinds.
func WithClock(clk clock.Clocker) ExecutorOption {
	return func(e *Executor) {
		e.clock = clk
	}
}

// WithConfig sets the configuration used by Validate.
func WithConfig(cfg config.Config) ExecutorOption {
	return func(e *Executor) {
		e.cfg = cfg
	}
}

// Executor evaluates a frozen Schema. It is safe for concurrent use.
type Executor struct {
	constraints []registered
	rules       map[Kind]rule
	catalog     *catalog
	clock       clock.Clocker
	cfg         config.Config
}

var _ Validator = (*Executor)(nil)

// NewExecutor freezes schema and prepares it for evaluation. It fails when a
// constraint references a kind that is neither built-in nor registered.
func NewExecutor(schema *Schema, opts ...ExecutorOption) (*Executor, error) {
	e := &Executor{clock: clock.New(), cfg: config.Empty()}
	for _, opt := range opts {
		opt(e)
	}

	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}
	e.catalog = cat

	constraints, custom := schema.freeze()

	e.rules = make(map[Kind]rule, len(custom)+len(builtinKinds))
	for kind, eval := range builtinRules(validator.New(), e.clock) {
		e.rules[kind] = rule{eval: eval}
	}
	for kind, r := range custom {
		e.rules[kind] = r
	}

	for _, c := range constraints {
		if _, ok := e.rules[c.Kind]; !ok {
			return nil, fmt.Errorf("%w: %q at path %q", ErrUnknownKind, c.Kind, c.path.raw)
		}
	}
	e.constraints = constraints

	return e, nil
}

// Validate evaluates obj with the executor's configuration and returns
// Violations as an error, or nil when obj is valid.
func (e *Executor) Validate(obj any, groups ...Group) error {
	return e.Evaluate(obj, Groups(groups...), e.cfg).Err()
}

// Evaluate runs every constraint selected by active against obj.
//
// Field-level constraints run in registration order, object-level ones after
// them with params[FieldViolations] set. All violations are collected unless
// validation.fail-fast is set.
func (e *Executor) Evaluate(obj any, active GroupSet, cfg config.Config) Violations {
	if cfg == nil {
		cfg = config.Empty()
	}

	failFast := cfg.GetBool(KeyFailFast)
	disabled := lo.SliceToMap(cfg.GetArray(KeyDisabledKinds), func(k string) (Kind, struct{}) {
		return Kind(strings.ToLower(strings.TrimSpace(k))), struct{}{}
	})
	sensitive := lo.SliceToMap(cfg.GetArray(KeySensitiveFields), func(p string) (string, struct{}) {
		return strings.TrimSpace(p), struct{}{}
	})

	var (
		out         Violations
		objectLevel []registered
	)

	for _, c := range e.constraints {
		if _, off := disabled[c.Kind]; off || !active.selects(c.Groups) {
			continue
		}
		if c.path.objectLevel() {
			objectLevel = append(objectLevel, c)
			continue
		}

		for _, t := range c.path.resolve(obj) {
			if e.check(c, t.path, t.value, c.Params) {
				continue
			}

			out = append(out, e.violation(c, t, c.Params, sensitive))
			if failFast {
				return out
			}
		}
	}

	fieldViolations := len(out)
	for _, c := range objectLevel {
		params := make(Params, len(c.Params)+1)
		for k, v := range c.Params {
			params[k] = v
		}
		params[FieldViolations] = fieldViolations

		if e.check(c, "", obj, params) {
			continue
		}

		out = append(out, e.violation(c, target{}, params, sensitive))
		if failFast {
			return out
		}
	}

	return out
}

// check runs the evaluator of c. A panicking evaluator counts as a failure.
func (e *Executor) check(c registered, path string, value any, params Params) (ok bool) {
	if !c.Kind.checksNil() && isNil(value) {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("validator: rule panicked", "kind", c.Kind, "path", path, "panic", r)
			ok = false
		}
	}()

	return e.rules[c.Kind].eval(value, params)
}

func (e *Executor) violation(c registered, t target, params Params, sensitive map[string]struct{}) Violation {
	template := c.Message
	if template == "" {
		template = e.rules[c.Kind].message
	}

	v := Violation{
		Path:    t.path,
		Kind:    c.Kind,
		Message: e.catalog.render(c.Kind, template, params),
	}

	_, redactPath := sensitive[t.path]
	_, redactDecl := sensitive[c.path.raw]
	if !c.Sensitive && !redactPath && !redactDecl {
		v.InvalidValue = t.value
	}

	return v
}
