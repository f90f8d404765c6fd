package validator

import "slices"

// Kind names a constraint evaluator.
type Kind string

// Built-in kinds.
const (
	KindNotNull  Kind = "not-null"
	KindNotEmpty Kind = "not-empty"
	KindNotBlank Kind = "not-blank"
	KindSize     Kind = "size-range"
	KindRange    Kind = "numeric-range"
	KindPattern  Kind = "pattern"
	KindEmail    Kind = "email"
	KindPositive Kind = "positive"
	KindNegative Kind = "negative"
	KindPast     Kind = "past"
	KindFuture   Kind = "future"
)

// Well-known parameter names.
const (
	ParamMin    = "min"
	ParamMax    = "max"
	ParamRegexp = "regexp"

	// FieldViolations is set on the params of object-level constraints to the
	// number of field-level violations found in the same pass.
	FieldViolations = "fieldViolations"
)

// Params are the parameters of a constraint. Message templates refer to them
// as {name}.
type Params map[string]any

// Constraint is a named, parameterized rule attached to a field path or, for
// custom kinds, to the whole object.
type Constraint struct {
	Kind    Kind
	Params  Params
	Groups  []Group
	Message string

	// Sensitive constraints never report the invalid value.
	Sensitive bool
}

// Option customizes a constraint.
type Option func(*Constraint)

// InGroups scopes the constraint to groups. Without it the constraint belongs
// to the Default group.
func InGroups(groups ...Group) Option {
	return func(c *Constraint) {
		c.Groups = append(c.Groups, groups...)
	}
}

// WithMessage replaces the default message. Params are substituted for {name}.
func WithMessage(template string) Option {
	return func(c *Constraint) {
		c.Message = template
	}
}

// Sensitive drops the invalid value from violations of the constraint.
func Sensitive() Option {
	return func(c *Constraint) {
		c.Sensitive = true
	}
}

func newConstraint(kind Kind, params Params, opts []Option) Constraint {
	c := Constraint{Kind: kind, Params: params}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NotNull requires a non-nil value.
func NotNull(opts ...Option) Constraint {
	return newConstraint(KindNotNull, nil, opts)
}

// NotEmpty requires a non-nil value with a length greater than zero.
func NotEmpty(opts ...Option) Constraint {
	return newConstraint(KindNotEmpty, nil, opts)
}

// NotBlank requires a string with at least one non-whitespace character.
func NotBlank(opts ...Option) Constraint {
	return newConstraint(KindNotBlank, nil, opts)
}

// Size requires a length in [min, max]. A negative max means no upper bound.
func Size(minLen, maxLen int, opts ...Option) Constraint {
	return newConstraint(KindSize, Params{ParamMin: minLen, ParamMax: maxLen}, opts)
}

// Min requires a number >= n.
func Min(n float64, opts ...Option) Constraint {
	return newConstraint(KindRange, Params{ParamMin: n}, opts)
}

// Max requires a number <= n.
func Max(n float64, opts ...Option) Constraint {
	return newConstraint(KindRange, Params{ParamMax: n}, opts)
}

// Range requires a number in [lo, hi].
func Range(lo, hi float64, opts ...Option) Constraint {
	return newConstraint(KindRange, Params{ParamMin: lo, ParamMax: hi}, opts)
}

// Pattern requires the string form of the value to match expr.
func Pattern(expr string, opts ...Option) Constraint {
	return newConstraint(KindPattern, Params{ParamRegexp: expr}, opts)
}

// Email requires a valid email address.
func Email(opts ...Option) Constraint {
	return newConstraint(KindEmail, nil, opts)
}

// Positive requires a number > 0.
func Positive(opts ...Option) Constraint {
	return newConstraint(KindPositive, nil, opts)
}

// Negative requires a number < 0.
func Negative(opts ...Option) Constraint {
	return newConstraint(KindNegative, nil, opts)
}

// Past requires an instant before now.
func Past(opts ...Option) Constraint {
	return newConstraint(KindPast, nil, opts)
}

// Future requires an instant after now.
func Future(opts ...Option) Constraint {
	return newConstraint(KindFuture, nil, opts)
}

// Custom references a rule registered with Schema.RegisterCustomRule.
func Custom(kind Kind, params Params, opts ...Option) Constraint {
	return newConstraint(kind, params, opts)
}

var builtinKinds = []Kind{
	KindNotNull, KindNotEmpty, KindNotBlank, KindSize, KindRange, KindPattern,
	KindEmail, KindPositive, KindNegative, KindPast, KindFuture,
}

// IsBuiltin reports whether k is one of the built-in kinds.
func (k Kind) IsBuiltin() bool {
	return slices.Contains(builtinKinds, k)
}

// checksNil reports whether the kind itself decides about nil values.
// Every other built-in kind accepts nil.
func (k Kind) checksNil() bool {
	return k == KindNotNull || k == KindNotEmpty || k == KindNotBlank || !k.IsBuiltin()
}
