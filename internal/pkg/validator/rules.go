package validator

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/spf13/cast"
)

// Evaluator reports whether value satisfies a rule. It must be a pure
// function of its arguments.
type Evaluator func(value any, params Params) bool

func builtinRules(v10 *validator.Validate, clk clock.Clocker) map[Kind]Evaluator {
	return map[Kind]Evaluator{
		KindNotNull: func(value any, _ Params) bool {
			return !isNil(value)
		},
		KindNotEmpty: func(value any, _ Params) bool {
			n, ok := length(value)
			return !isNil(value) && (!ok || n > 0)
		},
		KindNotBlank: func(value any, _ Params) bool {
			if isNil(value) {
				return false
			}
			return strings.TrimSpace(cast.ToString(value)) != ""
		},
		KindSize: func(value any, params Params) bool {
			n, ok := length(value)
			if !ok {
				return false
			}
			maxLen := cast.ToInt(params[ParamMax])
			return n >= cast.ToInt(params[ParamMin]) && (maxLen < 0 || n <= maxLen)
		},
		KindRange: func(value any, params Params) bool {
			var bounds []string
			if lo, ok := params[ParamMin]; ok {
				bounds = append(bounds, "gte="+formatFloat(cast.ToFloat64(lo)))
			}
			if hi, ok := params[ParamMax]; ok {
				bounds = append(bounds, "lte="+formatFloat(cast.ToFloat64(hi)))
			}
			return number(v10, value, strings.Join(bounds, ","))
		},
		KindPattern: func(value any, params Params) bool {
			re, ok := params[ParamRegexp].(*regexp.Regexp)
			if !ok {
				return false
			}
			s, err := cast.ToStringE(value)
			return err == nil && re.MatchString(s)
		},
		KindEmail: func(value any, _ Params) bool {
			s, err := cast.ToStringE(value)
			return err == nil && v10.Var(s, "email") == nil
		},
		KindPositive: func(value any, _ Params) bool {
			return number(v10, value, "gt=0")
		},
		KindNegative: func(value any, _ Params) bool {
			return number(v10, value, "lt=0")
		},
		KindPast: func(value any, _ Params) bool {
			t, err := cast.ToTimeE(value)
			return err == nil && t.Before(clk.Now())
		},
		KindFuture: func(value any, _ Params) bool {
			t, err := cast.ToTimeE(value)
			return err == nil && t.After(clk.Now())
		},
	}
}

// compileParams checks the params of a built-in kind and returns a copy with
// derived values, such as the compiled regexp, in place.
func compileParams(kind Kind, params Params) (Params, error) {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}

	switch kind {
	case KindSize:
		raw, ok := params[ParamMin]
		if !ok {
			return nil, errorf(kind, "min is required")
		}
		minLen, err := cast.ToIntE(raw)
		if err != nil || minLen < 0 {
			return nil, errorf(kind, "min must be a non-negative integer")
		}
		maxLen := -1
		if raw, ok = params[ParamMax]; ok {
			if maxLen, err = cast.ToIntE(raw); err != nil {
				return nil, errorf(kind, "max must be an integer")
			}
		}
		if maxLen >= 0 && maxLen < minLen {
			return nil, errorf(kind, "max is lower than min")
		}
		out[ParamMin], out[ParamMax] = minLen, maxLen

	case KindRange:
		lo, hasMin := params[ParamMin]
		hi, hasMax := params[ParamMax]
		if !hasMin && !hasMax {
			return nil, errorf(kind, "min or max is required")
		}
		if hasMin {
			if _, err := cast.ToFloat64E(lo); err != nil {
				return nil, errorf(kind, "min must be a number")
			}
		}
		if hasMax {
			if _, err := cast.ToFloat64E(hi); err != nil {
				return nil, errorf(kind, "max must be a number")
			}
		}
		if hasMin && hasMax && cast.ToFloat64(hi) < cast.ToFloat64(lo) {
			return nil, errorf(kind, "max is lower than min")
		}

	case KindPattern:
		expr, err := cast.ToStringE(params[ParamRegexp])
		if err != nil || expr == "" {
			return nil, errorf(kind, "regexp is required")
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errorf(kind, err.Error())
		}
		out[ParamRegexp] = re
	}

	return out, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// length returns the rune count of strings and the element count of
// collections. ok is false for anything else.
func length(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}

	v := indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		return 0, false
	}

	switch v.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(v.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return v.Len(), true
	default:
		return 0, false
	}
}

// number coerces value to float64 and checks it against a validator tag.
// An empty tag only requires the value to be numeric.
func number(v10 *validator.Validate, value any, tag string) bool {
	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) {
		return false
	}
	if tag == "" {
		return true
	}
	return v10.Var(f, tag) == nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
