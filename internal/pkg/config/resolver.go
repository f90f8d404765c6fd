package config

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ValueType declares the expected type of a configuration key.
type ValueType int

// Supported value types.
const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeDuration
	TypeStrings
)

// String returns the string representation of the value type.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	case TypeStrings:
		return "[]string"
	default:
		return "unknown"
	}
}

type resolveOptions struct {
	required  []string
	immutable map[string]struct{}
	types     map[string]ValueType
}

// ResolveOption customizes a resolution cycle.
type ResolveOption func(*resolveOptions)

// WithRequired fails resolution when any of keys is absent from every layer.
func WithRequired(keys ...string) ResolveOption {
	return func(o *resolveOptions) {
		o.required = append(o.required, keys...)
	}
}

// WithImmutable declares keys that no layer may redefine with a different value.
func WithImmutable(keys ...string) ResolveOption {
	return func(o *resolveOptions) {
		for _, k := range keys {
			o.immutable[NormalizeKey(k)] = struct{}{}
		}
	}
}

// WithType declares the type of key; every layer value must convert to it.
func WithType(key string, t ValueType) ResolveOption {
	return func(o *resolveOptions) {
		o.types[NormalizeKey(key)] = t
	}
}

// Resolve merges layers into one immutable Snapshot.
//
// Layers are applied by tier (default < profile < environment < override);
// layers of the same tier are applied in the given order, later ones
// overriding earlier ones.
func Resolve(layers []Layer, opts ...ResolveOption) (*Snapshot, error) {
	o := &resolveOptions{
		immutable: make(map[string]struct{}),
		types:     make(map[string]ValueType),
	}
	for _, opt := range opts {
		opt(o)
	}

	ordered := slices.Clone(layers)
	slices.SortStableFunc(ordered, func(a, b Layer) int {
		return cmp.Compare(a.Tier, b.Tier)
	})

	values := make(map[string]entry)
	var profiles []string

	for _, layer := range ordered {
		flat, err := normalizeLayer(layer)
		if err != nil {
			return nil, err
		}

		if layer.Tier == TierProfile {
			profiles = append(profiles, strings.TrimPrefix(layer.Name, profilePrefix))
		}

		for _, key := range sortedKeys(flat) {
			e := flat[key]

			if t, ok := o.types[key]; ok {
				if err := checkType(e.value, t); err != nil {
					return nil, &ConfigError{Key: e.raw, Layer: layer.Name, Reason: err.Error()}
				}
			}

			if prev, ok := values[key]; ok {
				if _, immutable := o.immutable[key]; immutable && !sameValue(prev.value, e.value) {
					return nil, &ConfigError{
						Key:    e.raw,
						Layer:  layer.Name,
						Reason: fmt.Sprintf("immutable key redefined (was %v from %q, now %v)", prev.value, prev.layer, e.value),
					}
				}
			}

			values[key] = e
		}
	}

	for _, key := range o.required {
		if _, ok := values[NormalizeKey(key)]; !ok {
			return nil, &ConfigError{Key: key, Reason: "required key is absent from all layers"}
		}
	}

	return &Snapshot{values: values, profiles: profiles}, nil
}

// normalizeLayer flattens a layer and maps every raw key to its canonical form.
func normalizeLayer(layer Layer) (map[string]entry, error) {
	raw := make(map[string]any, len(layer.Values))
	flatten("", layer.Values, raw)

	out := make(map[string]entry, len(raw))
	for _, rawKey := range sortedKeys(raw) {
		v := raw[rawKey]
		key := NormalizeKey(rawKey)
		if key == "" {
			continue
		}

		if prev, ok := out[key]; ok {
			if !sameValue(prev.value, v) {
				return nil, &AmbiguousKeyError{
					Key:       key,
					Layer:     layer.Name,
					Spellings: []string{prev.raw, rawKey},
				}
			}
			continue
		}

		out[key] = entry{value: v, raw: rawKey, layer: layer.Name}
	}

	return out, nil
}

func checkType(v any, t ValueType) error {
	var err error
	switch t {
	case TypeString:
		_, err = cast.ToStringE(v)
	case TypeInt:
		_, err = cast.ToInt64E(v)
	case TypeFloat:
		_, err = cast.ToFloat64E(v)
	case TypeBool:
		_, err = cast.ToBoolE(v)
	case TypeDuration:
		_, err = cast.ToDurationE(v)
	case TypeStrings:
		if _, ok := v.(string); !ok {
			_, err = cast.ToStringSliceE(v)
		}
	}
	if err != nil {
		return fmt.Errorf("value %v is not a valid %s", v, t)
	}
	return nil
}

// sameValue compares scalars by their string form, so 5432 and "5432" agree,
// and composite values structurally.
func sameValue(a, b any) bool {
	if isScalar(a) && isScalar(b) {
		as, errA := cast.ToStringE(a)
		bs, errB := cast.ToStringE(b)
		return errA == nil && errB == nil && as == bs
	}
	return reflect.DeepEqual(a, b)
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64, time.Duration:
		return true
	default:
		return false
	}
}
