package config

const profilePrefix = "profile:"

// Tier is the precedence class of a layer. Higher tiers win.
type Tier int

const (
	// TierDefault holds the base defaults.
	TierDefault Tier = iota
	// TierProfile holds profile specific sources, in activation order.
	TierProfile
	// TierEnvironment holds values read from the process environment.
	TierEnvironment
	// TierOverride holds explicit runtime overrides.
	TierOverride
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierProfile:
		return "profile"
	case TierEnvironment:
		return "environment"
	case TierOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Layer is one already materialized configuration source.
//
// Values may be nested maps; they are flattened to dotted keys before merging.
type Layer struct {
	Name   string
	Tier   Tier
	Values map[string]any
}

// Base returns the base default layer.
func Base(values map[string]any) Layer {
	return Layer{Name: "default", Tier: TierDefault, Values: values}
}

// Profile returns the layer of an active profile.
func Profile(name string, values map[string]any) Layer {
	return Layer{Name: profilePrefix + name, Tier: TierProfile, Values: values}
}

// Environment returns the process environment layer.
func Environment(values map[string]any) Layer {
	return Layer{Name: "environment", Tier: TierEnvironment, Values: values}
}

// Override returns the explicit runtime override layer.
func Override(values map[string]any) Layer {
	return Layer{Name: "override", Tier: TierOverride, Values: values}
}

// StringValues converts a string map, such as parsed environment variables,
// into layer values.
func StringValues(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
