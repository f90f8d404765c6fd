package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is the sentinel matched by every *ConfigError.
	ErrConfig = errors.New("config: invalid configuration")

	// ErrAmbiguousKey is the sentinel matched by every *AmbiguousKeyError.
	ErrAmbiguousKey = errors.New("config: ambiguous key")
)

// ConfigError reports a configuration that cannot be resolved: a missing
// required key, two layers disagreeing on an immutable key, or a value that
// does not match its declared type.
//
//nolint:revive // ConfigError reads better than Error at call sites.
type ConfigError struct {
	Key    string
	Layer  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("config: key %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config: key %q in layer %q: %s", e.Key, e.Layer, e.Reason)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// AmbiguousKeyError reports raw spellings in one layer that normalize to the
// same key but carry different values.
type AmbiguousKeyError struct {
	Key       string
	Layer     string
	Spellings []string
}

// Error implements the error interface.
func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("config: layer %q defines %q with conflicting values via %s",
		e.Layer, e.Key, strings.Join(e.Spellings, ", "))
}

// Unwrap returns ErrAmbiguousKey.
func (e *AmbiguousKeyError) Unwrap() error {
	return ErrAmbiguousKey
}
