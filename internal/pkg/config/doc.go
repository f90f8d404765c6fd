// Package config resolves layered configuration into immutable snapshots.
//
// A resolution cycle takes an ordered list of named layers (base defaults,
// active profiles, process environment, explicit overrides), normalizes every
// key to one relaxed canonical form and merges them by precedence into a
// Snapshot. Snapshots are never patched: a refresh builds a new one and the
// Store swaps its pointer atomically, so readers always see a consistent view.
//
// Loading layers from files and the environment is the Loader's job; Resolve
// itself performs no I/O.
package config
