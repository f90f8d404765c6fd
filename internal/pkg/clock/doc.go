// Package clock provides a tiny time abstraction.
//
// Error responses are timestamped and temporal constraints (past/future) are
// evaluated against "now", so both depend on the Clocker interface instead of
// calling time.Now() directly. Tests swap in Fixed to get deterministic output.
package clock
