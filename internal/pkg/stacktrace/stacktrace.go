// Package stacktrace trims goroutine stacks down to the frames of this
// module, for logging recovered panics.
package stacktrace

import (
	"runtime/debug"
	"strings"
)

// Internal returns the internal frames of the calling goroutine's stack.
func Internal() []string {
	return InternalPaths(debug.Stack())
}

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// a raw stack trace that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.Lines(string(stack)) {
		file, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if !strings.Contains(file, ".go:") {
			continue
		}

		if _, rel, ok := strings.Cut(file, "/internal/"); ok {
			paths = append(paths, "internal/"+rel)
		}
	}

	return paths
}
