package app

import (
	"fmt"
	"strings"
)

// ParseOverrides turns "key=value" pairs into the override layer values.
// Later pairs win; the value may itself contain '='.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid override %q, want key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}
