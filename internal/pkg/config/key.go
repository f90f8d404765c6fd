package config

import (
	"fmt"
	"sort"

	"github.com/shandysiswandi/gatekeep/internal/pkg/strcase"
)

// NormalizeKey returns the canonical form of a configuration key.
//
// Case and the separators '.', '-' and '_' are ignored, which makes
// "my.property-name", "MY_PROPERTY_NAME" and "myPropertyName" one key.
func NormalizeKey(key string) string {
	return strcase.Squash(key)
}

// flatten turns nested maps into dotted keys. Non-map values are kept as is.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, out)
		case map[any]any:
			converted := make(map[string]any, len(child))
			for ck, cv := range child {
				converted[fmt.Sprint(ck)] = cv
			}
			flatten(key, converted, out)
		default:
			out[key] = v
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
