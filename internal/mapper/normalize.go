package mapper

import (
	"maps"
	"slices"
	"strings"
)

// Normalize lower-cases every key of a gateway payload, recursively. When keys
// collide after lower-casing, an already lower-case key wins, otherwise the
// lexically smallest source key does.
func Normalize(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for _, key := range slices.Sorted(maps.Keys(data)) {
		value := data[key]
		lower := strings.ToLower(strings.TrimSpace(key))
		if _, exists := out[lower]; exists && lower != key {
			continue
		}
		out[lower] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return Normalize(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = normalizeValue(item)
		}
		return items
	default:
		return value
	}
}
