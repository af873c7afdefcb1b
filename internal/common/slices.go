package common

import (
	"cmp"
	"slices"
)

// CountBy counts elements per key, skipping empty keys.
// The returned order slice lists keys in first-seen order.
func CountBy[S ~[]E, E any](s S, key func(E) string) (counts map[string]int, order []string) {
	counts = make(map[string]int, len(s))

	for _, e := range s {
		k := key(e)
		if k == "" {
			continue
		}

		if counts[k] == 0 {
			order = append(order, k)
		}

		counts[k]++
	}

	return counts, order
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
