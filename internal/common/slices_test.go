package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountBy(t *testing.T) {
	counts, order := CountBy([]string{"b", "a", "", "b"}, func(s string) string { return s })

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, counts)
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}
