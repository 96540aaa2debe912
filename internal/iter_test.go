package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"a", "b"})
	b := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	// Early stop.
	count := 0
	for range IterSeq2Concat(a, b) {
		count++
		break
	}
	assert.Equal(1, count)

	for range IterSeq2Concat[int, string]() {
		assert.Fail("empty concatenation yielded")
	}
}

func TestIterSeq2Collect(t *testing.T) {
	assert := assert.New(t)

	first := maps.All(map[string]uint16{"A": 1, "B": 2})
	second := maps.All(map[string]uint16{"B": 3})

	out := IterSeq2Collect(IterSeq2Concat(first, second))
	assert.Equal(map[string]uint16{"A": 1, "B": 3}, out)
}
