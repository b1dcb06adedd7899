package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for range 16 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestWeighted(t *testing.T) {
	rng := New(7)

	assert.Equal(t, -1, Weighted(rng, nil))
	assert.Equal(t, -1, Weighted(rng, []int{0, 0, -3}))

	for range 100 {
		assert.Equal(t, 2, Weighted(rng, []int{0, -1, 5, 0}))
	}

	counts := make([]int, 3)
	for range 30000 {
		counts[Weighted(rng, []int{1, 2, 3})]++
	}
	assert.InDelta(t, 5000, counts[0], 500)
	assert.InDelta(t, 10000, counts[1], 700)
	assert.InDelta(t, 15000, counts[2], 700)
}
