package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000), "draw %d diverged", i)
	}

	a.Reseed(7)
	c := NewRNG(7)
	assert.Equal(t, c.IntN(1000), a.IntN(1000))
}

func TestIntRangeInclusive(t *testing.T) {
	r := NewRNG(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := r.IntRange(5, 2)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 4)
}

func TestIntRangeWideBounds(t *testing.T) {
	r := NewRNG(9)
	for i := 0; i < 200; i++ {
		v := r.IntRange(0, math.MaxInt)
		require.GreaterOrEqual(t, v, 0)
		require.NotPanics(t, func() { r.IntRange(math.MinInt, math.MaxInt) })
		v = r.IntRange(math.MaxInt, -1)
		require.GreaterOrEqual(t, v, -1)
	}
	assert.Equal(t, math.MinInt, r.IntRange(math.MinInt, math.MinInt))
}

func TestUint8RangeBounds(t *testing.T) {
	r := NewRNG(3)
	assert.Equal(t, uint8(9), r.Uint8Range(9, 9))
	for i := 0; i < 200; i++ {
		v := r.Uint8Range(250, 255)
		require.GreaterOrEqual(t, v, uint8(250))
	}
}

func TestOneInDegenerate(t *testing.T) {
	r := NewRNG(5)
	assert.True(t, r.OneIn(1))
	assert.True(t, r.OneIn(0))
	assert.True(t, r.OneIn(-4))
	assert.Equal(t, 0, r.IntN(0))
}
