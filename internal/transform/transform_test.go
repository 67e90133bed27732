package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-sand/pkg/core"
)

func sampleDirections() []Direction {
	var out []Direction
	for y := -3; y <= 3; y++ {
		for x := -3; x <= 3; x++ {
			out = append(out, Direction{x, y})
		}
	}
	return out
}

func TestHorizontalReflectionIsInvolution(t *testing.T) {
	h := Horizontal(true)
	for _, d := range sampleDirections() {
		assert.Equal(t, d, h.Apply(h.Apply(d)), "direction %v", d)
	}
	assert.Equal(t, Left, h.Apply(Right))
	assert.Equal(t, Down, h.Apply(Down))
	assert.Equal(t, Right, Horizontal(false).Apply(Right))
}

func TestVerticalAndFullReflection(t *testing.T) {
	assert.Equal(t, Up, Vertical(true).Apply(Down))
	assert.Equal(t, UpLeft, Reflect(true, true).Apply(DownRight))
	assert.Equal(t, DownLeft, Reflect(true, false).Apply(DownRight))
}

func TestRotationFullTurnIsIdentity(t *testing.T) {
	one := Rotate(1)
	for _, d := range sampleDirections() {
		got := d
		for i := 0; i < 8; i++ {
			got = one.Apply(got)
		}
		assert.Equal(t, d, got, "direction %v", d)
		assert.Equal(t, d, Rotate(8).Apply(d))
	}
}

func TestRotationOfDistantOffsets(t *testing.T) {
	far := Direction{MaxOffset, -3}
	assert.Equal(t, Direction{3, MaxOffset}, Rotate(2).Apply(far))
	assert.Equal(t, far, Rotate(8).Apply(far))
	assert.Equal(t, Direction{-MaxOffset, 3}, Rotate(-4).Apply(far))

	huge := Direction{math.MaxInt, math.MinInt}
	assert.Equal(t, huge, Rotate(3).Apply(huge))
}

func TestRotationQuarterTurnsAreExact(t *testing.T) {
	quarter := Rotate(2)
	for _, d := range sampleDirections() {
		assert.Equal(t, Direction{-d.Y, d.X}, quarter.Apply(d), "direction %v", d)
	}
}

func TestRotationWalksNeighbourhood(t *testing.T) {
	for i, d := range Neighbours {
		next := Neighbours[(i+1)%len(Neighbours)]
		assert.Equal(t, next, Rotate(1).Apply(d), "rotating %v", d)
	}
	assert.Equal(t, UpLeft, Rotate(-1).Apply(Up))
}

func TestVariantsCounts(t *testing.T) {
	cases := map[Kind]int{
		None:                 1,
		HorizontalReflection: 2,
		VerticalReflection:   2,
		Reflection:           4,
		Rotation:             8,
	}
	for k, n := range cases {
		vs := Variants(k)
		require.Len(t, vs, n, "kind %s", k)
		seen := map[Direction]bool{}
		for _, v := range vs {
			seen[v.Apply(Direction{2, 1})] = true
		}
		assert.Len(t, seen, n, "variants of %s should be distinct", k)
	}
}

func TestRandomStaysWithinKind(t *testing.T) {
	rng := core.NewRNG(11)
	for _, k := range []Kind{None, HorizontalReflection, VerticalReflection, Reflection, Rotation} {
		for i := 0; i < 20; i++ {
			assert.Equal(t, k, Random(k, rng).Kind())
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("rotation")
	require.NoError(t, err)
	assert.Equal(t, Rotation, k)
	assert.Equal(t, "HorizontalReflection", HorizontalReflection.String())

	_, err = ParseKind("Shear")
	assert.Error(t, err)
}

func TestNamed(t *testing.T) {
	d, ok := Named("DownLeft")
	require.True(t, ok)
	assert.Equal(t, DownLeft, d)
	_, ok = Named("sideways")
	assert.False(t, ok)
	assert.Equal(t, Direction{1, 2}, Down.Add(DownRight))
	assert.Equal(t, Direction{-1, 0}, Down.Sub(DownRight))
}
