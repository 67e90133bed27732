package grid

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
	rng "mad-sand/pkg/core"
)

func newTestGrid(t *testing.T, w, h int) (*Grid, particle.ID) {
	t.Helper()
	reg := particle.NewRegistry()
	sand, err := reg.Add(particle.Definition{Name: "Sand", Color: color.RGBA{R: 200, A: 255}, LightLow: 255, LightHigh: 255})
	require.NoError(t, err)
	return New(w, h, reg, rng.NewRNG(1)), sand
}

// fall moves the particle one cell down when that cell is empty.
func fall(g *Grid) {
	if g.IsEmpty(0, 1) {
		g.Swap(0, 1)
	}
}

func column(g *Grid, x int) []particle.ID {
	out := make([]particle.ID, g.Height())
	for y := range out {
		out[y] = g.ParticleAt(x, y).Type
	}
	return out
}

func TestSandFallsOneCellPerTick(t *testing.T) {
	g, sand := newTestGrid(t, 3, 3)
	g.SetBehavior(sand, Behavior{Update: fall})
	require.True(t, g.SetParticleAt(1, 0, sand))

	g.Tick()
	assert.Equal(t, particle.EmptyID, g.ParticleAt(1, 0).Type)
	assert.Equal(t, sand, g.ParticleAt(1, 1).Type)

	g.Tick()
	assert.Equal(t, particle.EmptyID, g.ParticleAt(1, 1).Type)
	assert.Equal(t, sand, g.ParticleAt(1, 2).Type)

	g.Tick()
	assert.Equal(t, sand, g.ParticleAt(1, 2).Type, "sand rests on the floor")
}

func TestExactlyOnceAcrossAllOrders(t *testing.T) {
	g, sand := newTestGrid(t, 1, 10)
	g.SetBehavior(sand, Behavior{Update: fall})
	g.SetParticleAt(0, 0, sand)

	for tick := 1; tick <= 8; tick++ {
		g.Tick()
		want := make([]particle.ID, 10)
		want[tick] = sand
		require.Equal(t, want, column(g, 0), "after tick %d", tick)
	}
}

func TestHorizontalMoverInvokedOncePerTick(t *testing.T) {
	g, mover := newTestGrid(t, 12, 1)
	calls := 0
	g.SetBehavior(mover, Behavior{Update: func(g *Grid) {
		calls++
		if g.IsEmpty(1, 0) {
			g.MoveTo(1, 0)
		}
	}})
	g.SetParticleAt(0, 0, mover)
	g.SetParticleAt(3, 0, mover)

	for tick := 1; tick <= 4; tick++ {
		calls = 0
		g.Tick()
		assert.Equal(t, 2, calls, "tick %d", tick)
		assert.Equal(t, mover, g.ParticleAt(tick, 0).Type)
		assert.Equal(t, mover, g.ParticleAt(3+tick, 0).Type)
	}
}

func TestStationaryParticleStaysEligible(t *testing.T) {
	g, sand := newTestGrid(t, 2, 2)
	calls := 0
	g.SetBehavior(sand, Behavior{Update: func(*Grid) { calls++ }})
	g.SetParticleAt(0, 0, sand)

	for i := 0; i < 6; i++ {
		g.Tick()
	}
	assert.Equal(t, 6, calls)
	assert.Equal(t, uint64(6), g.Ticks())
}

func TestBoundsSafety(t *testing.T) {
	g, sand := newTestGrid(t, 3, 3)
	g.SetParticleAt(0, 0, sand)
	before := append([]particle.Particle(nil), g.Cells()...)

	offsets := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {-5, -5}, {10, 1}}
	for _, o := range offsets {
		assert.Equal(t, particle.Invalid, g.Get(o[0], o[1]))
		assert.False(t, g.Set(o[0], o[1], particle.Particle{Type: sand}))
		assert.False(t, g.Swap(o[0], o[1]))
		assert.False(t, g.MoveTo(o[0], o[1]))
		assert.False(t, g.IsEmpty(o[0], o[1]))
		assert.False(t, g.IsParticleAt(o[0], o[1], particle.InvalidID))
		assert.False(t, g.IsAnyParticleAt(o[0], o[1], []particle.ID{particle.InvalidID}))
	}
	assert.Equal(t, before, g.Cells())
	x, y := g.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	assert.False(t, g.SetParticleAt(3, 0, sand))
	assert.False(t, g.SetParticleAt(0, 0, 77))
	assert.False(t, g.Set(0, 0, particle.Invalid))
	assert.Equal(t, before, g.Cells())
}

func TestMoveToFollowsParticle(t *testing.T) {
	g, sand := newTestGrid(t, 3, 3)
	g.SetParticleAt(0, 0, sand)

	require.True(t, g.MoveTo(1, 1))
	x, y := g.Cursor()
	assert.Equal(t, [2]int{1, 1}, [2]int{x, y})
	assert.Equal(t, sand, g.Get(0, 0).Type)
	assert.True(t, g.IsEmpty(-1, -1))
	assert.True(t, g.MoveTo(0, 0))
}

func TestNewParticleDrawsFromRanges(t *testing.T) {
	reg := particle.NewRegistry()
	id, err := reg.Add(particle.Definition{Name: "Fire", LightLow: 100, LightHigh: 110, ExtraLow: 3, ExtraHigh: 5})
	require.NoError(t, err)
	g := New(2, 2, reg, rng.NewRNG(9))

	for i := 0; i < 100; i++ {
		p := g.NewParticle(id)
		require.Equal(t, id, p.Type)
		require.GreaterOrEqual(t, p.Light, uint8(100))
		require.LessOrEqual(t, p.Light, uint8(110))
		require.GreaterOrEqual(t, p.Extra, uint8(3))
		require.LessOrEqual(t, p.Extra, uint8(5))
	}
	assert.Equal(t, particle.Invalid, g.NewParticle(55))
}

func TestAfterTickRunsOncePerTypeAndResetsCursor(t *testing.T) {
	g, sand := newTestGrid(t, 4, 4)
	hooks := 0
	g.SetBehavior(sand, Behavior{
		Update:    func(g *Grid) { g.SetTransformation(transform.Rotate(3)) },
		AfterTick: func(*Grid) { hooks++ },
	})
	g.SetParticleAt(1, 1, sand)
	g.SetParticleAt(2, 2, sand)

	g.Tick()
	assert.Equal(t, 1, hooks)
	x, y := g.Cursor()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Equal(t, transform.Identity(), g.Transformation())
}

func TestTransformationResolve(t *testing.T) {
	g, _ := newTestGrid(t, 2, 2)
	prev := g.SetTransformation(transform.Horizontal(true))
	assert.Equal(t, transform.Identity(), prev)
	assert.Equal(t, transform.Left, g.Resolve(transform.Right))
}

func TestReplaceAndClear(t *testing.T) {
	g, sand := newTestGrid(t, 3, 1)
	g.SetParticleAt(0, 0, sand)
	g.SetParticleAt(2, 0, sand)

	assert.Equal(t, 2, g.Replace(sand, particle.EmptyID))
	assert.Equal(t, []particle.ID{0, 0, 0}, column3(g))

	g.SetParticleAt(1, 0, sand)
	g.Clear()
	assert.Equal(t, []particle.ID{0, 0, 0}, column3(g))
}

func column3(g *Grid) []particle.ID {
	out := make([]particle.ID, g.Width())
	for x := range out {
		out[x] = g.ParticleAt(x, 0).Type
	}
	return out
}

func TestBehaviorTable(t *testing.T) {
	g, sand := newTestGrid(t, 1, 1)
	assert.Nil(t, g.Behavior(sand).Update)

	g.SetBehavior(sand, Behavior{Update: fall})
	assert.NotNil(t, g.Behavior(sand).Update)
	g.SetBehavior(particle.InvalidID, Behavior{Update: fall})

	g.ClearBehavior(sand)
	assert.Nil(t, g.Behavior(sand).Update)
	assert.Nil(t, g.Behavior(500).Update)
}

func TestVoidErasesNeighboursButNotWalls(t *testing.T) {
	reg := particle.NewRegistry()
	sand, _ := reg.Add(particle.Definition{Name: "Sand"})
	void, _ := reg.Add(particle.Definition{Name: "Void"})
	g := New(3, 3, reg, rng.NewRNG(2))

	factory, ok := Native("VOID")
	require.True(t, ok)
	g.SetBehavior(void, factory(reg))

	g.SetParticleAt(1, 1, void)
	g.SetParticleAt(0, 0, sand)
	g.SetParticleAt(2, 2, sand)

	// Wall is registered after the void was built; the post-tick hook picks
	// it up before the next tick.
	wall, _ := reg.Add(particle.Definition{Name: "Wall"})
	wallFactory, _ := Native("wall")
	g.SetBehavior(wall, wallFactory(reg))
	g.SetParticleAt(2, 0, wall)
	g.Tick()

	assert.True(t, g.ParticleAt(0, 0).IsEmpty())
	assert.True(t, g.ParticleAt(2, 2).IsEmpty())
	assert.Equal(t, void, g.ParticleAt(1, 1).Type)

	g.SetParticleAt(0, 2, wall)
	g.Tick()
	assert.Equal(t, wall, g.ParticleAt(0, 2).Type)
	assert.Equal(t, []string{"void", "wall"}, NativeNames())
}
