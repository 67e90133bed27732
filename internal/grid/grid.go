package grid

import (
	"mad-sand/internal/core"
	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
	rng "mad-sand/pkg/core"
)

// Grid is the simulation engine: the cell buffer, the cursor every rule
// addresses relative to, and the clock bit that keeps updates exactly-once.
//
// A cell is eligible during a tick when it is not empty and its Clock
// equals the grid clock. Every write stamps the written cell with the
// inverted clock, so a particle moved ahead of the traversal is not visited
// again in the same tick.
type Grid struct {
	cells     *core.Grid[particle.Particle]
	registry  *particle.Registry
	rng       *rng.RNG
	orders    *OrderCycle
	behaviors []Behavior

	cx, cy int
	clock  bool
	ticks  uint64
	active transform.Transformation
}

// New allocates a w*h grid of empty particles. A nil registry is replaced
// by a fresh one holding only the empty type.
func New(w, h int, registry *particle.Registry, r *rng.RNG) *Grid {
	if registry == nil {
		registry = particle.NewRegistry()
	}
	if r == nil {
		r = rng.NewRNG(0)
	}
	cells := core.NewGrid[particle.Particle](w, h)
	return &Grid{
		cells:    cells,
		registry: registry,
		rng:      r,
		orders:   NewOrderCycle(cells.W, cells.H),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.cells.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.cells.H }

// Registry exposes the particle definitions the grid instantiates from.
func (g *Grid) Registry() *particle.Registry { return g.registry }

// Rand exposes the grid's deterministic random source.
func (g *Grid) Rand() *rng.RNG { return g.rng }

// Ticks returns the number of completed ticks.
func (g *Grid) Ticks() uint64 { return g.ticks }

// Cursor returns the absolute coordinate relative addressing starts from.
func (g *Grid) Cursor() (int, int) { return g.cx, g.cy }

// Cells exposes the cell buffer in row-major order. Callers outside a tick
// must treat it as read-only.
func (g *Grid) Cells() []particle.Particle { return g.cells.Cells() }

// Transformation returns the transformation directions are resolved with.
func (g *Grid) Transformation() transform.Transformation { return g.active }

// SetTransformation installs t and returns the previous transformation so
// callers can restore it.
func (g *Grid) SetTransformation(t transform.Transformation) transform.Transformation {
	prev := g.active
	g.active = t
	return prev
}

// Resolve applies the active transformation to d.
func (g *Grid) Resolve(d transform.Direction) transform.Direction {
	return g.active.Apply(d)
}

func (g *Grid) index(dx, dy int) (int, bool) {
	x, y := g.cx+dx, g.cy+dy
	if !g.cells.InBounds(x, y) {
		return 0, false
	}
	return g.cells.Index(x, y), true
}

// Get reads the cell at the cursor offset, or particle.Invalid.
func (g *Grid) Get(dx, dy int) particle.Particle {
	i, ok := g.index(dx, dy)
	if !ok {
		return particle.Invalid
	}
	return g.cells.Cells()[i]
}

// Set writes p at the cursor offset.
func (g *Grid) Set(dx, dy int, p particle.Particle) bool {
	if p.Type == particle.InvalidID {
		return false
	}
	i, ok := g.index(dx, dy)
	if !ok {
		return false
	}
	p.Clock = !g.clock
	g.cells.Cells()[i] = p
	return true
}

// Swap exchanges the cursor cell with the cell at the offset.
func (g *Grid) Swap(dx, dy int) bool {
	j, ok := g.index(dx, dy)
	if !ok {
		return false
	}
	i, _ := g.index(0, 0)
	cells := g.cells.Cells()
	a, b := cells[i], cells[j]
	a.Clock, b.Clock = !g.clock, !g.clock
	cells[i], cells[j] = b, a
	return true
}

// MoveTo moves the cursor particle to the offset, leaving an empty cell
// behind, and moves the cursor along with it.
func (g *Grid) MoveTo(dx, dy int) bool {
	j, ok := g.index(dx, dy)
	if !ok {
		return false
	}
	if dx == 0 && dy == 0 {
		return true
	}
	i, _ := g.index(0, 0)
	cells := g.cells.Cells()
	moved := cells[i]
	moved.Clock = !g.clock
	cells[j] = moved
	cells[i] = particle.Particle{Clock: !g.clock}
	g.cx += dx
	g.cy += dy
	return true
}

// IsEmpty reports whether the cell at the offset exists and is empty.
func (g *Grid) IsEmpty(dx, dy int) bool {
	return g.Get(dx, dy).Type == particle.EmptyID
}

// IsParticleAt reports whether the cell at the offset holds type id.
func (g *Grid) IsParticleAt(dx, dy int, id particle.ID) bool {
	p := g.Get(dx, dy)
	return p.IsValid() && p.Type == id
}

// IsAnyParticleAt reports whether the cell at the offset holds any of ids.
func (g *Grid) IsAnyParticleAt(dx, dy int, ids []particle.ID) bool {
	p := g.Get(dx, dy)
	if !p.IsValid() {
		return false
	}
	for _, id := range ids {
		if p.Type == id {
			return true
		}
	}
	return false
}

// NewParticle instantiates type id with Light and Extra drawn from the
// definition's ranges. Unknown ids yield particle.Invalid.
func (g *Grid) NewParticle(id particle.ID) particle.Particle {
	def, err := g.registry.Definition(id)
	if err != nil {
		return particle.Invalid
	}
	return particle.Particle{
		Type:  id,
		Light: g.rng.Uint8Range(def.LightLow, def.LightHigh),
		Extra: g.rng.Uint8Range(def.ExtraLow, def.ExtraHigh),
	}
}

// ParticleAt reads an absolute coordinate.
func (g *Grid) ParticleAt(x, y int) particle.Particle {
	p, ok := g.cells.At(x, y)
	if !ok {
		return particle.Invalid
	}
	return p
}

// SetParticleAt paints a fresh particle of type id at an absolute
// coordinate. Out-of-range coordinates or ids are ignored.
func (g *Grid) SetParticleAt(x, y int, id particle.ID) bool {
	if !g.cells.InBounds(x, y) {
		return false
	}
	p := g.NewParticle(id)
	if !p.IsValid() {
		return false
	}
	p.Clock = !g.clock
	g.cells.Cells()[g.cells.Index(x, y)] = p
	return true
}

// Replace rewrites every cell of type from with a fresh particle of type to.
func (g *Grid) Replace(from, to particle.ID) int {
	n := 0
	cells := g.cells.Cells()
	for i := range cells {
		if cells[i].Type != from {
			continue
		}
		p := g.NewParticle(to)
		if !p.IsValid() {
			p = particle.Particle{}
		}
		p.Clock = !g.clock
		cells[i] = p
		n++
	}
	return n
}

// Clear empties every cell and restarts the traversal cycle.
func (g *Grid) Clear() {
	g.cells.Fill(particle.Particle{Clock: !g.clock})
	g.orders.Reset()
	g.cx, g.cy = 0, 0
}

// Tick advances the simulation by one step.
func (g *Grid) Tick() {
	g.clock = !g.clock
	stamp := !g.clock
	order := g.orders.Next()
	cells := g.cells.Cells()
	w := g.cells.W

	for _, y := range order.Ys {
		row := y * w
		for _, x := range order.Xs {
			p := &cells[row+x]
			if p.Type == particle.EmptyID || p.Clock != g.clock {
				continue
			}
			p.Clock = stamp
			g.cx, g.cy = x, y
			g.active = transform.Identity()
			g.dispatch(p.Type)
		}
	}

	g.afterTick()
	g.cx, g.cy = 0, 0
	g.active = transform.Identity()
	g.ticks++
}
