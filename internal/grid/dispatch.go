package grid

import "mad-sand/internal/particle"

// Behavior is the dispatch entry for one particle type. Update runs once
// per eligible cell with the cursor on that cell; AfterTick runs once per
// tick after the full pass. Either may be nil.
type Behavior struct {
	Update    func(g *Grid)
	AfterTick func(g *Grid)
}

// SetBehavior installs b for type id, growing the table as needed.
func (g *Grid) SetBehavior(id particle.ID, b Behavior) {
	if id == particle.InvalidID {
		return
	}
	if int(id) >= len(g.behaviors) {
		grown := make([]Behavior, int(id)+1)
		copy(grown, g.behaviors)
		g.behaviors = grown
	}
	g.behaviors[id] = b
}

// ClearBehavior removes the behavior of type id.
func (g *Grid) ClearBehavior(id particle.ID) {
	if int(id) < len(g.behaviors) {
		g.behaviors[id] = Behavior{}
	}
}

// Behavior returns the behavior installed for type id.
func (g *Grid) Behavior(id particle.ID) Behavior {
	if int(id) < len(g.behaviors) {
		return g.behaviors[id]
	}
	return Behavior{}
}

func (g *Grid) dispatch(id particle.ID) {
	if int(id) >= len(g.behaviors) {
		return
	}
	if update := g.behaviors[id].Update; update != nil {
		update(g)
	}
}

func (g *Grid) afterTick() {
	for i := range g.behaviors {
		if hook := g.behaviors[i].AfterTick; hook != nil {
			hook(g)
		}
	}
}
