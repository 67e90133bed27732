package grid

import (
	"sort"
	"strings"

	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
)

// NativeFactory builds a compiled-in behavior. The registry is the one the
// behavior's type was just added to.
type NativeFactory func(reg *particle.Registry) Behavior

var natives = map[string]NativeFactory{
	"wall": func(*particle.Registry) Behavior { return Behavior{} },
	"void": voidBehavior,
}

// Native returns the compiled-in behavior factory registered under name.
func Native(name string) (NativeFactory, bool) {
	f, ok := natives[strings.ToLower(name)]
	return f, ok
}

// NativeNames lists the compiled-in behaviors in sorted order.
func NativeNames() []string {
	names := make([]string, 0, len(natives))
	for name := range natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// voidBehavior erases every touching particle except walls and other
// voids. The wall id is cached and refreshed after each tick so it stays
// correct when types are added or removed between ticks.
func voidBehavior(reg *particle.Registry) Behavior {
	wall := reg.IDFromName("Wall")
	return Behavior{
		Update: func(g *Grid) {
			self := g.Get(0, 0).Type
			for _, d := range transform.Neighbours {
				p := g.Get(d.X, d.Y)
				if !p.IsValid() || p.IsEmpty() || p.Type == wall || p.Type == self {
					continue
				}
				g.Set(d.X, d.Y, particle.Particle{})
			}
		},
		AfterTick: func(g *Grid) {
			wall = g.Registry().IDFromName("Wall")
		},
	}
}
