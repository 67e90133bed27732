package sandbox

import (
	"log/slog"

	"mad-sand/internal/core"
)

// Layout draws a scene's initial contents onto a cleared grid.
type Layout func(s *Simulation)

var layouts = map[string]Layout{
	"sandbox":   sandboxLayout,
	"hourglass": hourglassLayout,
	"rain":      rainLayout,
}

func init() {
	for name := range layouts {
		name := name
		core.Register(name, func(cfg map[string]string) (core.Sim, error) {
			sim, err := NewScene(name, FromMap(cfg), slog.Default())
			if err != nil {
				return nil, err
			}
			return sim, nil
		})
	}
}

// NewScene builds a simulation with the configured rule documents loaded
// and the named layout drawn. An unknown scene name draws nothing.
// Documents that fail to load are logged and skipped.
func NewScene(name string, cfg Config, log *slog.Logger) (*Simulation, error) {
	s := New(cfg, log)
	s.name = name
	s.layout = layouts[name]
	if cfg.Defaults {
		if err := s.LoadDefaults(); err != nil {
			return nil, err
		}
	}
	if cfg.Rules != "" {
		if err := s.LoadDir(cfg.Rules); err != nil {
			s.log.Warn("some rule documents failed to load", "dir", cfg.Rules, "err", err)
		}
	}
	s.Reset(cfg.Seed)
	return s, nil
}

// paint writes a type by name, skipping types that are not registered.
func (s *Simulation) paint(x, y int, name string) {
	if id := s.reg.IDFromName(name); id != 0 && s.reg.Valid(id) {
		s.grid.SetParticleAt(x, y, id)
	}
}

func (s *Simulation) border(name string) {
	w, h := s.grid.Width(), s.grid.Height()
	for x := 0; x < w; x++ {
		s.paint(x, h-1, name)
	}
	for y := 0; y < h; y++ {
		s.paint(0, y, name)
		s.paint(w-1, y, name)
	}
}

// sandboxLayout is an open box with a few piles to play with.
func sandboxLayout(s *Simulation) {
	w, h := s.grid.Width(), s.grid.Height()
	s.border("Wall")
	r := s.grid.Rand()
	for i := 0; i < w*h/40; i++ {
		x := r.IntRange(w/8, w/3)
		y := r.IntRange(h/8, h/2)
		s.paint(x, y, "Sand")
	}
	for i := 0; i < w*h/40; i++ {
		x := r.IntRange(2*w/3, 7*w/8)
		y := r.IntRange(h/8, h/2)
		s.paint(x, y, "Water")
	}
	for x := w / 3; x < 2*w/3; x++ {
		s.paint(x, 3*h/4, "Stone")
	}
}

// hourglassLayout draws two wall funnels meeting at a neck in the middle,
// with the top half filled with sand.
func hourglassLayout(s *Simulation) {
	w, h := s.grid.Width(), s.grid.Height()
	s.border("Wall")
	for x := 0; x < w; x++ {
		s.paint(x, 0, "Wall")
	}
	mid, cx := h/2, w/2
	half := max(mid, 1)
	for y := 1; y < h-1; y++ {
		dist := y - mid
		if dist < 0 {
			dist = -dist
		}
		open := 1 + dist*(cx-1)/half
		for x := 1; x < w-1; x++ {
			inside := x >= cx-open && x <= cx+open
			switch {
			case !inside:
				s.paint(x, y, "Wall")
			case y < mid-1 && y > mid/4:
				s.paint(x, y, "Sand")
			}
		}
	}
}

// rainLayout puts a cloud layer at the top, platforms in the middle and a
// void drain along the floor.
func rainLayout(s *Simulation) {
	w, h := s.grid.Width(), s.grid.Height()
	r := s.grid.Rand()
	for x := 0; x < w; x++ {
		s.paint(x, 0, "Cloud")
		s.paint(x, h-1, "Void")
	}
	for i := 0; i < 4; i++ {
		y := r.IntRange(h/4, 3*h/4)
		x0 := r.IntRange(0, w-1)
		for x := x0; x < min(w, x0+w/4); x++ {
			s.paint(x, y, "Stone")
		}
		s.paint(x0+w/8, y-1, "Plant")
	}
}
