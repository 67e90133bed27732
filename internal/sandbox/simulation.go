// Package sandbox ties the grid engine, the particle registry and the rule
// compiler into a runnable simulation.
package sandbox

import (
	"fmt"
	"log/slog"
	"sort"

	"mad-sand/internal/core"
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/rules"
	rng "mad-sand/pkg/core"
)

// installed is the source of a type's behavior, kept so the behavior can be
// rebuilt when the registry changes.
type installed struct {
	doc      *rules.Document
	compiled *rules.Compiled
}

// Simulation owns a grid, its registry and the rules installed for each
// type. It is single-writer: other goroutines talk to it through Submit.
type Simulation struct {
	name   string
	cfg    Config
	log    *slog.Logger
	reg    *particle.Registry
	grid   *grid.Grid
	types  map[particle.ID]*installed
	queue  chan Command
	layout Layout
}

// New creates an empty simulation: only the Empty type is registered and no
// rule documents are loaded. A nil logger uses slog.Default.
func New(cfg Config, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	reg := particle.NewRegistry()
	return &Simulation{
		name:  "sandbox",
		cfg:   cfg,
		log:   log,
		reg:   reg,
		grid:  grid.New(cfg.Width, cfg.Height, reg, rng.NewRNG(cfg.Seed)),
		types: map[particle.ID]*installed{},
		queue: make(chan Command, cfg.QueueSize),
	}
}

// Name returns the scene identifier.
func (s *Simulation) Name() string { return s.name }

// Size returns the grid dimensions.
func (s *Simulation) Size() core.Size {
	return core.Size{W: s.grid.Width(), H: s.grid.Height()}
}

// Cells exposes the grid cells in row-major order. Callers must treat the
// slice as read-only.
func (s *Simulation) Cells() []particle.Particle { return s.grid.Cells() }

// Registry returns the particle registry.
func (s *Simulation) Registry() *particle.Registry { return s.reg }

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.grid.Ticks() }

// Reset clears the grid, reseeds the random source and redraws the scene
// layout. Registered types and their rules are kept.
func (s *Simulation) Reset(seed int64) {
	s.cfg.Seed = seed
	s.grid.Rand().Reseed(seed)
	s.grid.Clear()
	if s.layout != nil {
		s.layout(s)
	}
}

// Step applies pending commands, then advances the grid by one tick.
func (s *Simulation) Step() {
	s.drain()
	s.grid.Tick()
}

// SetParticleAt paints a fresh particle of type id at an absolute
// coordinate. Unknown ids and out-of-range coordinates are ignored.
func (s *Simulation) SetParticleAt(x, y int, id particle.ID) bool {
	if !s.reg.Valid(id) {
		return false
	}
	return s.grid.SetParticleAt(x, y, id)
}

// ParticleAt reads an absolute coordinate, or particle.Invalid.
func (s *Simulation) ParticleAt(x, y int) particle.Particle {
	return s.grid.ParticleAt(x, y)
}

// AddParticleType parses a rule document, registers its type and installs
// its behavior. A document whose name is already registered replaces that
// type in place. On failure the registry is left as it was.
func (s *Simulation) AddParticleType(data []byte) (particle.ID, error) {
	doc, err := rules.Parse(data)
	if err != nil {
		return particle.InvalidID, err
	}
	return s.AddDocument(doc)
}

// AddDocument registers an already parsed document. See AddParticleType.
func (s *Simulation) AddDocument(doc *rules.Document) (particle.ID, error) {
	if id := s.reg.IDFromName(doc.Name); id != particle.InvalidID {
		return id, s.replace(id, doc)
	}
	n := s.reg.Len()
	id, err := s.reg.Add(doc.Definition())
	if err != nil {
		return particle.InvalidID, fmt.Errorf("sandbox: add %s: %w", doc.Name, err)
	}
	if err := s.install(id, doc); err != nil {
		s.reg.Truncate(n)
		return particle.InvalidID, err
	}
	s.log.Info("particle type added", "name", doc.Name, "id", id)
	s.refresh(false)
	return id, nil
}

func (s *Simulation) replace(id particle.ID, doc *rules.Document) error {
	prev, err := s.reg.Definition(id)
	if err != nil {
		return err
	}
	if err := s.reg.Replace(id, doc.Definition()); err != nil {
		return fmt.Errorf("sandbox: replace %s: %w", doc.Name, err)
	}
	if err := s.install(id, doc); err != nil {
		_ = s.reg.Replace(id, prev)
		return err
	}
	s.log.Info("particle type replaced", "name", doc.Name, "id", id)
	s.refresh(false)
	return nil
}

// RemoveParticleType unregisters a type, clears its cells and recompiles
// every document rule against the smaller registry.
func (s *Simulation) RemoveParticleType(name string) error {
	id, err := s.reg.Remove(name)
	if err != nil {
		return fmt.Errorf("sandbox: remove: %w", err)
	}
	cleared := s.grid.Replace(id, particle.EmptyID)
	s.grid.ClearBehavior(id)
	delete(s.types, id)
	s.log.Info("particle type removed", "name", name, "id", id, "cells", cleared)
	s.refresh(true)
	return nil
}

// install builds the behavior for doc and puts it in the dispatch table.
// Nothing is changed when the build fails.
func (s *Simulation) install(id particle.ID, doc *rules.Document) error {
	if doc.Native != "" {
		factory, ok := grid.Native(doc.Native)
		if !ok {
			return fmt.Errorf("sandbox: %s: unknown native behavior %q", doc.Name, doc.Native)
		}
		s.grid.SetBehavior(id, factory(s.reg))
		s.types[id] = &installed{doc: doc}
		return nil
	}
	compiled, err := rules.Compile(doc, s.reg)
	if err != nil {
		return fmt.Errorf("sandbox: %s: %w", doc.Name, err)
	}
	if names := compiled.Unresolved(); len(names) > 0 {
		s.log.Warn("rule references unknown types", "name", doc.Name, "unresolved", names)
	}
	s.grid.SetBehavior(id, compiled.Behavior(id))
	s.types[id] = &installed{doc: doc, compiled: compiled}
	return nil
}

// refresh rebuilds native behaviors and rules with unresolved names, or
// every behavior when all is set.
func (s *Simulation) refresh(all bool) {
	for _, id := range s.installedIDs() {
		t := s.types[id]
		if !all && t.compiled != nil && len(t.compiled.Unresolved()) == 0 {
			continue
		}
		if err := s.install(id, t.doc); err != nil {
			s.log.Error("rebuilding behavior failed", "name", t.doc.Name, "err", err)
		}
	}
}

func (s *Simulation) installedIDs() []particle.ID {
	ids := make([]particle.ID, 0, len(s.types))
	for id := range s.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Unresolved reports, per type name, the names its rule could not resolve.
func (s *Simulation) Unresolved() map[string][]string {
	out := map[string][]string{}
	for _, t := range s.types {
		if t.compiled == nil {
			continue
		}
		if names := t.compiled.Unresolved(); len(names) > 0 {
			out[t.doc.Name] = names
		}
	}
	return out
}
