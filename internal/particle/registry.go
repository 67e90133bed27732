package particle

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrNotFound is returned when a type id or name has no definition.
var ErrNotFound = errors.New("particle not found")

// EmptyName is the name of the definition registered at id 0.
const EmptyName = "Empty"

// Definition holds the static metadata of a particle type.
type Definition struct {
	Name  string
	Color color.RGBA

	// Inclusive ranges used whenever a new particle of this type is made.
	LightLow, LightHigh uint8
	ExtraLow, ExtraHigh uint8

	// HideInUI is passed through to selection front-ends.
	HideInUI bool

	removed bool
}

// Removed reports whether the definition has been tombstoned.
func (d Definition) Removed() bool { return d.removed }

// Registry is the append-only table of particle definitions indexed by ID,
// with a lowercase name index alongside.
type Registry struct {
	defs       []Definition
	byName     map[string]ID
	generation uint64
}

// NewRegistry returns a registry holding only the empty definition.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]ID)}
	r.defs = append(r.defs, Definition{
		Name:      EmptyName,
		Color:     color.RGBA{A: 0},
		LightLow:  255,
		LightHigh: 255,
		HideInUI:  true,
	})
	r.byName[strings.ToLower(EmptyName)] = EmptyID
	return r
}

// Add appends def and returns its id.
func (r *Registry) Add(def Definition) (ID, error) {
	key := strings.ToLower(strings.TrimSpace(def.Name))
	if key == "" {
		return InvalidID, errors.New("particle definition needs a name")
	}
	if _, ok := r.byName[key]; ok {
		return InvalidID, fmt.Errorf("particle %q already registered", def.Name)
	}
	if len(r.defs) >= int(InvalidID) {
		return InvalidID, fmt.Errorf("particle registry full (%d types)", len(r.defs))
	}
	id := ID(len(r.defs))
	def.removed = false
	r.defs = append(r.defs, def)
	r.byName[key] = id
	r.generation++
	return id, nil
}

// Replace overwrites the definition stored at id, keeping the id stable.
func (r *Registry) Replace(id ID, def Definition) error {
	if id == EmptyID {
		return errors.New("the empty particle cannot be replaced")
	}
	old, err := r.Definition(id)
	if err != nil {
		return err
	}
	oldKey := strings.ToLower(old.Name)
	newKey := strings.ToLower(strings.TrimSpace(def.Name))
	if newKey == "" {
		return errors.New("particle definition needs a name")
	}
	if other, ok := r.byName[newKey]; ok && other != id {
		return fmt.Errorf("particle %q already registered", def.Name)
	}
	delete(r.byName, oldKey)
	def.removed = false
	r.defs[id] = def
	r.byName[newKey] = id
	r.generation++
	return nil
}

// Remove tombstones the named definition. Its id is never handed out again.
func (r *Registry) Remove(name string) (ID, error) {
	key := strings.ToLower(name)
	id, ok := r.byName[key]
	if !ok {
		return InvalidID, fmt.Errorf("particle %q: %w", name, ErrNotFound)
	}
	if id == EmptyID {
		return InvalidID, errors.New("the empty particle cannot be removed")
	}
	delete(r.byName, key)
	r.defs[id].removed = true
	r.generation++
	return id, nil
}

// Truncate drops every definition with an id >= n. It undoes Add calls
// whose follow-up work failed.
func (r *Registry) Truncate(n int) {
	if n < 1 || n >= len(r.defs) {
		return
	}
	for _, def := range r.defs[n:] {
		key := strings.ToLower(def.Name)
		if id, ok := r.byName[key]; ok && int(id) >= n {
			delete(r.byName, key)
		}
	}
	r.defs = r.defs[:n]
	r.generation++
}

// IDFromName returns the id registered under name, or InvalidID.
func (r *Registry) IDFromName(name string) ID {
	if id, ok := r.byName[strings.ToLower(name)]; ok {
		return id
	}
	return InvalidID
}

// Definition returns the definition for id.
func (r *Registry) Definition(id ID) (Definition, error) {
	if int(id) >= len(r.defs) || r.defs[id].removed {
		return Definition{}, fmt.Errorf("particle with id %d: %w", id, ErrNotFound)
	}
	return r.defs[id], nil
}

// Valid reports whether id names a live definition.
func (r *Registry) Valid(id ID) bool {
	return int(id) < len(r.defs) && !r.defs[id].removed
}

// Len returns the number of slots, tombstones included.
func (r *Registry) Len() int { return len(r.defs) }

// Generation increases on every mutation.
func (r *Registry) Generation() uint64 { return r.generation }

// Definitions returns a copy of every slot, tombstones included.
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}
