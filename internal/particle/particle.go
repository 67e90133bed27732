package particle

import "math"

// ID identifies a particle definition. 0 is the inert empty type.
type ID uint16

const (
	// EmptyID is the built-in type every grid starts filled with.
	EmptyID ID = 0
	// InvalidID is returned for unknown names and out-of-bounds reads.
	InvalidID ID = math.MaxUint16
)

// Particle is the value stored in every grid cell.
type Particle struct {
	Type  ID
	Clock bool
	Light uint8
	Extra uint8
}

// Invalid is the sentinel read from outside the grid.
var Invalid = Particle{Type: InvalidID}

// Equal compares particle identity. Light, Extra and Clock are ignored.
func (p Particle) Equal(o Particle) bool { return p.Type == o.Type }

// IsEmpty reports whether p is the empty type.
func (p Particle) IsEmpty() bool { return p.Type == EmptyID }

// IsValid reports whether p was read from inside the grid.
func (p Particle) IsValid() bool { return p.Type != InvalidID }
