// Package rules parses particle rule documents into a typed syntax tree and
// compiles that tree into closures the grid runs every tick.
package rules

import "mad-sand/internal/transform"

// Direction nodes describe a cell offset before the active transformation
// is applied.
type Direction interface{ directionNode() }

// ConstantDirection is a fixed offset.
type ConstantDirection struct {
	Value transform.Direction
}

// RandomDirection is one of the eight neighbours, drawn per evaluation.
type RandomDirection struct{}

// DirectionOp combines two directions component-wise.
type DirectionOp struct {
	Op   ArithOp
	A, B Direction
}

func (ConstantDirection) directionNode() {}
func (RandomDirection) directionNode()   {}
func (DirectionOp) directionNode()       {}

// ArithOp is a binary integer operator.
type ArithOp uint8

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

var arithNames = map[string]ArithOp{
	"Add": OpAdd,
	"Sub": OpSub,
	"Mul": OpMul,
	"Div": OpDiv,
	"Mod": OpMod,
}

// Number nodes evaluate to integers. The two families are kept apart in
// the type system: ConstNumber values are known at compile time,
// RuntimeNumber values depend on the grid.
type Number interface{ numberNode() }

// ConstNumber is a Number whose value is fixed once the registry is known.
type ConstNumber interface {
	Number
	constNumber()
}

// RuntimeNumber is a Number evaluated per invocation.
type RuntimeNumber interface {
	Number
	runtimeNumber()
}

// Literal is an integer constant.
type Literal struct{ Value int }

// ParticleIDFromName resolves a type name to its id at compile time.
type ParticleIDFromName struct{ Name string }

// NeighbourCount counts Moore neighbours of the named type.
type NeighbourCount struct{ Name string }

// TypeOf reads the type id at a direction; -1 outside the grid.
type TypeOf struct{ Direction Direction }

// RandomFromRange draws uniformly from the inclusive range [Low, High].
type RandomFromRange struct{ Low, High Number }

// LightOf reads the light byte at a direction; 0 outside the grid.
type LightOf struct{ Direction Direction }

// ExtraOf reads the extra byte at a direction; 0 outside the grid.
type ExtraOf struct{ Direction Direction }

// Arithmetic applies Op to two numbers.
type Arithmetic struct {
	Op   ArithOp
	A, B Number
}

func (Literal) numberNode()             {}
func (Literal) constNumber()            {}
func (ParticleIDFromName) numberNode()  {}
func (ParticleIDFromName) constNumber() {}
func (NeighbourCount) numberNode()      {}
func (NeighbourCount) runtimeNumber()   {}
func (TypeOf) numberNode()              {}
func (TypeOf) runtimeNumber()           {}
func (RandomFromRange) numberNode()     {}
func (RandomFromRange) runtimeNumber()  {}
func (LightOf) numberNode()             {}
func (LightOf) runtimeNumber()          {}
func (ExtraOf) numberNode()             {}
func (ExtraOf) runtimeNumber()          {}
func (Arithmetic) numberNode()          {}
func (Arithmetic) runtimeNumber()       {}

// Condition nodes evaluate to booleans.
type Condition interface{ conditionNode() }

type (
	// Always is true.
	Always struct{}
	// Never is false.
	Never struct{}
	// And is true when every child is true. An empty And is true.
	And struct{ Conditions []Condition }
	// Or is true when any child is true. An empty Or is false.
	Or struct{ Conditions []Condition }
	// Not negates its child.
	Not struct{ Condition Condition }
	// CheckTypeInDirection tests the type at a direction.
	CheckTypeInDirection struct {
		Direction Direction
		Type      string
	}
	// CheckTypesInDirection tests the type at a direction against a set.
	CheckTypesInDirection struct {
		Direction Direction
		Types     []string
	}
	// IsEmpty tests for the empty type at a direction.
	IsEmpty struct{ Direction Direction }
	// IsTouching tests whether any Moore neighbour has the named type.
	IsTouching struct{ Type string }
	// OneInXChance is true with probability 1/X.
	OneInXChance struct{ X Number }
	// Chance is true with probability Percent/100.
	Chance struct{ Percent Number }
	// Compare applies a numeric comparison.
	Compare struct {
		Op   CompareOp
		A, B Number
	}
)

func (Always) conditionNode()                {}
func (Never) conditionNode()                 {}
func (And) conditionNode()                   {}
func (Or) conditionNode()                    {}
func (Not) conditionNode()                   {}
func (CheckTypeInDirection) conditionNode()  {}
func (CheckTypesInDirection) conditionNode() {}
func (IsEmpty) conditionNode()               {}
func (IsTouching) conditionNode()            {}
func (OneInXChance) conditionNode()          {}
func (Chance) conditionNode()                {}
func (Compare) conditionNode()               {}

// CompareOp is a numeric comparison.
type CompareOp uint8

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
)

var compareNames = map[string]CompareOp{
	"Equal":        OpEqual,
	"NotEqual":     OpNotEqual,
	"Greater":      OpGreater,
	"GreaterEqual": OpGreaterEqual,
	"Less":         OpLess,
	"LessEqual":    OpLessEqual,
}

// Property selects one of the per-particle bytes.
type Property uint8

const (
	PropertyLight Property = iota
	PropertyExtra
)

// Action nodes mutate the grid.
type Action interface{ actionNode() }

type (
	// Swap exchanges the current cell with the cell at Direction.
	Swap struct{ Direction Direction }
	// MoveTo moves the current particle to Direction and follows it.
	MoveTo struct{ Direction Direction }
	// CopyTo writes a copy of the current particle at Direction.
	CopyTo struct{ Direction Direction }
	// ChangeInto replaces the particle at Direction with a fresh one of Type.
	ChangeInto struct {
		Direction Direction
		Type      string
	}
	// SetProperty assigns a byte property, saturating to [0,255].
	SetProperty struct {
		Property  Property
		Direction Direction
		Value     Number
	}
	// IncreaseProperty adds to a byte property, saturating to [0,255].
	IncreaseProperty struct {
		Property  Property
		Direction Direction
		Value     Number
	}
	// If runs Then when Condition holds and Else otherwise.
	If struct {
		Condition Condition
		Then      []Action
		Else      []Action
	}
	// Repeat runs Actions Times times.
	Repeat struct {
		Times   Number
		Actions []Action
	}
	// EveryXTicks runs Actions on ticks divisible by Ticks.
	EveryXTicks struct {
		Ticks   Number
		Actions []Action
	}
	// RandomTransformation runs Actions once under a random variant of Kind.
	RandomTransformation struct {
		Kind    transform.Kind
		Actions []Action
	}
	// ForEachTransformation runs Actions once under every variant of Kind.
	ForEachTransformation struct {
		Kind    transform.Kind
		Actions []Action
	}
	// RotatedBy runs Actions with directions rotated by Steps*45 degrees.
	RotatedBy struct {
		Steps   Number
		Actions []Action
	}
)

func (Swap) actionNode()                  {}
func (MoveTo) actionNode()                {}
func (CopyTo) actionNode()                {}
func (ChangeInto) actionNode()            {}
func (SetProperty) actionNode()           {}
func (IncreaseProperty) actionNode()      {}
func (If) actionNode()                    {}
func (Repeat) actionNode()                {}
func (EveryXTicks) actionNode()           {}
func (RandomTransformation) actionNode()  {}
func (ForEachTransformation) actionNode() {}
func (RotatedBy) actionNode()             {}
