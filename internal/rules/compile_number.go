package rules

import (
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
)

// number is a compiled Number: either a folded constant or an evaluator.
// An unresolved number refers to a particle name the registry does not
// know; anything built on it degrades instead of using its value.
type number struct {
	constant   bool
	unresolved bool
	value      int
	eval       func(*grid.Grid) int
}

func constant(v int) number { return number{constant: true, value: v} }

func unknown() number { return number{constant: true, unresolved: true} }

// fn returns an evaluator regardless of kind.
func (n number) fn() func(*grid.Grid) int {
	if n.constant {
		v := n.value
		return func(*grid.Grid) int { return v }
	}
	return n.eval
}

// direction is a compiled Direction before the active transformation.
type direction struct {
	constant bool
	value    transform.Direction
	eval     func(*grid.Grid) transform.Direction
}

// resolved returns an evaluator that applies the grid's active
// transformation, which is what every addressing site needs.
func (d direction) resolved() func(*grid.Grid) transform.Direction {
	if d.constant {
		v := d.value
		return func(g *grid.Grid) transform.Direction { return g.Resolve(v) }
	}
	eval := d.eval
	return func(g *grid.Grid) transform.Direction { return g.Resolve(eval(g)) }
}

func (d direction) raw() func(*grid.Grid) transform.Direction {
	if d.constant {
		v := d.value
		return func(*grid.Grid) transform.Direction { return v }
	}
	return d.eval
}

func (c *compiler) direction(node Direction, path string) (direction, error) {
	switch n := node.(type) {
	case ConstantDirection:
		return direction{constant: true, value: n.Value}, nil
	case RandomDirection:
		return direction{eval: func(g *grid.Grid) transform.Direction {
			return transform.Neighbours[g.Rand().IntN(len(transform.Neighbours))]
		}}, nil
	case DirectionOp:
		a, err := c.direction(n.A, path+".A")
		if err != nil {
			return direction{}, err
		}
		b, err := c.direction(n.B, path+".B")
		if err != nil {
			return direction{}, err
		}
		combine := transform.Direction.Add
		if n.Op == OpSub {
			combine = transform.Direction.Sub
		} else if n.Op != OpAdd {
			return direction{}, &CompileError{Path: path, Msg: "directions only support Add and Sub"}
		}
		if a.constant && b.constant {
			return direction{constant: true, value: combine(a.value, b.value)}, nil
		}
		fa, fb := a.raw(), b.raw()
		return direction{eval: func(g *grid.Grid) transform.Direction {
			return combine(fa(g), fb(g))
		}}, nil
	default:
		return direction{}, unsupported(path, node)
	}
}

func (c *compiler) number(node Number, path string) (number, error) {
	switch n := node.(type) {
	case Literal:
		return constant(n.Value), nil
	case ParticleIDFromName:
		id, ok := c.resolve(n.Name)
		if !ok {
			return unknown(), nil
		}
		return constant(int(id)), nil
	case NeighbourCount:
		id, ok := c.resolve(n.Name)
		if !ok {
			return unknown(), nil
		}
		return number{eval: func(g *grid.Grid) int {
			count := 0
			for _, d := range transform.Neighbours {
				if g.IsParticleAt(d.X, d.Y, id) {
					count++
				}
			}
			return count
		}}, nil
	case TypeOf:
		dir, err := c.direction(n.Direction, path+".TypeOf")
		if err != nil {
			return number{}, err
		}
		at := dir.resolved()
		return number{eval: func(g *grid.Grid) int {
			d := at(g)
			p := g.Get(d.X, d.Y)
			if p.Type == particle.InvalidID {
				return -1
			}
			return int(p.Type)
		}}, nil
	case LightOf, ExtraOf:
		var dirNode Direction
		light := false
		if l, ok := n.(LightOf); ok {
			dirNode, light = l.Direction, true
		} else {
			dirNode = n.(ExtraOf).Direction
		}
		dir, err := c.direction(dirNode, path)
		if err != nil {
			return number{}, err
		}
		at := dir.resolved()
		if light {
			return number{eval: func(g *grid.Grid) int {
				d := at(g)
				return int(g.Get(d.X, d.Y).Light)
			}}, nil
		}
		return number{eval: func(g *grid.Grid) int {
			d := at(g)
			return int(g.Get(d.X, d.Y).Extra)
		}}, nil
	case RandomFromRange:
		lo, err := c.number(n.Low, path+".Low")
		if err != nil {
			return number{}, err
		}
		hi, err := c.number(n.High, path+".High")
		if err != nil {
			return number{}, err
		}
		if lo.unresolved || hi.unresolved {
			return unknown(), nil
		}
		if lo.constant && hi.constant {
			l, h := lo.value, hi.value
			return number{eval: func(g *grid.Grid) int { return g.Rand().IntRange(l, h) }}, nil
		}
		fl, fh := lo.fn(), hi.fn()
		return number{eval: func(g *grid.Grid) int { return g.Rand().IntRange(fl(g), fh(g)) }}, nil
	case Arithmetic:
		a, err := c.number(n.A, path+".A")
		if err != nil {
			return number{}, err
		}
		b, err := c.number(n.B, path+".B")
		if err != nil {
			return number{}, err
		}
		return arithmetic(n.Op, a, b, path)
	default:
		return number{}, unsupported(path, node)
	}
}

func arithFunc(op ArithOp) (func(a, b int) int, bool) {
	switch op {
	case OpAdd:
		return func(a, b int) int { return a + b }, true
	case OpSub:
		return func(a, b int) int { return a - b }, true
	case OpMul:
		return func(a, b int) int { return a * b }, true
	case OpDiv:
		return func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		}, true
	case OpMod:
		return func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a % b
		}, true
	}
	return nil, false
}

// arithmetic specialises on the operand kinds so constants are never
// re-evaluated at runtime.
func arithmetic(op ArithOp, a, b number, path string) (number, error) {
	f, ok := arithFunc(op)
	if !ok {
		return number{}, &CompileError{Path: path, Msg: "unknown arithmetic operator"}
	}
	switch {
	case a.unresolved || b.unresolved:
		return unknown(), nil
	case a.constant && b.constant:
		return constant(f(a.value, b.value)), nil
	case a.constant:
		av, fb := a.value, b.eval
		return number{eval: func(g *grid.Grid) int { return f(av, fb(g)) }}, nil
	case b.constant:
		fa, bv := a.eval, b.value
		return number{eval: func(g *grid.Grid) int { return f(fa(g), bv) }}, nil
	default:
		fa, fb := a.eval, b.eval
		return number{eval: func(g *grid.Grid) int { return f(fa(g), fb(g)) }}, nil
	}
}
