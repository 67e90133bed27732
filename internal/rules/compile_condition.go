package rules

import (
	"fmt"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
)

// condition is a compiled Condition. When known is set the outcome was
// decided at compile time and eval is nil. An unresolved condition names a
// particle the registry does not know: it is false and stays false under
// Not.
type condition struct {
	known      bool
	unresolved bool
	value      bool
	eval       func(*grid.Grid) bool
}

func decided(v bool) condition { return condition{known: true, value: v} }

func degraded() condition { return condition{known: true, unresolved: true} }

func (c condition) fn() func(*grid.Grid) bool {
	if c.known {
		v := c.value
		return func(*grid.Grid) bool { return v }
	}
	return c.eval
}

func (c *compiler) condition(node Condition, path string) (condition, error) {
	switch n := node.(type) {
	case Always:
		return decided(true), nil
	case Never:
		return decided(false), nil
	case And:
		return c.junction(n.Conditions, path+".And", true)
	case Or:
		return c.junction(n.Conditions, path+".Or", false)
	case Not:
		inner, err := c.condition(n.Condition, path+".Not")
		if err != nil {
			return condition{}, err
		}
		if inner.unresolved {
			return inner, nil
		}
		if inner.known {
			return decided(!inner.value), nil
		}
		f := inner.eval
		return condition{eval: func(g *grid.Grid) bool { return !f(g) }}, nil
	case CheckTypeInDirection:
		dir, err := c.direction(n.Direction, path+".CheckTypeInDirection")
		if err != nil {
			return condition{}, err
		}
		id, ok := c.resolve(n.Type)
		if !ok {
			return degraded(), nil
		}
		at := dir.resolved()
		return condition{eval: func(g *grid.Grid) bool {
			d := at(g)
			return g.IsParticleAt(d.X, d.Y, id)
		}}, nil
	case CheckTypesInDirection:
		dir, err := c.direction(n.Direction, path+".CheckTypesInDirection")
		if err != nil {
			return condition{}, err
		}
		ids := make([]particle.ID, 0, len(n.Types))
		for _, name := range n.Types {
			if id, ok := c.resolve(name); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return degraded(), nil
		}
		at := dir.resolved()
		return condition{eval: func(g *grid.Grid) bool {
			d := at(g)
			return g.IsAnyParticleAt(d.X, d.Y, ids)
		}}, nil
	case IsEmpty:
		dir, err := c.direction(n.Direction, path+".IsEmpty")
		if err != nil {
			return condition{}, err
		}
		at := dir.resolved()
		return condition{eval: func(g *grid.Grid) bool {
			d := at(g)
			return g.IsEmpty(d.X, d.Y)
		}}, nil
	case IsTouching:
		id, ok := c.resolve(n.Type)
		if !ok {
			return degraded(), nil
		}
		return condition{eval: func(g *grid.Grid) bool {
			for _, d := range transform.Neighbours {
				if g.IsParticleAt(d.X, d.Y, id) {
					return true
				}
			}
			return false
		}}, nil
	case OneInXChance:
		x, err := c.number(n.X, path+".OneInXChance")
		if err != nil {
			return condition{}, err
		}
		if x.unresolved {
			return degraded(), nil
		}
		if x.constant {
			if x.value <= 1 {
				return decided(true), nil
			}
			v := x.value
			return condition{eval: func(g *grid.Grid) bool { return g.Rand().OneIn(v) }}, nil
		}
		f := x.eval
		return condition{eval: func(g *grid.Grid) bool { return g.Rand().OneIn(f(g)) }}, nil
	case Chance:
		p, err := c.number(n.Percent, path+".Chance")
		if err != nil {
			return condition{}, err
		}
		if p.unresolved {
			return degraded(), nil
		}
		if p.constant {
			switch {
			case p.value <= 0:
				return decided(false), nil
			case p.value >= 100:
				return decided(true), nil
			}
			v := p.value
			return condition{eval: func(g *grid.Grid) bool { return g.Rand().IntN(100) < v }}, nil
		}
		f := p.eval
		return condition{eval: func(g *grid.Grid) bool { return g.Rand().IntN(100) < f(g) }}, nil
	case Compare:
		a, err := c.number(n.A, path+".A")
		if err != nil {
			return condition{}, err
		}
		b, err := c.number(n.B, path+".B")
		if err != nil {
			return condition{}, err
		}
		return compare(n.Op, a, b, path)
	default:
		return condition{}, unsupported(path, node)
	}
}

// junction folds decided children: for And a false child decides the whole
// and true children drop out; Or is the mirror image. An unresolved child
// makes an And unresolved and drops out of an Or; an Or left with nothing
// but unresolved and false children is unresolved itself.
func (c *compiler) junction(nodes []Condition, path string, and bool) (condition, error) {
	var live []func(*grid.Grid) bool
	short, missing := false, 0
	for i, node := range nodes {
		cond, err := c.condition(node, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return condition{}, err
		}
		if cond.unresolved {
			missing++
			if !and {
				continue
			}
		}
		if cond.known {
			short = short || cond.value != and
			continue
		}
		live = append(live, cond.eval)
	}
	if missing > 0 && (and || !short && len(live) == 0) {
		return degraded(), nil
	}
	if short {
		return decided(!and), nil
	}
	switch len(live) {
	case 0:
		return decided(and), nil
	case 1:
		return condition{eval: live[0]}, nil
	}
	if and {
		return condition{eval: func(g *grid.Grid) bool {
			for _, f := range live {
				if !f(g) {
					return false
				}
			}
			return true
		}}, nil
	}
	return condition{eval: func(g *grid.Grid) bool {
		for _, f := range live {
			if f(g) {
				return true
			}
		}
		return false
	}}, nil
}

func compareFunc(op CompareOp) (func(a, b int) bool, bool) {
	switch op {
	case OpEqual:
		return func(a, b int) bool { return a == b }, true
	case OpNotEqual:
		return func(a, b int) bool { return a != b }, true
	case OpGreater:
		return func(a, b int) bool { return a > b }, true
	case OpGreaterEqual:
		return func(a, b int) bool { return a >= b }, true
	case OpLess:
		return func(a, b int) bool { return a < b }, true
	case OpLessEqual:
		return func(a, b int) bool { return a <= b }, true
	}
	return nil, false
}

// compare specialises on the operand kinds; two constants are compared
// once here and the rule only carries the result.
func compare(op CompareOp, a, b number, path string) (condition, error) {
	f, ok := compareFunc(op)
	if !ok {
		return condition{}, &CompileError{Path: path, Msg: "unknown comparison operator"}
	}
	switch {
	case a.unresolved || b.unresolved:
		return degraded(), nil
	case a.constant && b.constant:
		return decided(f(a.value, b.value)), nil
	case a.constant:
		av, fb := a.value, b.eval
		return condition{eval: func(g *grid.Grid) bool { return f(av, fb(g)) }}, nil
	case b.constant:
		fa, bv := a.eval, b.value
		return condition{eval: func(g *grid.Grid) bool { return f(fa(g), bv) }}, nil
	default:
		fa, fb := a.eval, b.eval
		return condition{eval: func(g *grid.Grid) bool { return f(fa(g), fb(g)) }}, nil
	}
}
