package rules

import (
	"fmt"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/transform"
)

// maxRepeat caps runtime repeat counts.
const maxRepeat = 256

func noop(*grid.Grid) {}

func (c *compiler) actions(nodes []Action, path string) (func(*grid.Grid), error) {
	fns := make([]func(*grid.Grid), 0, len(nodes))
	for i, node := range nodes {
		f, err := c.action(node, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if f != nil {
			fns = append(fns, f)
		}
	}
	switch len(fns) {
	case 0:
		return noop, nil
	case 1:
		return fns[0], nil
	case 2:
		a, b := fns[0], fns[1]
		return func(g *grid.Grid) { a(g); b(g) }, nil
	}
	return func(g *grid.Grid) {
		for _, f := range fns {
			f(g)
		}
	}, nil
}

// action returns nil for actions that compiled away entirely.
func (c *compiler) action(node Action, path string) (func(*grid.Grid), error) {
	switch n := node.(type) {
	case Swap:
		at, err := c.resolvedDirection(n.Direction, path+".Swap")
		if err != nil {
			return nil, err
		}
		return func(g *grid.Grid) {
			d := at(g)
			g.Swap(d.X, d.Y)
		}, nil
	case MoveTo:
		at, err := c.resolvedDirection(n.Direction, path+".MoveTo")
		if err != nil {
			return nil, err
		}
		return func(g *grid.Grid) {
			d := at(g)
			g.MoveTo(d.X, d.Y)
		}, nil
	case CopyTo:
		at, err := c.resolvedDirection(n.Direction, path+".CopyTo")
		if err != nil {
			return nil, err
		}
		return func(g *grid.Grid) {
			d := at(g)
			g.Set(d.X, d.Y, g.Get(0, 0))
		}, nil
	case ChangeInto:
		at, err := c.resolvedDirection(n.Direction, path+".ChangeInto")
		if err != nil {
			return nil, err
		}
		id, ok := c.resolve(n.Type)
		if !ok {
			return nil, nil
		}
		return func(g *grid.Grid) {
			d := at(g)
			if g.Get(d.X, d.Y).IsValid() {
				g.Set(d.X, d.Y, g.NewParticle(id))
			}
		}, nil
	case SetProperty:
		return c.property(n.Property, n.Direction, n.Value, false, path+".Set")
	case IncreaseProperty:
		return c.property(n.Property, n.Direction, n.Value, true, path+".Increase")
	case If:
		return c.branch(n, path+".If")
	case Repeat:
		return c.repeat(n, path+".Repeat")
	case EveryXTicks:
		return c.every(n, path+".EveryXTicks")
	case RandomTransformation:
		body, err := c.actions(n.Actions, path+".RandomTransformation.actions")
		if err != nil {
			return nil, err
		}
		kind := n.Kind
		return func(g *grid.Grid) {
			prev := g.SetTransformation(transform.Random(kind, g.Rand()))
			body(g)
			g.SetTransformation(prev)
		}, nil
	case ForEachTransformation:
		body, err := c.actions(n.Actions, path+".ForEachTransformation.actions")
		if err != nil {
			return nil, err
		}
		variants := transform.Variants(n.Kind)
		return func(g *grid.Grid) {
			prev := g.Transformation()
			for _, t := range variants {
				g.SetTransformation(t)
				body(g)
			}
			g.SetTransformation(prev)
		}, nil
	case RotatedBy:
		return c.rotated(n, path+".RotatedBy")
	default:
		return nil, unsupported(path, node)
	}
}

func (c *compiler) resolvedDirection(node Direction, path string) (func(*grid.Grid) transform.Direction, error) {
	d, err := c.direction(node, path)
	if err != nil {
		return nil, err
	}
	return d.resolved(), nil
}

func saturate(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// property compiles Set/Increase of Light or Extra. Both saturate.
func (c *compiler) property(prop Property, dirNode Direction, valueNode Number, increase bool, path string) (func(*grid.Grid), error) {
	at, err := c.resolvedDirection(dirNode, path+".direction")
	if err != nil {
		return nil, err
	}
	value, err := c.number(valueNode, path+".value")
	if err != nil {
		return nil, err
	}
	if value.unresolved || increase && value.constant && value.value == 0 {
		return nil, nil
	}
	v := value.fn()
	light := prop == PropertyLight
	return func(g *grid.Grid) {
		d := at(g)
		p := g.Get(d.X, d.Y)
		if !p.IsValid() {
			return
		}
		cur := p.Extra
		if light {
			cur = p.Light
		}
		n := v(g)
		if increase {
			n += int(cur)
		}
		next := saturate(n)
		if light {
			p.Light = next
		} else {
			p.Extra = next
		}
		g.Set(d.X, d.Y, p)
	}, nil
}

func (c *compiler) branch(n If, path string) (func(*grid.Grid), error) {
	cond, err := c.condition(n.Condition, path+".condition")
	if err != nil {
		return nil, err
	}
	then, err := c.actions(n.Then, path+".then")
	if err != nil {
		return nil, err
	}
	otherwise, err := c.actions(n.Else, path+".else")
	if err != nil {
		return nil, err
	}
	if cond.known {
		if cond.value {
			return then, nil
		}
		return otherwise, nil
	}
	test := cond.eval
	return func(g *grid.Grid) {
		if test(g) {
			then(g)
		} else {
			otherwise(g)
		}
	}, nil
}

func (c *compiler) repeat(n Repeat, path string) (func(*grid.Grid), error) {
	times, err := c.number(n.Times, path+".times")
	if err != nil {
		return nil, err
	}
	body, err := c.actions(n.Actions, path+".actions")
	if err != nil {
		return nil, err
	}
	if times.unresolved {
		return nil, nil
	}
	if times.constant {
		count := min(max(times.value, 0), maxRepeat)
		if count == 0 {
			return nil, nil
		}
		return func(g *grid.Grid) {
			for i := 0; i < count; i++ {
				body(g)
			}
		}, nil
	}
	eval := times.eval
	return func(g *grid.Grid) {
		count := min(max(eval(g), 0), maxRepeat)
		for i := 0; i < count; i++ {
			body(g)
		}
	}, nil
}

func (c *compiler) every(n EveryXTicks, path string) (func(*grid.Grid), error) {
	ticks, err := c.number(n.Ticks, path+".ticks")
	if err != nil {
		return nil, err
	}
	if !ticks.constant {
		return nil, &CompileError{Path: path + ".ticks", Msg: "tick period must be a constant"}
	}
	body, err := c.actions(n.Actions, path+".actions")
	if err != nil {
		return nil, err
	}
	if ticks.unresolved || ticks.value <= 0 {
		return nil, nil
	}
	period := uint64(ticks.value)
	if period == 1 {
		return body, nil
	}
	return func(g *grid.Grid) {
		if g.Ticks()%period == 0 {
			body(g)
		}
	}, nil
}

func (c *compiler) rotated(n RotatedBy, path string) (func(*grid.Grid), error) {
	steps, err := c.number(n.Steps, path+".steps")
	if err != nil {
		return nil, err
	}
	body, err := c.actions(n.Actions, path+".actions")
	if err != nil {
		return nil, err
	}
	if steps.unresolved {
		return nil, nil
	}
	if steps.constant {
		t := transform.Rotate(steps.value)
		return func(g *grid.Grid) {
			prev := g.SetTransformation(t)
			body(g)
			g.SetTransformation(prev)
		}, nil
	}
	eval := steps.eval
	return func(g *grid.Grid) {
		prev := g.SetTransformation(transform.Rotate(eval(g)))
		body(g)
		g.SetTransformation(prev)
	}, nil
}
