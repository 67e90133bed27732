package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mad-sand/internal/transform"
)

// Every node is externally tagged: unit variants are bare scalars, the rest
// are single-key mappings from the variant name to its payload.
func variant(n *yaml.Node, path string) (string, *yaml.Node, error) {
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return "", nil, nodeError(n, path, "expected a single-key mapping, got %d keys", len(n.Content)/2)
		}
		return n.Content[0].Value, deref(n.Content[1]), nil
	default:
		return "", nil, nodeError(n, path, "expected a tagged node")
	}
}

func fields(n *yaml.Node, path string) (map[string]*yaml.Node, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nodeError(n, path, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = deref(n.Content[i+1])
	}
	return out, nil
}

func required(f map[string]*yaml.Node, parent *yaml.Node, path, key string) (*yaml.Node, error) {
	n, ok := f[key]
	if !ok {
		return nil, nodeError(parent, path, "missing field %q", key)
	}
	return n, nil
}

func sequence(n *yaml.Node, path string, want int) ([]*yaml.Node, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, path, "expected a list")
	}
	if want >= 0 && len(n.Content) != want {
		return nil, nodeError(n, path, "expected %d items, got %d", want, len(n.Content))
	}
	return n.Content, nil
}

func decodeString(n *yaml.Node, path string) (string, error) {
	var s string
	if err := decodeScalar(n, path, &s); err != nil {
		return "", err
	}
	return s, nil
}

func decodeInt(n *yaml.Node, path string) (int, error) {
	var v int
	if err := decodeScalar(n, path, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func decodeDirection(n *yaml.Node, path string) (Direction, error) {
	n = deref(n)
	if n == nil {
		return nil, nodeError(nil, path, "missing direction")
	}
	if n.Kind == yaml.SequenceNode {
		return decodeVector(n, path)
	}
	tag, payload, err := variant(n, path)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		if tag == "Random" {
			return RandomDirection{}, nil
		}
		if d, ok := transform.Named(tag); ok {
			return ConstantDirection{Value: d}, nil
		}
		return nil, nodeError(n, path, "unknown direction %q", tag)
	}
	sub := path + "." + tag
	switch tag {
	case "Constant":
		return decodeVector(payload, sub)
	case "Add", "Sub":
		items, err := sequence(payload, sub, 2)
		if err != nil {
			return nil, err
		}
		a, err := decodeDirection(items[0], sub+"[0]")
		if err != nil {
			return nil, err
		}
		b, err := decodeDirection(items[1], sub+"[1]")
		if err != nil {
			return nil, err
		}
		return DirectionOp{Op: arithNames[tag], A: a, B: b}, nil
	default:
		return nil, nodeError(n, path, "unknown direction %q", tag)
	}
}

func decodeVector(n *yaml.Node, path string) (Direction, error) {
	items, err := sequence(n, path, 2)
	if err != nil {
		return nil, err
	}
	x, err := decodeInt(deref(items[0]), path+"[0]")
	if err != nil {
		return nil, err
	}
	y, err := decodeInt(deref(items[1]), path+"[1]")
	if err != nil {
		return nil, err
	}
	for i, v := range [2]int{x, y} {
		if v < -transform.MaxOffset || v > transform.MaxOffset {
			return nil, nodeError(items[i], fmt.Sprintf("%s[%d]", path, i), "offset %d out of range [%d, %d]", v, -transform.MaxOffset, transform.MaxOffset)
		}
	}
	return ConstantDirection{Value: transform.Direction{X: x, Y: y}}, nil
}

// optionalDirection defaults to the current cell.
func optionalDirection(f map[string]*yaml.Node, path string) (Direction, error) {
	n, ok := f["direction"]
	if !ok {
		return ConstantDirection{Value: transform.Here}, nil
	}
	return decodeDirection(n, path+".direction")
}

func decodeNumber(n *yaml.Node, path string) (Number, error) {
	n = deref(n)
	if n == nil {
		return nil, nodeError(nil, path, "missing number")
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!int" {
		v, err := decodeInt(n, path)
		if err != nil {
			return nil, err
		}
		return Literal{Value: v}, nil
	}
	tag, payload, err := variant(n, path)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nodeError(n, path, "unknown number %q", tag)
	}
	sub := path + "." + tag
	switch tag {
	case "Constant":
		v, err := decodeInt(payload, sub)
		return Literal{Value: v}, err
	case "ParticleIDFromName":
		s, err := decodeString(payload, sub)
		return ParticleIDFromName{Name: s}, err
	case "NeighbourCount":
		s, err := decodeString(payload, sub)
		return NeighbourCount{Name: s}, err
	case "TypeOf":
		d, err := decodeDirection(payload, sub)
		return TypeOf{Direction: d}, err
	case "LightOf":
		d, err := decodeDirection(payload, sub)
		return LightOf{Direction: d}, err
	case "ExtraOf":
		d, err := decodeDirection(payload, sub)
		return ExtraOf{Direction: d}, err
	case "RandomFromRange":
		a, b, err := decodeNumberPair(payload, sub)
		return RandomFromRange{Low: a, High: b}, err
	}
	if op, ok := arithNames[tag]; ok {
		a, b, err := decodeNumberPair(payload, sub)
		return Arithmetic{Op: op, A: a, B: b}, err
	}
	return nil, nodeError(n, path, "unknown number %q", tag)
}

func decodeNumberPair(n *yaml.Node, path string) (Number, Number, error) {
	items, err := sequence(n, path, 2)
	if err != nil {
		return nil, nil, err
	}
	a, err := decodeNumber(items[0], path+"[0]")
	if err != nil {
		return nil, nil, err
	}
	b, err := decodeNumber(items[1], path+"[1]")
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func decodeCondition(n *yaml.Node, path string) (Condition, error) {
	tag, payload, err := variant(n, path)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		switch tag {
		case "Always":
			return Always{}, nil
		case "Never":
			return Never{}, nil
		}
		return nil, nodeError(n, path, "unknown condition %q", tag)
	}
	sub := path + "." + tag
	switch tag {
	case "And", "Or":
		items, err := sequence(payload, sub, -1)
		if err != nil {
			return nil, err
		}
		conds := make([]Condition, 0, len(items))
		for i, item := range items {
			c, err := decodeCondition(item, fmt.Sprintf("%s[%d]", sub, i))
			if err != nil {
				return nil, err
			}
			conds = append(conds, c)
		}
		if tag == "And" {
			return And{Conditions: conds}, nil
		}
		return Or{Conditions: conds}, nil
	case "Not":
		c, err := decodeCondition(payload, sub)
		return Not{Condition: c}, err
	case "CheckTypeInDirection":
		f, err := fields(payload, sub)
		if err != nil {
			return nil, err
		}
		d, err := optionalDirection(f, sub)
		if err != nil {
			return nil, err
		}
		tn, err := required(f, payload, sub, "type")
		if err != nil {
			return nil, err
		}
		name, err := decodeString(tn, sub+".type")
		return CheckTypeInDirection{Direction: d, Type: name}, err
	case "CheckTypesInDirection":
		f, err := fields(payload, sub)
		if err != nil {
			return nil, err
		}
		d, err := optionalDirection(f, sub)
		if err != nil {
			return nil, err
		}
		tn, err := required(f, payload, sub, "types")
		if err != nil {
			return nil, err
		}
		items, err := sequence(tn, sub+".types", -1)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(items))
		for i, item := range items {
			s, err := decodeString(deref(item), fmt.Sprintf("%s.types[%d]", sub, i))
			if err != nil {
				return nil, err
			}
			names = append(names, s)
		}
		return CheckTypesInDirection{Direction: d, Types: names}, nil
	case "IsEmpty":
		d, err := decodeDirection(payload, sub)
		return IsEmpty{Direction: d}, err
	case "IsTouching":
		s, err := decodeString(payload, sub)
		return IsTouching{Type: s}, err
	case "OneInXChance":
		x, err := decodeNumber(payload, sub)
		return OneInXChance{X: x}, err
	case "Chance":
		x, err := decodeNumber(payload, sub)
		return Chance{Percent: x}, err
	}
	if op, ok := compareNames[tag]; ok {
		a, b, err := decodeNumberPair(payload, sub)
		return Compare{Op: op, A: a, B: b}, err
	}
	return nil, nodeError(n, path, "unknown condition %q", tag)
}

func decodeActions(n *yaml.Node, path string) ([]Action, error) {
	items, err := sequence(deref(n), path, -1)
	if err != nil {
		return nil, err
	}
	out := make([]Action, 0, len(items))
	for i, item := range items {
		a, err := decodeAction(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

var propertyActions = map[string]struct {
	prop     Property
	increase bool
}{
	"SetLight":      {PropertyLight, false},
	"IncreaseLight": {PropertyLight, true},
	"SetExtra":      {PropertyExtra, false},
	"IncreaseExtra": {PropertyExtra, true},
}

func decodeAction(n *yaml.Node, path string) (Action, error) {
	tag, payload, err := variant(n, path)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nodeError(n, path, "unknown action %q", tag)
	}
	sub := path + "." + tag
	switch tag {
	case "Swap":
		d, err := decodeDirection(payload, sub)
		return Swap{Direction: d}, err
	case "MoveTo":
		d, err := decodeDirection(payload, sub)
		return MoveTo{Direction: d}, err
	case "CopyTo":
		d, err := decodeDirection(payload, sub)
		return CopyTo{Direction: d}, err
	case "ChangeInto":
		if payload.Kind == yaml.ScalarNode {
			name, err := decodeString(payload, sub)
			return ChangeInto{Direction: ConstantDirection{Value: transform.Here}, Type: name}, err
		}
		f, err := fields(payload, sub)
		if err != nil {
			return nil, err
		}
		d, err := optionalDirection(f, sub)
		if err != nil {
			return nil, err
		}
		tn, err := required(f, payload, sub, "type")
		if err != nil {
			return nil, err
		}
		name, err := decodeString(tn, sub+".type")
		return ChangeInto{Direction: d, Type: name}, err
	case "If":
		return decodeIf(payload, sub)
	case "Repeat":
		num, actions, err := decodeBlock(payload, sub, "times")
		return Repeat{Times: num, Actions: actions}, err
	case "EveryXTicks":
		num, actions, err := decodeBlock(payload, sub, "ticks")
		return EveryXTicks{Ticks: num, Actions: actions}, err
	case "RotatedBy":
		num, actions, err := decodeBlock(payload, sub, "steps")
		return RotatedBy{Steps: num, Actions: actions}, err
	case "RandomTransformation", "ForEachTransformation":
		f, err := fields(payload, sub)
		if err != nil {
			return nil, err
		}
		tn, err := required(f, payload, sub, "transformation")
		if err != nil {
			return nil, err
		}
		name, err := decodeString(tn, sub+".transformation")
		if err != nil {
			return nil, err
		}
		kind, err := transform.ParseKind(name)
		if err != nil {
			return nil, &DocumentError{Path: sub + ".transformation", Line: tn.Line, Column: tn.Column, Msg: "invalid transformation", Err: err}
		}
		actions, err := optionalActions(f, sub)
		if err != nil {
			return nil, err
		}
		if tag == "RandomTransformation" {
			return RandomTransformation{Kind: kind, Actions: actions}, nil
		}
		return ForEachTransformation{Kind: kind, Actions: actions}, nil
	}
	if pa, ok := propertyActions[tag]; ok {
		return decodePropertyAction(payload, sub, pa.prop, pa.increase)
	}
	return nil, nodeError(n, path, "unknown action %q", tag)
}

func decodeIf(n *yaml.Node, path string) (Action, error) {
	f, err := fields(n, path)
	if err != nil {
		return nil, err
	}
	cn, err := required(f, n, path, "condition")
	if err != nil {
		return nil, err
	}
	cond, err := decodeCondition(cn, path+".condition")
	if err != nil {
		return nil, err
	}
	out := If{Condition: cond}
	if tn, ok := f["then"]; ok && tn.Tag != "!!null" {
		if out.Then, err = decodeActions(tn, path+".then"); err != nil {
			return nil, err
		}
	}
	if en, ok := f["else"]; ok && en.Tag != "!!null" {
		if out.Else, err = decodeActions(en, path+".else"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeBlock(n *yaml.Node, path, countKey string) (Number, []Action, error) {
	f, err := fields(n, path)
	if err != nil {
		return nil, nil, err
	}
	cn, err := required(f, n, path, countKey)
	if err != nil {
		return nil, nil, err
	}
	num, err := decodeNumber(cn, path+"."+countKey)
	if err != nil {
		return nil, nil, err
	}
	actions, err := optionalActions(f, path)
	return num, actions, err
}

func optionalActions(f map[string]*yaml.Node, path string) ([]Action, error) {
	an, ok := f["actions"]
	if !ok || an.Tag == "!!null" {
		return nil, nil
	}
	return decodeActions(an, path+".actions")
}

func decodePropertyAction(n *yaml.Node, path string, prop Property, increase bool) (Action, error) {
	dir := Direction(ConstantDirection{Value: transform.Here})
	valueNode := n
	if n.Kind == yaml.MappingNode {
		if f, _ := fields(n, path); f["value"] != nil {
			var err error
			if dir, err = optionalDirection(f, path); err != nil {
				return nil, err
			}
			valueNode = f["value"]
			path += ".value"
		}
	}
	v, err := decodeNumber(valueNode, path)
	if err != nil {
		return nil, err
	}
	if increase {
		return IncreaseProperty{Property: prop, Direction: dir, Value: v}, nil
	}
	return SetProperty{Property: prop, Direction: dir, Value: v}, nil
}
