package transform

import (
	"fmt"
	"strings"

	"mad-sand/pkg/core"
)

// Kind selects the family a Transformation belongs to.
type Kind uint8

const (
	None Kind = iota
	HorizontalReflection
	VerticalReflection
	Reflection
	Rotation
)

var kindNames = [...]string{
	None:                 "None",
	HorizontalReflection: "HorizontalReflection",
	VerticalReflection:   "VerticalReflection",
	Reflection:           "Reflection",
	Rotation:             "Rotation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a case-insensitive name onto a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return None, fmt.Errorf("unknown transformation %q", name)
}

// Transformation maps directions onto directions. The zero value is the
// identity. Apply is pure, so transformations can be saved and restored
// freely while nesting.
type Transformation struct {
	kind  Kind
	flipX bool
	flipY bool
	steps uint8
}

// Identity returns the transformation that leaves directions untouched.
func Identity() Transformation { return Transformation{} }

// Horizontal mirrors the X axis when active.
func Horizontal(active bool) Transformation {
	return Transformation{kind: HorizontalReflection, flipX: active}
}

// Vertical mirrors the Y axis when active.
func Vertical(active bool) Transformation {
	return Transformation{kind: VerticalReflection, flipY: active}
}

// Reflect mirrors either axis independently.
func Reflect(x, y bool) Transformation {
	return Transformation{kind: Reflection, flipX: x, flipY: y}
}

// Rotate turns directions clockwise by steps*45 degrees. Steps are taken
// modulo 8; negative values rotate counter-clockwise.
func Rotate(steps int) Transformation {
	return Transformation{kind: Rotation, steps: uint8(((steps % 8) + 8) % 8)}
}

// Kind reports which family t belongs to.
func (t Transformation) Kind() Kind { return t.kind }

// Steps reports the rotation amount in 45 degree steps.
func (t Transformation) Steps() int { return int(t.steps) }

// Apply transforms d.
func (t Transformation) Apply(d Direction) Direction {
	switch t.kind {
	case HorizontalReflection, VerticalReflection, Reflection:
		if t.flipX {
			d.X = -d.X
		}
		if t.flipY {
			d.Y = -d.Y
		}
		return d
	case Rotation:
		return rotate(d, int(t.steps))
	default:
		return d
	}
}

// rotate walks the Chebyshev ring d lies on. Each side of a ring of radius
// r holds 2r cells, so a shift of r cells is 45 degrees and a shift of 2r
// is an exact quarter turn. Offsets beyond MaxOffset lie off every grid and
// are returned unchanged.
func rotate(d Direction, steps int) Direction {
	r := d.radius()
	if r <= 0 || r > MaxOffset || steps == 0 {
		return d
	}
	steps = ((steps % 8) + 8) % 8
	perimeter := 8 * r
	i := (ringIndex(d, r) + steps*r) % perimeter
	return ringPoint(i, r)
}

// ringIndex numbers ring cells clockwise from the top-left corner.
func ringIndex(d Direction, r int) int {
	switch {
	case d.Y == -r && d.X < r:
		return d.X + r
	case d.X == r && d.Y < r:
		return 2*r + d.Y + r
	case d.Y == r && d.X > -r:
		return 4*r + r - d.X
	default:
		return 6*r + r - d.Y
	}
}

func ringPoint(i, r int) Direction {
	switch {
	case i < 2*r:
		return Direction{-r + i, -r}
	case i < 4*r:
		return Direction{r, -r + i - 2*r}
	case i < 6*r:
		return Direction{r - (i - 4*r), r}
	default:
		return Direction{-r, r - (i - 6*r)}
	}
}

// Variants enumerates every transformation of a kind: one for None, two for
// a single-axis reflection, four for Reflection and eight for Rotation.
func Variants(k Kind) []Transformation {
	switch k {
	case HorizontalReflection:
		return []Transformation{Horizontal(false), Horizontal(true)}
	case VerticalReflection:
		return []Transformation{Vertical(false), Vertical(true)}
	case Reflection:
		return []Transformation{
			Reflect(false, false), Reflect(true, false),
			Reflect(false, true), Reflect(true, true),
		}
	case Rotation:
		out := make([]Transformation, 8)
		for i := range out {
			out[i] = Rotate(i)
		}
		return out
	default:
		return []Transformation{Identity()}
	}
}

// Random picks one variant of k uniformly.
func Random(k Kind, rng *core.RNG) Transformation {
	switch k {
	case HorizontalReflection:
		return Horizontal(rng.Bool())
	case VerticalReflection:
		return Vertical(rng.Bool())
	case Reflection:
		return Reflect(rng.Bool(), rng.Bool())
	case Rotation:
		return Rotate(rng.IntN(8))
	default:
		return Identity()
	}
}
