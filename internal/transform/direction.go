package transform

import "strings"

// Direction is a cell offset. X grows to the right, Y grows downwards.
type Direction struct {
	X, Y int
}

// MaxOffset bounds the components of an authored direction.
const MaxOffset = 1 << 15

// Common directions.
var (
	Here      = Direction{0, 0}
	Up        = Direction{0, -1}
	Down      = Direction{0, 1}
	Left      = Direction{-1, 0}
	Right     = Direction{1, 0}
	UpLeft    = Direction{-1, -1}
	UpRight   = Direction{1, -1}
	DownLeft  = Direction{-1, 1}
	DownRight = Direction{1, 1}
)

// Neighbours lists the Moore neighbourhood clockwise starting at Up.
var Neighbours = [8]Direction{Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}

var named = map[string]Direction{
	"here":      Here,
	"up":        Up,
	"down":      Down,
	"left":      Left,
	"right":     Right,
	"upleft":    UpLeft,
	"upright":   UpRight,
	"downleft":  DownLeft,
	"downright": DownRight,
}

// Named returns the direction with the given case-insensitive name.
func Named(name string) (Direction, bool) {
	d, ok := named[strings.ToLower(name)]
	return d, ok
}

// Add returns the component-wise sum of d and o.
func (d Direction) Add(o Direction) Direction { return Direction{d.X + o.X, d.Y + o.Y} }

// Sub returns the component-wise difference of d and o.
func (d Direction) Sub(o Direction) Direction { return Direction{d.X - o.X, d.Y - o.Y} }

// radius is the Chebyshev length of d.
func (d Direction) radius() int {
	return max(abs(d.X), abs(d.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
