package ui

// CellAt maps a screen position to the grid cell under it.
func CellAt(x, y, scale, w, h int) (int, int, bool) {
	if scale <= 0 {
		scale = 1
	}
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	cx, cy := x/scale, y/scale
	if cx >= w || cy >= h {
		return 0, 0, false
	}
	return cx, cy, true
}
