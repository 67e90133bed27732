//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay outlines the brush footprint under the mouse cursor.
type Overlay struct {
	brush  *Brush
	scale  int
	width  int
	height int
	pixel  *ebiten.Image
}

// NewOverlay constructs an overlay for a grid of w*h cells drawn at scale.
func NewOverlay(brush *Brush, w, h, scale int) *Overlay {
	o := &Overlay{brush: brush, scale: max(scale, 1), width: w, height: h}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Draw renders the brush outline onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	cx, cy, ok := CellAt(mx, my, o.scale, o.width, o.height)
	if !ok {
		return
	}
	col := color.RGBA{R: 255, G: 255, B: 255, A: 160}
	if e, ok := o.brush.Current(); ok {
		col = e.Color
		col.A = 200
	}
	r := o.brush.Radius
	x0 := float64((cx - r) * o.scale)
	y0 := float64((cy - r) * o.scale)
	side := float64((2*r + 1) * o.scale)
	o.drawRect(screen, x0, y0, side, 1, col)
	o.drawRect(screen, x0, y0+side-1, side, 1, col)
	o.drawRect(screen, x0, y0, 1, side, col)
	o.drawRect(screen, x0+side-1, y0, 1, side, col)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
