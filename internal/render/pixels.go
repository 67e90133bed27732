package render

import (
	"image/color"

	"mad-sand/internal/particle"
)

// Palette returns one colour per registry slot. Removed types map to
// transparent black.
func Palette(reg *particle.Registry) []color.RGBA {
	defs := reg.Definitions()
	palette := make([]color.RGBA, len(defs))
	for i, def := range defs {
		if def.Removed() {
			continue
		}
		palette[i] = def.Color
	}
	return palette
}

// FillRGBA converts cells into RGBA pixels in buf using the palette. A
// particle's Light scales its colour's alpha. Types outside the palette are
// drawn transparent. buf must hold 4 bytes per cell.
func FillRGBA(buf []byte, cells []particle.Particle, palette []color.RGBA) {
	last := len(palette) - 1
	for i, p := range cells {
		base := i * 4
		idx := int(p.Type)
		if idx > last {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = uint8(uint16(col.A) * uint16(p.Light) / 255)
	}
}
