//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"mad-sand/internal/sandbox"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the particle palette to the right of the simulation view.
type HUD struct {
	sim        *sandbox.Simulation
	brush      *Brush
	width      int
	panel      *ebiten.Image
	lastHeight int

	panelOffsetX int
	title        string
	paused       bool

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim *sandbox.Simulation, brush *Brush, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, brush: brush, width: width, title: fmt.Sprintf("%s particles", sim.Name())}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width returns the panel width.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update syncs the palette with the registry and handles clicks on it.
func (h *HUD) Update(panelOffsetX int, paused bool) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.paused = paused
	h.brush.Sync(h.sim.Registry())
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	if row := hitRow(mx-h.panelOffsetX, my, h.width, len(h.brush.Entries)); row >= 0 {
		h.brush.Select(row)
	}
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawPalette()
	h.drawStatus(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawPalette() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.brush.Entries) == 0 {
		text.Draw(h.panel, "No particle types", face, panelPadding, headerY+infoSpacing, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}
	for i, e := range h.brush.Entries {
		rect := rowRect(i, h.width)
		if i == h.brush.Selected {
			h.fillRect(rect, color.RGBA{R: 54, G: 56, B: 64, A: 255})
		}
		swatch := image.Rect(rect.Min.X+4, rect.Min.Y+(rect.Dy()-swatchSize)/2, rect.Min.X+4+swatchSize, rect.Min.Y+(rect.Dy()+swatchSize)/2)
		h.fillRect(swatch, e.Color)
		label := e.Name
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, e.Name)
		}
		text.Draw(h.panel, label, face, swatch.Max.X+buttonGap, rect.Min.Y+labelBaseline, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
}

func (h *HUD) drawStatus(height int) {
	face := basicfont.Face7x13
	state := "running"
	if h.paused {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("tick %d (%s)", h.sim.Ticks(), state),
		fmt.Sprintf("brush %d  [ ]", h.brush.Radius),
	}
	y := height - panelPadding - (len(lines)-1)*infoSpacing
	for _, line := range lines {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		y += infoSpacing
	}
}

func (h *HUD) fillRect(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	h.panel.DrawImage(h.pixel, op)
}
