//go:build ebiten

package app

import (
	"image/color"
	"time"

	"mad-sand/internal/particle"
	"mad-sand/internal/render"
	"mad-sand/internal/sandbox"
	"mad-sand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the width of the palette panel in screen pixels.
const hudWidth = 180

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game adapts a sandbox simulation to the ebiten.Game interface.
type Game struct {
	sim     *sandbox.Simulation
	painter *render.GridPainter
	brush   *ui.Brush
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim *sandbox.Simulation, scale int, seed int64) *Game {
	size := sim.Size()
	brush := &ui.Brush{Radius: 2}
	brush.Sync(sim.Registry())
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H, color.RGBA{R: 8, G: 8, B: 12, A: 255}),
		brush:   brush,
		hud:     ui.NewHUD(sim, brush, hudWidth),
		overlay: ui.NewOverlay(brush, size.W, size.H, scale),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	_ = g.sim.Submit(sandbox.Restart(seed))
	g.tickOnce = true
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.brush.Grow(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.brush.Grow(1)
	}
	for i, key := range digitKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.brush.Select(i)
		}
	}

	size := g.sim.Size()
	g.hud.Update(size.W*g.scale, g.paused)
	g.paint()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// paint queues brush strokes: left button draws the selected type, right
// button erases.
func (g *Game) paint() {
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	size := g.sim.Size()
	mx, my := ebiten.CursorPosition()
	x, y, ok := ui.CellAt(mx, my, g.scale, size.W, size.H)
	if !ok {
		return
	}
	id := particle.EmptyID
	if left {
		e, ok := g.brush.Current()
		if !ok {
			return
		}
		id = e.ID
	}
	_ = g.sim.Submit(sandbox.Paint(x, y, g.brush.Radius, id))
	if g.paused {
		g.tickOnce = true
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), render.Palette(g.sim.Registry()), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
