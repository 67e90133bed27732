package ui

import (
	"image"
	"image/color"

	"mad-sand/internal/particle"
)

// MaxRadius bounds the brush radius.
const MaxRadius = 16

// Entry is one paintable particle type.
type Entry struct {
	ID    particle.ID
	Name  string
	Color color.RGBA
}

// Entries lists the types a user may paint with, in registry order. Empty,
// removed and hidden types are left out.
func Entries(reg *particle.Registry) []Entry {
	var out []Entry
	for i, def := range reg.Definitions() {
		id := particle.ID(i)
		if id == particle.EmptyID || def.Removed() || def.HideInUI {
			continue
		}
		out = append(out, Entry{ID: id, Name: def.Name, Color: def.Color})
	}
	return out
}

// Brush is the painting state shared by the HUD and the game loop.
type Brush struct {
	Entries  []Entry
	Selected int
	Radius   int

	generation uint64
	synced     bool
}

// Sync refreshes the entries when the registry changed, keeping the
// selected type when it still exists.
func (b *Brush) Sync(reg *particle.Registry) {
	if b.synced && reg.Generation() == b.generation {
		return
	}
	prev, hadPrev := b.Current()
	b.Entries = Entries(reg)
	b.generation = reg.Generation()
	b.synced = true
	b.Selected = 0
	if !hadPrev {
		return
	}
	for i, e := range b.Entries {
		if e.ID == prev.ID {
			b.Selected = i
			return
		}
	}
}

// Current returns the selected entry.
func (b *Brush) Current() (Entry, bool) {
	if b.Selected < 0 || b.Selected >= len(b.Entries) {
		return Entry{}, false
	}
	return b.Entries[b.Selected], true
}

// Select picks entry i. Out-of-range indexes are ignored.
func (b *Brush) Select(i int) bool {
	if i < 0 || i >= len(b.Entries) {
		return false
	}
	b.Selected = i
	return true
}

// Grow changes the radius by delta within [0, MaxRadius].
func (b *Brush) Grow(delta int) {
	b.Radius = min(max(b.Radius+delta, 0), MaxRadius)
}

// rowRect is the clickable area of palette row i in a panel of the given
// width.
func rowRect(i, width int) image.Rectangle {
	top := controlsTop + i*lineHeight
	return image.Rect(panelPadding, top, width-panelPadding, top+lineHeight-buttonGap)
}

// hitRow returns the palette row under (x, y), or -1.
func hitRow(x, y, width, rows int) int {
	for i := 0; i < rows; i++ {
		if pointInRect(x, y, rowRect(i, width)) {
			return i
		}
	}
	return -1
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 28
	swatchSize     = 16
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 18
	infoSpacing    = 20
	controlsTop    = panelPadding + headerBaseline + 14
)
