package sandbox

import (
	"bufio"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mad-sand/internal/particle"
)

// Count is the number of cells holding one type.
type Count struct {
	Name  string
	ID    particle.ID
	Cells int
}

// Population counts the non-empty cells per type, most common first.
func (s *Simulation) Population() []Count {
	counts := map[particle.ID]int{}
	for _, p := range s.grid.Cells() {
		if !p.IsEmpty() {
			counts[p.Type]++
		}
	}
	out := make([]Count, 0, len(counts))
	for id, n := range counts {
		name := "?"
		if def, err := s.reg.Definition(id); err == nil {
			name = def.Name
		}
		out = append(out, Count{Name: name, ID: id, Cells: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cells != out[j].Cells {
			return out[i].Cells > out[j].Cells
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Glyph returns the character used for a type in ASCII snapshots: the
// first letter of its name, '.' for empty cells.
func Glyph(def particle.Definition) rune {
	if def.Name == particle.EmptyName {
		return '.'
	}
	r, _ := utf8.DecodeRuneInString(def.Name)
	if r == utf8.RuneError {
		return '?'
	}
	return unicode.ToUpper(r)
}

// WriteASCII writes one line per grid row with one glyph per cell.
func (s *Simulation) WriteASCII(w io.Writer) error {
	defs := s.reg.Definitions()
	glyphs := make([]rune, len(defs))
	for i, def := range defs {
		glyphs[i] = Glyph(def)
	}
	bw := bufio.NewWriter(w)
	width := s.grid.Width()
	var line strings.Builder
	for i, p := range s.grid.Cells() {
		g := '?'
		if int(p.Type) < len(glyphs) {
			g = glyphs[p.Type]
		}
		line.WriteRune(g)
		if (i+1)%width == 0 {
			line.WriteByte('\n')
			if _, err := bw.WriteString(line.String()); err != nil {
				return err
			}
			line.Reset()
		}
	}
	return bw.Flush()
}
