package rules

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"

	"mad-sand/internal/particle"
)

// Document is a parsed particle rule document.
type Document struct {
	Name  string
	Color color.RGBA

	AlphaLow, AlphaHigh uint8
	ExtraLow, ExtraHigh uint8
	HideInUI            bool

	// Native names a compiled-in behavior used instead of Update.
	Native string

	Update []Action
}

// Definition returns the registry entry described by the document.
func (d *Document) Definition() particle.Definition {
	return particle.Definition{
		Name:      d.Name,
		Color:     d.Color,
		LightLow:  d.AlphaLow,
		LightHigh: d.AlphaHigh,
		ExtraLow:  d.ExtraLow,
		ExtraHigh: d.ExtraHigh,
		HideInUI:  d.HideInUI,
	}
}

// DocumentError reports a malformed document, naming the offending field
// or node.
type DocumentError struct {
	Path   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString("rules: ")
	if e.Path != "" {
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d:%d)", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DocumentError) Unwrap() error { return e.Err }

func nodeError(n *yaml.Node, path, format string, args ...any) *DocumentError {
	e := &DocumentError{Path: path, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// Parse decodes a YAML or JSON rule document. Unknown top-level fields are
// ignored; a missing update list yields an empty rule.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DocumentError{Msg: "unparseable document", Err: err}
	}
	if root.Kind == 0 {
		return nil, &DocumentError{Msg: "empty document"}
	}
	top := deref(&root)
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = deref(top.Content[0])
	}
	if top.Kind != yaml.MappingNode {
		return nil, nodeError(top, "", "document must be a mapping")
	}

	doc := &Document{AlphaLow: 255, AlphaHigh: 255}
	var colorNode, updateNode *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i].Value, deref(top.Content[i+1])
		var err error
		switch key {
		case "name":
			err = decodeScalar(val, key, &doc.Name)
		case "color":
			colorNode = val
		case "alpha_low":
			err = decodeByte(val, key, &doc.AlphaLow)
		case "alpha_high":
			err = decodeByte(val, key, &doc.AlphaHigh)
		case "extra_low":
			err = decodeByte(val, key, &doc.ExtraLow)
		case "extra_high":
			err = decodeByte(val, key, &doc.ExtraHigh)
		case "hide_in_ui":
			err = decodeScalar(val, key, &doc.HideInUI)
		case "native":
			err = decodeScalar(val, key, &doc.Native)
		case "update":
			updateNode = val
		}
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(doc.Name) == "" {
		return nil, nodeError(top, "name", "missing particle name")
	}
	if colorNode == nil {
		return nil, nodeError(top, "color", "missing color")
	}
	c, err := decodeColor(colorNode)
	if err != nil {
		return nil, err
	}
	doc.Color = c

	if updateNode != nil && updateNode.Tag != "!!null" {
		if doc.Update, err = decodeActions(updateNode, "update"); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func decodeScalar[T any](n *yaml.Node, path string, out *T) error {
	if n.Kind != yaml.ScalarNode {
		return nodeError(n, path, "expected a scalar")
	}
	if err := n.Decode(out); err != nil {
		return &DocumentError{Path: path, Line: n.Line, Column: n.Column, Msg: "invalid value", Err: err}
	}
	return nil
}

func decodeByte(n *yaml.Node, path string, out *uint8) error {
	var v int
	if err := decodeScalar(n, path, &v); err != nil {
		return err
	}
	if v < 0 || v > 255 {
		return nodeError(n, path, "value %d outside 0..255", v)
	}
	*out = uint8(v)
	return nil
}

// decodeColor accepts [r, g, b], [r, g, b, a], "#rrggbb" or "#rrggbbaa".
func decodeColor(n *yaml.Node) (color.RGBA, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		if len(n.Content) != 3 && len(n.Content) != 4 {
			return color.RGBA{}, nodeError(n, "color", "expected 3 or 4 channels, got %d", len(n.Content))
		}
		ch := [4]uint8{3: 255}
		for i, c := range n.Content {
			if err := decodeByte(deref(c), fmt.Sprintf("color[%d]", i), &ch[i]); err != nil {
				return color.RGBA{}, err
			}
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
	case yaml.ScalarNode:
		s := strings.TrimPrefix(strings.TrimSpace(n.Value), "#")
		if len(s) != 6 && len(s) != 8 {
			return color.RGBA{}, nodeError(n, "color", "malformed hex color %q", n.Value)
		}
		raw, err := hex.DecodeString(s)
		if err != nil {
			return color.RGBA{}, &DocumentError{Path: "color", Line: n.Line, Column: n.Column, Msg: "malformed hex color", Err: err}
		}
		c := color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}
		if len(raw) == 4 {
			c.A = raw[3]
		}
		return c, nil
	default:
		return color.RGBA{}, nodeError(n, "color", "expected a channel list or hex string")
	}
}

// IsDocumentError reports whether err came from a malformed document.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
