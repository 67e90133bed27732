package rules

import (
	"fmt"
	"sort"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
)

// CompileError reports an AST the compiler cannot turn into a rule. No
// partial rule is produced.
type CompileError struct {
	Path string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rules: compile %s: %s", e.Path, e.Msg)
}

// Compiled is an immutable closure tree bound to the registry it was
// compiled against.
type Compiled struct {
	name       string
	doc        *Document
	update     func(*grid.Grid)
	unresolved []string
	generation uint64
}

// Name returns the particle name the rule was compiled for.
func (c *Compiled) Name() string { return c.name }

// Unresolved lists type names that were unknown at compile time. Branches
// using them were compiled to their safe default.
func (c *Compiled) Unresolved() []string { return append([]string(nil), c.unresolved...) }

// Generation is the registry generation the rule was compiled against.
func (c *Compiled) Generation() uint64 { return c.generation }

// Update runs the rule with the grid cursor on the particle's cell.
func (c *Compiled) Update(g *grid.Grid) { c.update(g) }

// Behavior wraps the rule for the grid's dispatch table under type id. The
// post-tick hook recompiles the rule when names it could not resolve may
// have appeared in the registry, and installs the result in place.
func (c *Compiled) Behavior(id particle.ID) grid.Behavior {
	b := grid.Behavior{Update: c.update}
	if len(c.unresolved) == 0 || c.doc == nil {
		return b
	}
	checked := c.generation
	b.AfterTick = func(g *grid.Grid) {
		reg := g.Registry()
		if reg.Generation() == checked {
			return
		}
		checked = reg.Generation()
		if reg.IDFromName(c.name) != id {
			return
		}
		next, err := Compile(c.doc, reg)
		if err != nil || len(next.unresolved) == len(c.unresolved) {
			return
		}
		g.SetBehavior(id, next.Behavior(id))
	}
	return b
}

// Compile builds the closure tree for doc against reg. It does not modify
// the registry.
func Compile(doc *Document, reg *particle.Registry) (*Compiled, error) {
	c := &compiler{reg: reg, unresolved: map[string]bool{}}
	update, err := c.actions(doc.Update, "update")
	if err != nil {
		return nil, err
	}
	return &Compiled{
		name:       doc.Name,
		doc:        doc,
		update:     update,
		unresolved: c.unresolvedNames(),
		generation: reg.Generation(),
	}, nil
}

// CompileActions compiles a bare action list, as used by tests and tools
// that build rules without a document.
func CompileActions(name string, actions []Action, reg *particle.Registry) (*Compiled, error) {
	return Compile(&Document{Name: name, Update: actions}, reg)
}

type compiler struct {
	reg        *particle.Registry
	unresolved map[string]bool
}

// resolve looks name up once. Unknown names are recorded and reported as
// InvalidID, which never matches a grid cell.
func (c *compiler) resolve(name string) (particle.ID, bool) {
	id := c.reg.IDFromName(name)
	if id == particle.InvalidID {
		c.unresolved[name] = true
		return id, false
	}
	return id, true
}

func (c *compiler) unresolvedNames() []string {
	if len(c.unresolved) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.unresolved))
	for name := range c.unresolved {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func unsupported(path string, node any) error {
	return &CompileError{Path: path, Msg: fmt.Sprintf("unsupported node %T", node)}
}
