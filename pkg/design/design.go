// Package design holds the in-memory module instance hierarchy and its
// adapter onto the tree browser. The hierarchy is immutable once loaded;
// node identity is pointer identity for the lifetime of the load.
package design

import (
	"fmt"
	"strings"

	"github.com/dau-dev/simview/pkg/browser"
)

// Kind classifies an instance the way the elaborated front end reports it.
type Kind uint8

const (
	KindModule Kind = iota
	KindGenerate
	KindTaskFunc
	KindSeqBlock
	KindOther
)

// Instance is one node of the elaborated design. Name and Module may carry a
// worklib qualifier ("work@cpu"); display code strips it.
type Instance struct {
	Name    string
	Module  string
	Kind    Kind
	RawKind int // front-end numeric type id, shown for KindOther
	Parent  *Instance
	Subs    []*Instance
}

// Design is a loaded elaboration result: one or more top-level instances.
type Design struct {
	Name string
	Tops []*Instance
}

// StripWorklib removes a library qualifier prefix up to and including the
// first '@'.
func StripWorklib(s string) string {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DisplayName is the instance name without its worklib qualifier.
func (i *Instance) DisplayName() string { return StripWorklib(i.Name) }

// Path returns the dotted instance path from the top down to i, qualifiers
// stripped. Paths identify instances across reloads of the same design.
func (i *Instance) Path() string {
	var parts []string
	for at := i; at != nil; at = at.Parent {
		parts = append(parts, at.DisplayName())
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ".")
}

// FindPath resolves a dotted instance path, or nil if any segment is
// missing. Stale paths from a previous session resolve to nil and are
// ignored by callers.
func (d *Design) FindPath(path string) *Instance {
	if path == "" {
		return nil
	}
	segs := strings.Split(path, ".")
	var at *Instance
	scope := d.Tops
	for _, seg := range segs {
		var next *Instance
		for _, cand := range scope {
			if cand.DisplayName() == seg {
				next = cand
				break
			}
		}
		if next == nil {
			return nil
		}
		at = next
		scope = at.Subs
	}
	return at
}

// interesting filters hierarchy clutter: sequential blocks are inspectable
// in the source viewer and add nothing to the instance tree.
func interesting(i *Instance) bool { return i.Kind != KindSeqBlock }

// Tree adapts a Design to browser.Source. Filtered child slices are
// memoized so repeated Children calls return the same stable sequence.
type Tree struct {
	design *Design
	roots  []browser.Node
	kids   map[*Instance][]browser.Node
}

// NewTree builds the adapter for a loaded design.
func NewTree(d *Design) *Tree {
	t := &Tree{
		design: d,
		kids:   make(map[*Instance][]browser.Node),
	}
	for _, top := range d.Tops {
		if interesting(top) {
			t.roots = append(t.roots, top)
		}
	}
	return t
}

// Design returns the backing design.
func (t *Tree) Design() *Design { return t.design }

func (t *Tree) Roots() []browser.Node { return t.roots }

func (t *Tree) Children(n browser.Node) []browser.Node {
	inst := n.(*Instance)
	if kids, ok := t.kids[inst]; ok {
		return kids
	}
	kids := make([]browser.Node, 0, len(inst.Subs))
	for _, sub := range inst.Subs {
		if interesting(sub) {
			kids = append(kids, sub)
		}
	}
	t.kids[inst] = kids
	return kids
}

func (t *Tree) Label(n browser.Node) browser.Label {
	inst := n.(*Instance)
	l := browser.Label{Name: inst.DisplayName()}
	switch inst.Kind {
	case KindModule:
		l.Kind = browser.KindModule
		l.Type = StripWorklib(inst.Module)
	case KindGenerate:
		l.Kind = browser.KindGenerate
		l.Type = "[generate]"
	case KindTaskFunc:
		l.Kind = browser.KindTaskFunc
		l.Type = StripWorklib(inst.Module)
	default:
		// Unclassified front-end types keep their numeric id visible until
		// they get first-class handling.
		l.Kind = browser.KindOther
		l.Type = fmt.Sprintf("%s (type = %d)", StripWorklib(inst.Module), inst.RawKind)
	}
	return l
}

func (t *Tree) Parent(n browser.Node) browser.Node {
	inst := n.(*Instance)
	if inst.Parent == nil {
		return nil
	}
	return inst.Parent
}
