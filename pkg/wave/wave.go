// Package wave holds the signal-scope tree loaded from a waveform file
// header and its adapter onto the tree browser. Only the scope/signal
// structure is modeled; value decoding is out of scope.
package wave

import (
	"fmt"
	"strings"

	"github.com/dau-dev/simview/pkg/browser"
)

// Direction of a signal, when the header declares one.
type Direction uint8

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	default:
		return "signal"
	}
}

// Signal is a leaf of the scope tree.
type Signal struct {
	Name   string
	Width  int
	Dir    Direction
	Parent *Scope
}

// Scope is one level of the waveform's scope hierarchy.
type Scope struct {
	Name    string
	Kind    string // module, task, function, begin, fork
	Parent  *Scope
	Scopes  []*Scope
	Signals []*Signal
}

// Wave is a loaded waveform header.
type Wave struct {
	Roots []*Scope
}

// Path returns the dotted scope path from the root down to s.
func (s *Scope) Path() string {
	var parts []string
	for at := s; at != nil; at = at.Parent {
		parts = append(parts, at.Name)
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ".")
}

// FindScope resolves a dotted scope path, or nil.
func (w *Wave) FindScope(path string) *Scope {
	if path == "" {
		return nil
	}
	segs := strings.Split(path, ".")
	var at *Scope
	scope := w.Roots
	for _, seg := range segs {
		var next *Scope
		for _, cand := range scope {
			if cand.Name == seg {
				next = cand
				break
			}
		}
		if next == nil {
			return nil
		}
		at = next
		scope = at.Scopes
	}
	return at
}

// Filter controls which signals the tree shows. Scopes always show.
type Filter struct {
	HideInputs  bool
	HideOutputs bool
	HideInouts  bool
	HideSignals bool   // plain nets with no declared direction
	Contains    string // case-sensitive substring on the signal name
}

func (f Filter) keep(s *Signal) bool {
	switch s.Dir {
	case DirInput:
		if f.HideInputs {
			return false
		}
	case DirOutput:
		if f.HideOutputs {
			return false
		}
	case DirInout:
		if f.HideInouts {
			return false
		}
	default:
		if f.HideSignals {
			return false
		}
	}
	return f.Contains == "" || strings.Contains(s.Name, f.Contains)
}

// Tree adapts a Wave to browser.Source: scopes are inner nodes, signals are
// leaves. Changing the filter requires building a new Tree and browser; the
// engine assumes a source's children are structurally static.
type Tree struct {
	wave   *Wave
	filter Filter
	roots  []browser.Node
	kids   map[*Scope][]browser.Node
}

// NewTree builds the adapter with the given signal filter.
func NewTree(w *Wave, filter Filter) *Tree {
	t := &Tree{
		wave:   w,
		filter: filter,
		kids:   make(map[*Scope][]browser.Node),
	}
	for _, root := range w.Roots {
		t.roots = append(t.roots, root)
	}
	return t
}

// Wave returns the backing waveform header.
func (t *Tree) Wave() *Wave { return t.wave }

func (t *Tree) Roots() []browser.Node { return t.roots }

func (t *Tree) Children(n browser.Node) []browser.Node {
	scope, ok := n.(*Scope)
	if !ok {
		return nil // signals are leaves
	}
	if kids, ok := t.kids[scope]; ok {
		return kids
	}
	kids := make([]browser.Node, 0, len(scope.Scopes)+len(scope.Signals))
	for _, sub := range scope.Scopes {
		kids = append(kids, sub)
	}
	for _, sig := range scope.Signals {
		if t.filter.keep(sig) {
			kids = append(kids, sig)
		}
	}
	t.kids[scope] = kids
	return kids
}

func (t *Tree) Label(n browser.Node) browser.Label {
	switch v := n.(type) {
	case *Scope:
		l := browser.Label{Name: v.Name}
		switch v.Kind {
		case "task", "function":
			l.Kind = browser.KindTaskFunc
			l.Type = "[" + v.Kind + "]"
		case "begin", "fork":
			l.Kind = browser.KindGenerate
			l.Type = "[" + v.Kind + "]"
		default:
			l.Kind = browser.KindModule
			l.Type = v.Kind
		}
		return l
	case *Signal:
		typ := v.Dir.String()
		if v.Width > 1 {
			typ = fmt.Sprintf("%s [%d:0]", typ, v.Width-1)
		}
		return browser.Label{Kind: browser.KindSignal, Name: v.Name, Type: typ}
	default:
		return browser.Label{Kind: browser.KindOther, Name: fmt.Sprintf("%v", n)}
	}
}

func (t *Tree) Parent(n browser.Node) browser.Node {
	switch v := n.(type) {
	case *Scope:
		if v.Parent == nil {
			return nil
		}
		return v.Parent
	case *Signal:
		if v.Parent == nil {
			return nil
		}
		return v.Parent
	default:
		return nil
	}
}
