// Package browser implements the lazy expandable tree browser shared by the
// hierarchy and signal panels: a partially materialized flattening of an
// externally owned tree, plus the viewport and search state needed to show
// it inside a fixed-size terminal region.
//
// The engine never owns node data. A Source hands out opaque node handles;
// the browser only annotates them (depth, expandable, expanded) and keeps an
// ordered visible list of rows. Designs can be enormous, so expansion is
// paginated: at most one limit's worth of children is spliced in per step,
// with a "...more..." placeholder standing in for the rest.
package browser

import "sort"

// DefaultLimit bounds how many children of one node are materialized in a
// single expansion step. Both panels override it from config.
const DefaultLimit = 500

// Node is an externally owned tree entity. Sources hand the engine
// pointer-like handles; identity is plain interface equality and the engine
// never copies or inspects node content. Handles must stay valid for the
// lifetime of the loaded design; on reload the whole browser is rebuilt.
type Node any

// Kind classifies a node's container type for styling.
type Kind uint8

const (
	KindModule Kind = iota
	KindGenerate
	KindTaskFunc
	KindSignal
	KindOther
)

// Label is the display text a Source reports for one node. Worklib
// qualifiers ("lib@name") are expected to be stripped by the adapter.
type Label struct {
	Kind Kind
	Name string // instance-style name, drawn first
	Type string // module/type text drawn after the name
}

// Source supplies children, labels and parent links for nodes. It must be
// read-only and stable: repeated Children calls for the same node return the
// same sequence while a design is loaded.
type Source interface {
	Roots() []Node
	Children(n Node) []Node
	Label(n Node) Label
	Parent(n Node) Node // nil for roots
}

// Command is one semantic input to the browser. Key bindings live in the UI
// shell; the engine only sees commands.
type Command int

const (
	CmdUp Command = iota
	CmdDown
	CmdLeft
	CmdRight
	CmdPageUp
	CmdPageDown
	CmdTop
	CmdBottom
	CmdToggleExpand
	CmdGoToParent
)

// Option configures a Browser at construction time.
type Option func(*Browser)

// WithLimit sets the per-level pagination limit.
func WithLimit(n int) Option {
	return func(b *Browser) {
		if n > 0 {
			b.limit = n
		}
	}
}

// Browser is one tree panel's engine instance. All methods are meant to be
// called from a single goroutine; rendering happens synchronously after
// input handling, never interleaved with it.
type Browser struct {
	src   Source
	limit int

	rows  []row
	nodes map[Node]*nodeInfo

	// Viewport state. The selected absolute index is always
	// lineIndex + rowScroll.
	lineIndex    int
	rowScroll    int
	colScroll    int
	maxColScroll int
	width        int
	height       int

	// Search state.
	query    string
	matchRow int
	matchCol int // rune offset into the row label, -1 when no highlight

	transfer bool
}

// New builds a browser over src, materializing the root set. Roots with at
// least one child sort before childless roots; within each group the order
// is lexical by display name (stable). A single expandable root is
// pre-expanded for usability.
func New(src Source, opts ...Option) *Browser {
	b := &Browser{
		src:      src,
		limit:    DefaultLimit,
		nodes:    make(map[Node]*nodeInfo),
		width:    80,
		height:   24,
		matchRow: -1,
		matchCol: -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.buildRoots()
	return b
}

func (b *Browser) buildRoots() {
	roots := append([]Node(nil), b.src.Roots()...)
	sort.SliceStable(roots, func(i, j int) bool {
		iKids := len(b.src.Children(roots[i])) > 0
		jKids := len(b.src.Children(roots[j])) > 0
		if iKids != jKids {
			return iKids
		}
		return b.src.Label(roots[i]).Name < b.src.Label(roots[j]).Name
	})

	b.rows = b.rows[:0]
	b.lineIndex, b.rowScroll, b.colScroll = 0, 0, 0
	for _, root := range roots {
		b.getOrInit(root, 0, nil)
		b.rows = append(b.rows, nodeRow(root))
	}
	if len(b.rows) == 1 {
		b.toggleExpandAt(0)
	}
}

// Handle dispatches one semantic command.
func (b *Browser) Handle(cmd Command) {
	if len(b.rows) == 0 {
		return
	}
	switch cmd {
	case CmdUp:
		b.moveUp()
	case CmdDown:
		b.moveDown()
	case CmdLeft:
		b.scrollLeft()
	case CmdRight:
		b.scrollRight()
	case CmdPageUp:
		b.pageUp()
	case CmdPageDown:
		b.pageDown()
	case CmdTop:
		b.jumpTop()
	case CmdBottom:
		b.jumpBottom()
	case CmdToggleExpand:
		b.toggleExpandAt(b.SelectedIndex())
	case CmdGoToParent:
		b.goToParent()
	}
	b.clampSelection()
}

// SelectedIndex returns the absolute index of the selection in the visible
// list.
func (b *Browser) SelectedIndex() int { return b.lineIndex + b.rowScroll }

// SelectedNode returns the node under the selection. Pagination placeholders
// report their parent node, so the result is never nil while rows exist.
func (b *Browser) SelectedNode() Node {
	if len(b.rows) == 0 {
		return nil
	}
	return b.rows[b.SelectedIndex()].node
}

// RowCount returns the current visible list length.
func (b *Browser) RowCount() int { return len(b.rows) }

// Scroll returns the current row and column scroll offsets.
func (b *Browser) Scroll() (row, col int) { return b.rowScroll, b.colScroll }

// RequestTransfer flags that the user asked to act on the current selection
// elsewhere (e.g. focus the matching scope in the other panel).
func (b *Browser) RequestTransfer() { b.transfer = true }

// TransferPending reports and clears the transfer flag: at most one true per
// request.
func (b *Browser) TransferPending() bool {
	p := b.transfer
	b.transfer = false
	return p
}

// Locate expands every ancestor on the path from a root down to (but not
// including) n and moves the selection onto n, resolving pagination
// placeholders along the way. Returns false if n is not reachable from the
// source's roots.
func (b *Browser) Locate(n Node) bool {
	var chain []Node
	for p := b.src.Parent(n); p != nil; p = b.src.Parent(p) {
		chain = append(chain, p)
	}
	// chain is child-first; walk it top-down.
	for i := len(chain) - 1; i >= 0; i-- {
		anc := chain[i]
		idx := b.findRowMaterializing(anc)
		if idx < 0 {
			return false
		}
		if fi := b.mustInfo(anc); fi.expandable && !fi.expanded {
			b.toggleExpandAt(idx)
		}
	}
	idx := b.findRowMaterializing(n)
	if idx < 0 {
		return false
	}
	b.selectIndex(idx)
	return true
}

// Expand makes sure n is visible and expanded. Used when restoring a saved
// session.
func (b *Browser) Expand(n Node) bool {
	if !b.Locate(n) {
		return false
	}
	if fi := b.mustInfo(n); fi.expandable && !fi.expanded {
		b.toggleExpandAt(b.SelectedIndex())
	}
	return true
}

// ExpandedNodes returns every node currently flagged expanded, including
// nodes hidden under a collapsed ancestor.
func (b *Browser) ExpandedNodes() []Node {
	var out []Node
	for n, fi := range b.nodes {
		if fi.expanded {
			out = append(out, n)
		}
	}
	return out
}

// findRowMaterializing scans the visible list for n, activating any
// pagination placeholder of n's parent until n appears or no placeholder is
// left to resume.
func (b *Browser) findRowMaterializing(n Node) int {
	parent := b.src.Parent(n)
	for {
		for i, r := range b.rows {
			if !r.isMore() && r.node == n {
				return i
			}
		}
		resumed := false
		for i, r := range b.rows {
			if r.isMore() && r.node == parent {
				b.toggleExpandAt(i)
				resumed = true
				break
			}
		}
		if !resumed {
			return -1
		}
	}
}
