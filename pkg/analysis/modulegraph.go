// Package analysis computes offline statistics over a loaded design: the
// module instantiation graph, an elaboration order, recursive
// instantiation detection and fan-out figures. Used by the --stats report;
// the interactive browser never depends on it.
package analysis

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/dau-dev/simview/pkg/design"
)

// ModuleStats summarizes one module definition across the whole design.
type ModuleStats struct {
	Name      string
	Instances int // how many times the module is instantiated
	MaxFanOut int // widest child list of any instance of the module
}

// Graph is the module instantiation graph: one node per module definition,
// one edge from a module to each module it instantiates.
type Graph struct {
	g       *simple.DirectedGraph
	ids     map[string]int64
	names   map[int64]string
	stats   map[string]*ModuleStats
	total   int // total instance count, all kinds
	maxDep  int // deepest instance nesting
	designN string
}

// Build walks the design and assembles the module graph. Generate blocks
// and task/function scopes are traversed but only module definitions become
// graph nodes.
func Build(d *design.Design) *Graph {
	mg := &Graph{
		g:       simple.NewDirectedGraph(),
		ids:     make(map[string]int64),
		names:   make(map[int64]string),
		stats:   make(map[string]*ModuleStats),
		designN: d.Name,
	}
	for _, top := range d.Tops {
		mg.walk(top, "", 0)
	}
	return mg
}

func (mg *Graph) nodeFor(module string) int64 {
	if id, ok := mg.ids[module]; ok {
		return id
	}
	n := mg.g.NewNode()
	mg.g.AddNode(n)
	mg.ids[module] = n.ID()
	mg.names[n.ID()] = module
	mg.stats[module] = &ModuleStats{Name: module}
	return n.ID()
}

// walk recurses through instances. enclosing is the module definition this
// position of the instance tree belongs to; generate and task scopes
// inherit it.
func (mg *Graph) walk(inst *design.Instance, enclosing string, depth int) {
	mg.total++
	if depth > mg.maxDep {
		mg.maxDep = depth
	}
	current := enclosing
	if inst.Kind == design.KindModule {
		name := design.StripWorklib(inst.Module)
		id := mg.nodeFor(name)
		st := mg.stats[name]
		st.Instances++
		if len(inst.Subs) > st.MaxFanOut {
			st.MaxFanOut = len(inst.Subs)
		}
		if enclosing != "" && enclosing != name {
			from := mg.ids[enclosing]
			if mg.g.Edge(from, id) == nil {
				mg.g.SetEdge(mg.g.NewEdge(mg.g.Node(from), mg.g.Node(id)))
			}
		}
		current = name
	}
	for _, sub := range inst.Subs {
		mg.walk(sub, current, depth+1)
	}
}

// ElaborationOrder returns module names in dependency order: a module comes
// after every module it instantiates. An error reports recursive
// instantiation with the modules involved.
func (mg *Graph) ElaborationOrder() ([]string, error) {
	sorted, err := topo.Sort(mg.g)
	if err != nil {
		if unord, ok := err.(topo.Unorderable); ok {
			var cyclic []string
			for _, scc := range unord {
				for _, n := range scc {
					cyclic = append(cyclic, mg.names[n.ID()])
				}
			}
			sort.Strings(cyclic)
			return nil, fmt.Errorf("recursive instantiation involving: %v", cyclic)
		}
		return nil, err
	}
	// topo.Sort yields dependents first; elaboration wants leaves first.
	out := make([]string, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		out = append(out, mg.names[sorted[i].ID()])
	}
	return out, nil
}

// Modules returns per-module stats sorted by instance count, most
// instantiated first, ties lexical.
func (mg *Graph) Modules() []ModuleStats {
	out := make([]ModuleStats, 0, len(mg.stats))
	for _, st := range mg.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Instances != out[j].Instances {
			return out[i].Instances > out[j].Instances
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TotalInstances returns the instance count across all kinds.
func (mg *Graph) TotalInstances() int { return mg.total }

// MaxDepth returns the deepest instance nesting seen.
func (mg *Graph) MaxDepth() int { return mg.maxDep }

// EdgeCount returns the number of distinct instantiation relations.
func (mg *Graph) EdgeCount() int { return mg.g.Edges().Len() }

// Report writes the --stats report.
func (mg *Graph) Report(w io.Writer) error {
	name := mg.designN
	if name == "" {
		name = "(unnamed design)"
	}
	fmt.Fprintf(w, "Design: %s\n", name)
	fmt.Fprintf(w, "Instances: %d  Modules: %d  Instantiation edges: %d  Max depth: %d\n\n",
		mg.total, len(mg.stats), mg.EdgeCount(), mg.maxDep)

	fmt.Fprintln(w, "Most instantiated modules:")
	mods := mg.Modules()
	limit := 15
	if len(mods) < limit {
		limit = len(mods)
	}
	for _, st := range mods[:limit] {
		fmt.Fprintf(w, "  %6d  %-32s max fan-out %d\n", st.Instances, st.Name, st.MaxFanOut)
	}

	order, err := mg.ElaborationOrder()
	if err != nil {
		fmt.Fprintf(w, "\nElaboration order: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "\nElaboration order (%d modules):\n", len(order))
	for _, m := range order {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}
