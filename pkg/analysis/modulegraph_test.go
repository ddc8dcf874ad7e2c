package analysis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dau-dev/simview/pkg/design"
)

func inst(name, module string, kind design.Kind, subs ...*design.Instance) *design.Instance {
	i := &design.Instance{Name: name, Module: module, Kind: kind, Subs: subs}
	for _, s := range subs {
		s.Parent = i
	}
	return i
}

// testDesign is a small SoC shape: top holds two cores and a bus, each core
// holds an alu, one core wraps its alu in a generate block.
func testDesign() *design.Design {
	return &design.Design{
		Name: "soc",
		Tops: []*design.Instance{
			inst("top", "work@soc_top", design.KindModule,
				inst("core0", "work@cpu", design.KindModule,
					inst("u_alu", "work@alu", design.KindModule),
				),
				inst("core1", "work@cpu", design.KindModule,
					inst("gen_alu", "", design.KindGenerate,
						inst("u_alu", "work@alu", design.KindModule),
					),
				),
				inst("u_bus", "work@bus", design.KindModule),
			),
		},
	}
}

func TestBuildCounts(t *testing.T) {
	g := Build(testDesign())
	// top, core0, u_alu, core1, gen_alu, u_alu, u_bus
	if g.TotalInstances() != 7 {
		t.Errorf("TotalInstances = %d", g.TotalInstances())
	}
	// top(0) -> core1(1) -> gen_alu(2) -> u_alu(3)
	if g.MaxDepth() != 3 {
		t.Errorf("MaxDepth = %d", g.MaxDepth())
	}
	// soc_top->cpu, soc_top->bus, cpu->alu (generate inherits cpu; the
	// duplicate cpu->alu edge is not double counted)
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d", g.EdgeCount())
	}
}

func TestModulesSortedByInstanceCount(t *testing.T) {
	mods := Build(testDesign()).Modules()
	if len(mods) != 4 {
		t.Fatalf("modules = %d", len(mods))
	}
	// alu and cpu both have 2 instances; ties are lexical.
	wantNames := []string{"alu", "cpu", "bus", "soc_top"}
	wantCounts := []int{2, 2, 1, 1}
	for i := range wantNames {
		if mods[i].Name != wantNames[i] || mods[i].Instances != wantCounts[i] {
			t.Errorf("Modules[%d] = %+v, want %s x%d", i, mods[i], wantNames[i], wantCounts[i])
		}
	}
}

func TestMaxFanOut(t *testing.T) {
	for _, st := range Build(testDesign()).Modules() {
		if st.Name == "soc_top" && st.MaxFanOut != 3 {
			t.Errorf("soc_top fan-out = %d", st.MaxFanOut)
		}
		if st.Name == "cpu" && st.MaxFanOut != 1 {
			t.Errorf("cpu fan-out = %d", st.MaxFanOut)
		}
	}
}

func TestElaborationOrderLeavesFirst(t *testing.T) {
	order, err := Build(testDesign()).ElaborationOrder()
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[string]int, len(order))
	for i, m := range order {
		pos[m] = i
	}
	if pos["alu"] > pos["cpu"] {
		t.Errorf("alu after cpu: %v", order)
	}
	if pos["cpu"] > pos["soc_top"] || pos["bus"] > pos["soc_top"] {
		t.Errorf("soc_top not last: %v", order)
	}
}

func TestElaborationOrderRecursion(t *testing.T) {
	// a instantiates b, b instantiates a.
	d := &design.Design{
		Name: "rec",
		Tops: []*design.Instance{
			inst("top", "work@a", design.KindModule,
				inst("u_b", "work@b", design.KindModule,
					inst("u_a", "work@a", design.KindModule),
				),
			),
		},
	}
	_, err := Build(d).ElaborationOrder()
	if err == nil {
		t.Fatal("no error for recursive instantiation")
	}
	msg := err.Error()
	if !strings.Contains(msg, "recursive instantiation") ||
		!strings.Contains(msg, "a") || !strings.Contains(msg, "b") {
		t.Errorf("error = %q", msg)
	}
}

func TestSelfInstantiationAddsNoEdge(t *testing.T) {
	d := &design.Design{
		Tops: []*design.Instance{
			inst("top", "work@a", design.KindModule,
				inst("inner", "work@a", design.KindModule),
			),
		},
	}
	g := Build(d)
	if g.EdgeCount() != 0 {
		t.Errorf("self edge counted: %d", g.EdgeCount())
	}
	if _, err := g.ElaborationOrder(); err != nil {
		t.Errorf("ElaborationOrder: %v", err)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Build(testDesign()).Report(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Design: soc",
		"Instances: 7",
		"Modules: 4",
		"Max depth: 3",
		"Elaboration order (4 modules):",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
