package wave

import (
	"strings"
	"testing"

	"github.com/dau-dev/simview/pkg/browser"
)

const sampleVCD = `$date today $end
$version test dump $end
$timescale 1ns $end
$scope module top $end
$var input 1 ! clk $end
$var input 1 " rst_n $end
$scope module cpu $end
$var output 8 # data_o $end
$var inout 1 $ bidir $end
$var wire 16 % bus $end
$scope task check $end
$var reg 1 & flag $end
$upscope $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
`

func parseSample(t *testing.T) *Wave {
	t.Helper()
	w, err := ParseVCD(strings.NewReader(sampleVCD))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestParseVCDStructure(t *testing.T) {
	w := parseSample(t)
	if len(w.Roots) != 1 {
		t.Fatalf("roots = %d", len(w.Roots))
	}
	top := w.Roots[0]
	if top.Name != "top" || top.Kind != "module" {
		t.Errorf("top = %q kind %q", top.Name, top.Kind)
	}
	if len(top.Signals) != 2 || len(top.Scopes) != 1 {
		t.Fatalf("top: %d signals, %d scopes", len(top.Signals), len(top.Scopes))
	}
	cpu := top.Scopes[0]
	if len(cpu.Signals) != 3 || len(cpu.Scopes) != 1 {
		t.Fatalf("cpu: %d signals, %d scopes", len(cpu.Signals), len(cpu.Scopes))
	}

	data := cpu.Signals[0]
	if data.Name != "data_o" || data.Width != 8 || data.Dir != DirOutput {
		t.Errorf("data_o = %+v", data)
	}
	if cpu.Signals[1].Dir != DirInout {
		t.Errorf("bidir direction = %v", cpu.Signals[1].Dir)
	}
	if cpu.Signals[2].Dir != DirNone {
		t.Errorf("plain wire direction = %v", cpu.Signals[2].Dir)
	}
	if cpu.Scopes[0].Kind != "task" {
		t.Errorf("nested scope kind = %q", cpu.Scopes[0].Kind)
	}
}

func TestParseVCDErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"unbalanced scope", "$scope module a $end $enddefinitions $end"},
		{"stray upscope", "$upscope $end"},
		{"var outside scope", "$var wire 1 ! x $end"},
		{"bad width", "$scope module a $end $var wire w ! x $end"},
		{"no scopes", "$enddefinitions $end"},
		{"unterminated", "$scope module a"},
	}
	for _, c := range cases {
		if _, err := ParseVCD(strings.NewReader(c.in)); err == nil {
			t.Errorf("%s: no error", c.name)
		}
	}
}

func TestScopePathAndFind(t *testing.T) {
	w := parseSample(t)
	cpu := w.Roots[0].Scopes[0]
	if got := cpu.Path(); got != "top.cpu" {
		t.Errorf("Path = %q", got)
	}
	if w.FindScope("top.cpu") != cpu {
		t.Error("FindScope failed")
	}
	if w.FindScope("top.gpu") != nil {
		t.Error("FindScope resolved a missing scope")
	}
}

func TestFilter(t *testing.T) {
	w := parseSample(t)
	cpu := w.Roots[0].Scopes[0]

	tree := NewTree(w, Filter{HideOutputs: true})
	kids := tree.Children(cpu)
	for _, k := range kids {
		if sig, ok := k.(*Signal); ok && sig.Dir == DirOutput {
			t.Error("output leaked through filter")
		}
	}

	tree = NewTree(w, Filter{Contains: "data"})
	kids = tree.Children(cpu)
	sigCount := 0
	for _, k := range kids {
		if sig, ok := k.(*Signal); ok {
			sigCount++
			if !strings.Contains(sig.Name, "data") {
				t.Errorf("signal %q fails the substring filter", sig.Name)
			}
		}
	}
	if sigCount != 1 {
		t.Errorf("%d signals match, want 1", sigCount)
	}

	// Scopes are never filtered out.
	hasScope := false
	for _, k := range kids {
		if _, ok := k.(*Scope); ok {
			hasScope = true
		}
	}
	if !hasScope {
		t.Error("scope filtered out by a signal filter")
	}
}

func TestTreeLabels(t *testing.T) {
	w := parseSample(t)
	tree := NewTree(w, Filter{})
	top := w.Roots[0]

	l := tree.Label(top)
	if l.Kind != browser.KindModule || l.Name != "top" {
		t.Errorf("module scope label = %+v", l)
	}

	task := top.Scopes[0].Scopes[0]
	l = tree.Label(task)
	if l.Kind != browser.KindTaskFunc || l.Type != "[task]" {
		t.Errorf("task scope label = %+v", l)
	}

	data := top.Scopes[0].Signals[0]
	l = tree.Label(data)
	if l.Kind != browser.KindSignal || l.Type != "output [7:0]" {
		t.Errorf("signal label = %+v", l)
	}

	clk := top.Signals[0]
	if got := tree.Label(clk).Type; got != "input" {
		t.Errorf("scalar signal type = %q", got)
	}
}

func TestBrowseWaveTree(t *testing.T) {
	w := parseSample(t)
	b := browser.New(NewTree(w, Filter{}))
	// Single root pre-expands: top, cpu, clk, rst_n visible.
	if b.RowCount() != 4 {
		t.Fatalf("rows = %d", b.RowCount())
	}
	cpu := w.Roots[0].Scopes[0]
	if !b.Locate(cpu) {
		t.Fatal("Locate scope failed")
	}
	flag := cpu.Scopes[0].Signals[0]
	if !b.Locate(flag) {
		t.Fatal("Locate signal failed")
	}
}
