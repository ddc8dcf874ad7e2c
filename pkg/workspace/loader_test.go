package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const designDump = `{
  "design": "chip",
  "tops": [
    {"instance": "work@top", "module": "work@top_mod", "kind": "module",
     "children": [{"instance": "u_core", "module": "work@cpu", "kind": "module"}]}
  ]
}`

const waveDump = `$timescale 1ns $end
$scope module top $end
$var input 1 ! clk $end
$upscope $end
$enddefinitions $end
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDesignOnly(t *testing.T) {
	dir := t.TempDir()
	dp := writeInput(t, dir, "design.json", designDump)

	res, err := NewLoader().Load(context.Background(), Inputs{DesignPath: dp})
	if err != nil {
		t.Fatal(err)
	}
	if res.Design == nil || res.Design.Name != "chip" {
		t.Fatalf("design = %+v", res.Design)
	}
	if res.Wave != nil {
		t.Error("wave loaded without a wave path")
	}
}

func TestLoadDesignAndWave(t *testing.T) {
	dir := t.TempDir()
	dp := writeInput(t, dir, "design.json", designDump)
	wp := writeInput(t, dir, "dump.vcd", waveDump)

	res, err := NewLoader().Load(context.Background(), Inputs{DesignPath: dp, WavePath: wp})
	if err != nil {
		t.Fatal(err)
	}
	if res.Wave == nil || len(res.Wave.Roots) != 1 {
		t.Fatalf("wave = %+v", res.Wave)
	}
	if res.Wave.Roots[0].Name != "top" {
		t.Errorf("wave root = %q", res.Wave.Roots[0].Name)
	}
}

func TestLoadRequiresDesignPath(t *testing.T) {
	if _, err := NewLoader().Load(context.Background(), Inputs{}); err == nil {
		t.Error("no error for empty design path")
	}
}

func TestLoadMissingDesignFile(t *testing.T) {
	in := Inputs{DesignPath: filepath.Join(t.TempDir(), "nope.json")}
	if _, err := NewLoader().Load(context.Background(), in); err == nil {
		t.Error("no error for missing design file")
	}
}

func TestLoadBadWaveFailsWholeLoad(t *testing.T) {
	dir := t.TempDir()
	dp := writeInput(t, dir, "design.json", designDump)
	wp := writeInput(t, dir, "dump.vcd", "$scope module a")

	res, err := NewLoader().Load(context.Background(), Inputs{DesignPath: dp, WavePath: wp})
	if err == nil {
		t.Fatal("no error for malformed wave file")
	}
	if !strings.Contains(err.Error(), "wave") {
		t.Errorf("error = %v", err)
	}
	if res.Design != nil {
		t.Error("partial result returned on failure")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	dir := t.TempDir()
	dp := writeInput(t, dir, "design.json", designDump)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().Load(ctx, Inputs{DesignPath: dp}); err == nil {
		t.Error("no error for canceled context")
	}
}
