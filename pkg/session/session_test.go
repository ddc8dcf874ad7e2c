package session

import (
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadMissingSession(t *testing.T) {
	s := openStore(t)
	_, ok, err := s.Load("/designs/never_saved.json")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("ok for a design with no saved session")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := openStore(t)
	in := State{
		Expanded: []string{"soc.core0.u_lsu", "soc", "soc.core0"},
		Selected: "soc.core0.u_lsu.u_dcache",
	}
	if err := s.Save("/designs/soc.json", in); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load("/designs/soc.json")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("saved session not found")
	}
	if got.Selected != in.Selected {
		t.Errorf("Selected = %q", got.Selected)
	}
	// Expanded paths come back shallow-first so parents restore before
	// children.
	want := []string{"soc", "soc.core0", "soc.core0.u_lsu"}
	if len(got.Expanded) != len(want) {
		t.Fatalf("Expanded = %v", got.Expanded)
	}
	for i := range want {
		if got.Expanded[i] != want[i] {
			t.Errorf("Expanded[%d] = %q, want %q", i, got.Expanded[i], want[i])
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openStore(t)
	if err := s.Save("/d.json", State{Selected: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("/d.json", State{Selected: "b"}); err != nil {
		t.Fatal(err)
	}
	got, ok, _ := s.Load("/d.json")
	if !ok || got.Selected != "b" {
		t.Errorf("after overwrite: ok=%v selected=%q", ok, got.Selected)
	}
}

func TestSessionsKeyedByPath(t *testing.T) {
	s := openStore(t)
	s.Save("/a.json", State{Selected: "top.a"})
	s.Save("/b.json", State{Selected: "top.b"})
	got, ok, _ := s.Load("/a.json")
	if !ok || got.Selected != "top.a" {
		t.Errorf("session for /a.json = %+v (ok=%v)", got, ok)
	}
}

func TestOpenRequiresStateDir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("no error for empty state dir")
	}
}
