package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Limits.Hierarchy != 500 {
		t.Errorf("hierarchy limit = %d", cfg.Limits.Hierarchy)
	}
	if cfg.Limits.Signals != 100 {
		t.Errorf("signals limit = %d", cfg.Limits.Signals)
	}
	if cfg.Watch.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %v", cfg.Watch.PollInterval)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.Hierarchy != DefaultConfig().Limits.Hierarchy {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := Config{
		Limits:   Limits{Hierarchy: 50, Signals: 10},
		Watch:    WatchConfig{Disabled: true, PollInterval: 7 * time.Second},
		StateDir: "/tmp/simview-test-state",
	}
	if err := SaveTo(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Limits != want.Limits || got.Watch != want.Watch || got.StateDir != want.StateDir {
		t.Errorf("roundtrip: got %+v, want %+v", got, want)
	}
}

func TestLoadFromRepairsBadLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits:\n  hierarchy: -3\n  signals: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Limits != def.Limits {
		t.Errorf("bad limits not repaired: %+v", cfg.Limits)
	}
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("no error for malformed yaml")
	}
}

func TestResolvedStateDirHonorsOverride(t *testing.T) {
	cfg := Config{StateDir: "/custom/state"}
	if got := cfg.ResolvedStateDir(); got != "/custom/state" {
		t.Errorf("ResolvedStateDir = %q", got)
	}
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	cfg.StateDir = ""
	if got := cfg.ResolvedStateDir(); got != filepath.Join("/xdg/state", "simview") {
		t.Errorf("ResolvedStateDir = %q", got)
	}
}
