// Package config handles loading and saving simview configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/simview/config.yaml
//   - State:  ~/.local/state/simview/ (session database)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Limits bounds how many children one expansion step materializes, per
// panel. The hierarchy panel tolerates bigger batches than the signal panel
// because instance fan-out dwarfs per-scope signal counts.
type Limits struct {
	Hierarchy int `yaml:"hierarchy,omitempty"`
	Signals   int `yaml:"signals,omitempty"`
}

// WatchConfig controls design-file reload watching.
type WatchConfig struct {
	Disabled     bool          `yaml:"disabled,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"` // fallback mode only
}

// Config is the top-level configuration for simview.
type Config struct {
	Limits   Limits      `yaml:"limits,omitempty"`
	Watch    WatchConfig `yaml:"watch,omitempty"`
	StateDir string      `yaml:"state_dir,omitempty"` // overrides the XDG state dir
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Limits: Limits{
			Hierarchy: 500,
			Signals:   100,
		},
		Watch: WatchConfig{
			PollInterval: 2 * time.Second,
		},
	}
}

// ConfigDir returns the XDG config directory for simview.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "simview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "simview")
}

// ResolvedStateDir returns the XDG state directory for simview, honoring
// the configured override.
func (c Config) ResolvedStateDir() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "simview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "simview")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Zero or negative limits would make expansion a no-op.
	def := DefaultConfig()
	if cfg.Limits.Hierarchy <= 0 {
		cfg.Limits.Hierarchy = def.Limits.Hierarchy
	}
	if cfg.Limits.Signals <= 0 {
		cfg.Limits.Signals = def.Limits.Signals
	}
	if cfg.Watch.PollInterval <= 0 {
		cfg.Watch.PollInterval = def.Watch.PollInterval
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
