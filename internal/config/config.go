// Package config loads and saves folio's JSON configuration.
// The cache subsystem itself reads no configuration; the session passes
// these values to constructors, so a bad value fails fast at startup.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wilbur182/folio/internal/readcache"
)

// Config is the root configuration structure.
type Config struct {
	UI      UIConfig      `json:"ui"`
	Caches  CachesConfig  `json:"caches"`
	Memory  MemoryConfig  `json:"memory"`
	Library LibraryConfig `json:"library"`
}

// UIConfig configures appearance.
type UIConfig struct {
	Theme      string `json:"theme"`
	ShowFooter bool   `json:"showFooter"`
}

// CachesConfig sizes the reading cache tiers.
type CachesConfig struct {
	// RenderedMaxItems bounds the rendered-chapter tier (items).
	RenderedMaxItems int `json:"renderedMaxItems"`
	// RawMaxItems bounds the raw-chapter tier (items); kept larger than
	// the rendered ceiling because raw chapters are cheaper to retain.
	RawMaxItems int `json:"rawMaxItems"`
	// ImageMaxBytes budgets the encoded-image tier.
	ImageMaxBytes int64 `json:"imageMaxBytes"`
}

// MemoryConfig configures the process-memory watchdog.
type MemoryConfig struct {
	ThresholdBytes int64 `json:"thresholdBytes"`
}

// LibraryConfig configures the reading-position store.
type LibraryConfig struct {
	// DBPath overrides the default library location; empty uses
	// ~/.config/folio/library.db.
	DBPath string `json:"dbPath,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			Theme:      "default",
			ShowFooter: true,
		},
		Caches: CachesConfig{
			RenderedMaxItems: readcache.DefaultRenderedMaxItems,
			RawMaxItems:      readcache.DefaultRawMaxItems,
			ImageMaxBytes:    readcache.DefaultImageMaxBytes,
		},
		Memory: MemoryConfig{
			ThresholdBytes: readcache.DefaultMemoryThresholdBytes,
		},
	}
}

// ConfigPath returns the config file location.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "folio", "config.json")
}

// LibraryPath returns the reading-position database location.
func (c *Config) LibraryPath() string {
	if c.Library.DBPath != "" {
		return c.Library.DBPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "library.db"
	}
	return filepath.Join(home, ".config", "folio", "library.db")
}

// Load reads the config file, returning defaults when it is missing.
// Unknown fields are ignored; zero-valued cache settings fall back to
// defaults so a hand-edited file cannot zero out a tier by accident.
func Load() (*Config, error) {
	return loadFrom(ConfigPath())
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks replaces unset numeric settings with defaults. Negative
// values are left alone so constructor validation rejects them loudly.
func (c *Config) applyFallbacks() {
	if c.Caches.RenderedMaxItems == 0 {
		c.Caches.RenderedMaxItems = readcache.DefaultRenderedMaxItems
	}
	if c.Caches.RawMaxItems == 0 {
		c.Caches.RawMaxItems = readcache.DefaultRawMaxItems
	}
	if c.Caches.ImageMaxBytes == 0 {
		c.Caches.ImageMaxBytes = readcache.DefaultImageMaxBytes
	}
	if c.Memory.ThresholdBytes == 0 {
		c.Memory.ThresholdBytes = readcache.DefaultMemoryThresholdBytes
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "default"
	}
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
