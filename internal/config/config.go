// Package config loads the vaultdoctor TOML configuration. A missing
// config file is not an error; every knob has a working default.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Vault   VaultConfig   `toml:"vault"`
	Quality QualityConfig `toml:"quality"`
	Fix     FixConfig     `toml:"fix"`
	Output  OutputConfig  `toml:"output"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// VaultConfig holds settings about the vault's layout.
type VaultConfig struct {
	// IgnoreDirs are directory names skipped entirely during scanning.
	IgnoreDirs []string `toml:"ignore_dirs"`
	// StructuralDirs are directory prefixes whose documents are expected
	// to have few inbound links (daily logs, journals and the like).
	StructuralDirs []string `toml:"structural_dirs"`
	// CoreFiles are documents that anchor the vault; audits flag them
	// when missing.
	CoreFiles []string `toml:"core_files"`
}

// QualityConfig holds content-quality thresholds. A zero value disables
// the corresponding check.
type QualityConfig struct {
	MinWords  int `toml:"min_words"`
	MaxWords  int `toml:"max_words"`
	StaleDays int `toml:"stale_days"`
}

// FixConfig tunes the repair planner.
type FixConfig struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	MinOrphanWords int     `toml:"min_orphan_words"`
	MaxOrphanLinks int     `toml:"max_orphan_links"`
}

// OutputConfig selects the default report rendering.
type OutputConfig struct {
	Format string `toml:"format"` // terminal, json, or markdown
}

// HistoryConfig controls scan-history persistence.
type HistoryConfig struct {
	Path string `toml:"path"` // sqlite database path, relative to the vault
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			IgnoreDirs:     []string{".git", ".obsidian", ".trash", "node_modules"},
			StructuralDirs: []string{"daily", "logs", "journal"},
		},
		Quality: QualityConfig{
			MinWords:  30,
			MaxWords:  3000,
			StaleDays: 180,
		},
		Fix: FixConfig{
			FuzzyThreshold: 0.4,
			MinOrphanWords: 10,
			MaxOrphanLinks: 2,
		},
		Output: OutputConfig{
			Format: "terminal",
		},
		History: HistoryConfig{
			Path: ".vaultdoctor/history.db",
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// Load reads a TOML config file into a Config seeded with defaults, so
// fields the file omits keep their default values. A missing file returns
// the defaults without error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
