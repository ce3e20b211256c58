// Package config manages the instance configuration stored at
// .rhizome/config.json and resolves the other .rhizome/ paths from a
// workspace root.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Config describes one planted instance. InstanceName stays "unnamed" until
// excavation finalizes; RitualPrompts overrides the seeded ritual prompts.
type Config struct {
	InstanceName  string              `json:"instance_name"`
	InstanceID    string              `json:"instance_id"`
	PlantedAt     string              `json:"planted_at"`
	NamedAt       string              `json:"named_at,omitempty"`
	Excavated     bool                `json:"excavated"`
	RitualPrompts map[string][]string `json:"ritual_prompts,omitempty"`
}

// Dir returns the instance state directory for a workspace.
func Dir(workspace string) string {
	return filepath.Join(workspace, ".rhizome")
}

// GraphPath returns the SQLite graph database location.
func GraphPath(workspace string) string {
	return filepath.Join(Dir(workspace), "graph.sqlite")
}

// JournalPath returns the decision journal location.
func JournalPath(workspace string) string {
	return filepath.Join(Dir(workspace), "journal", "decisions.jsonl")
}

// RitualLogPath returns the ritual run log location.
func RitualLogPath(workspace string) string {
	return filepath.Join(Dir(workspace), "journal", "rituals.jsonl")
}

// NotesDir returns the notes directory.
func NotesDir(workspace string) string {
	return filepath.Join(Dir(workspace), "notes")
}

// ExcavationStatePath returns the excavation state file location.
func ExcavationStatePath(workspace string) string {
	return filepath.Join(Dir(workspace), "journal", "excavation_state.json")
}

func configPath(workspace string) string {
	return filepath.Join(Dir(workspace), "config.json")
}

// Load reads the workspace config. A missing file yields defaults without
// touching disk; use Ensure to plant an instance.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(configPath(workspace))
	if os.IsNotExist(err) {
		return &Config{InstanceName: "unnamed"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.InstanceName == "" {
		cfg.InstanceName = "unnamed"
	}
	return &cfg, nil
}

// Ensure loads the config, planting a fresh instance (new id, planted_at set)
// and persisting it when none exists yet.
func Ensure(workspace string) (*Config, error) {
	cfg, err := Load(workspace)
	if err != nil {
		return nil, err
	}
	if cfg.InstanceID != "" {
		return cfg, nil
	}

	cfg.InstanceID = uuid.NewString()
	cfg.PlantedAt = time.Now().UTC().Format(time.RFC3339)
	if err := cfg.Save(workspace); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating .rhizome/ if needed.
func (c *Config) Save(workspace string) error {
	if err := os.MkdirAll(Dir(workspace), 0755); err != nil {
		return fmt.Errorf("create instance directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(configPath(workspace), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
