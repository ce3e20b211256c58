// Package ritual carries the three seeded practices (breathing,
// retrospective, logging) and the run log that tracks how often each one
// has actually been tended. Rituals are invitations, not prescriptions:
// the seeded prompts can be replaced per instance through config.
package ritual

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"rhizome/internal/store"
)

//go:embed rituals.yaml
var seededRituals []byte

// Ritual is one repeated practice. Lead opens the ritual, Prompts are the
// questions to sit with, Close ends it.
type Ritual struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Frequency   string   `yaml:"frequency"`
	Lead        string   `yaml:"lead"`
	Prompts     []string `yaml:"prompts"`
	Close       string   `yaml:"close"`
}

// runRecord is one line of the ritual run log.
type runRecord struct {
	Timestamp string `json:"ts"`
	Ritual    string `json:"ritual"`
	Note      string `json:"note"`
}

// Registry holds the seeded rituals and the append-only run log.
type Registry struct {
	logPath string
	mu      sync.Mutex
	rituals []Ritual
}

// NewRegistry parses the seeded ritual definitions and attaches the run
// log at logPath. Prompt overrides replace a ritual's seeded prompts by
// name; unknown names are ignored.
func NewRegistry(logPath string, overrides map[string][]string) (*Registry, error) {
	var doc struct {
		Rituals []Ritual `yaml:"rituals"`
	}
	if err := yaml.Unmarshal(seededRituals, &doc); err != nil {
		return nil, fmt.Errorf("parse seeded rituals: %w", err)
	}

	for i := range doc.Rituals {
		if custom, ok := overrides[doc.Rituals[i].Name]; ok && len(custom) > 0 {
			doc.Rituals[i].Prompts = custom
		}
	}
	return &Registry{logPath: logPath, rituals: doc.Rituals}, nil
}

// List returns the rituals in seeded order.
func (r *Registry) List() []Ritual {
	return r.rituals
}

// Get looks up a ritual by name.
func (r *Registry) Get(name string) (Ritual, error) {
	for _, rit := range r.rituals {
		if rit.Name == name {
			return rit, nil
		}
	}
	return Ritual{}, fmt.Errorf("ritual %q: %w", name, store.ErrNotFound)
}

// Run records that a ritual was tended, with an optional note, and returns
// the ritual so callers can print its prompts. The log line lands in one
// write so concurrent runs never interleave.
func (r *Registry) Run(name, note string) (Ritual, error) {
	rit, err := r.Get(name)
	if err != nil {
		return Ritual{}, err
	}
	if note == "" {
		note = "Ritual completed"
	}

	data, err := json.Marshal(runRecord{
		Timestamp: time.Now().Format(time.RFC3339),
		Ritual:    name,
		Note:      note,
	})
	if err != nil {
		return Ritual{}, fmt.Errorf("encode ritual record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.logPath), 0755); err != nil {
		return Ritual{}, fmt.Errorf("create journal directory: %w", err)
	}
	f, err := os.OpenFile(r.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return Ritual{}, fmt.Errorf("open ritual log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return Ritual{}, fmt.Errorf("write ritual record: %w", err)
	}
	return rit, nil
}

// Stats summarizes the practice so far.
type Stats struct {
	TotalRuns int
	ByRitual  map[string]int
	LastRun   map[string]string
}

// GetStats replays the run log. A missing log means a practice not yet
// started, not an error.
func (r *Registry) GetStats() (Stats, error) {
	stats := Stats{
		ByRitual: map[string]int{},
		LastRun:  map[string]string{},
	}
	for _, rit := range r.rituals {
		stats.ByRitual[rit.Name] = 0
	}

	f, err := os.Open(r.logPath)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("open ritual log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec runRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		stats.TotalRuns++
		stats.ByRitual[rec.Ritual]++
		stats.LastRun[rec.Ritual] = rec.Timestamp
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("read ritual log: %w", err)
	}
	return stats, nil
}
