// Package journal implements the append-only decision journal: one JSON
// record per line, written whole, never rewritten or compacted. Consumers
// read the file directly; there is no query API here.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrStorage marks append failures. Earlier lines are never affected: each
// record is a single whole write terminated by a newline.
var ErrStorage = errors.New("journal storage failure")

// Entry is one decision record. Zero-value fields get defaults on append:
// Timestamp is set to now, Result and Tags become empty rather than null.
type Entry struct {
	Timestamp time.Time
	Kind      string
	Subject   string
	Reasoning string
	Action    string
	Result    map[string]interface{}
	Tags      []string
}

// record is the wire form. Field names match the journal file format the
// original toolbox wrote, so existing journals stay parseable.
type record struct {
	TS        string                 `json:"ts"`
	Type      string                 `json:"type"`
	Subject   string                 `json:"subject"`
	Reasoning string                 `json:"reasoning"`
	Action    string                 `json:"action"`
	Result    map[string]interface{} `json:"result"`
	Tags      []string               `json:"tags"`
}

// Journal appends decision records to a line-delimited file. Concurrent
// callers in one process are serialized by the mutex; cross-process callers
// need external locking.
type Journal struct {
	path string
	mu   sync.Mutex
}

// New prepares a journal at path, creating the parent directory if absent.
func New(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w: %w", ErrStorage, err)
		}
	}
	return &Journal{path: path}, nil
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one entry as a single JSON line.
func (j *Journal) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	rec := record{
		TS:        e.Timestamp.Format(time.RFC3339Nano),
		Type:      e.Kind,
		Subject:   e.Subject,
		Reasoning: e.Reasoning,
		Action:    e.Action,
		Result:    e.Result,
		Tags:      e.Tags,
	}
	if rec.Result == nil {
		rec.Result = map[string]interface{}{}
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w: %w", ErrStorage, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w: %w", ErrStorage, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append journal entry: %w: %w", ErrStorage, err)
	}
	return nil
}

// Log appends an entry from the common positional fields.
func (j *Journal) Log(kind, subject, reasoning string) error {
	return j.Append(Entry{Kind: kind, Subject: subject, Reasoning: reasoning})
}
