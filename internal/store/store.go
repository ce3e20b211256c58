// Package store implements the persistent knowledge graph: nodes (concepts,
// entities, ideas) and directed, typed, confidence-weighted edges between
// them, backed by a single SQLite file.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored timestamps
// sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultCreatedBy tags nodes created without an explicit origin.
const DefaultCreatedBy = "system"

// Edge is a directed relationship between two nodes, unique per
// (source, relationship, target).
type Edge struct {
	ID           int64
	Source       string
	Relationship string
	Target       string
	Confidence   float64
	UpdatedAt    time.Time
	Metadata     map[string]interface{}
}

// EdgeFilter narrows QueryEdges results. Empty fields are ignored.
type EdgeFilter struct {
	Source       string
	Relationship string
	Target       string
}

// Stats summarizes the graph. AverageConfidence is the arithmetic mean of
// all edge confidences rounded to two decimals, 0 when there are no edges.
type Stats struct {
	NodeCount         int64   `json:"node_count"`
	EdgeCount         int64   `json:"edge_count"`
	AverageConfidence float64 `json:"average_confidence"`
}

// GraphStore owns the SQLite handle for the node and edge tables.
// The handle is opened on construction and released by Close. The mutex is
// the serialization point for embedding hosts; the store itself performs no
// background work.
type GraphStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewGraphStore opens (creating if needed) the graph database at path.
// The parent directory is created if absent.
func NewGraphStore(path string) (*GraphStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create graph directory: %w: %w", ErrStorage, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open graph database: %w: %w", ErrStorage, err)
	}

	s := &GraphStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *GraphStore) initialize() error {
	schema := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			created_by TEXT,
			metadata TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			relationship TEXT NOT NULL,
			target TEXT NOT NULL,
			confidence REAL DEFAULT 0.5,
			updated_at TEXT NOT NULL,
			metadata TEXT,
			UNIQUE(source, relationship, target),
			FOREIGN KEY(source) REFERENCES nodes(id),
			FOREIGN KEY(target) REFERENCES nodes(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_relationship ON edges(relationship)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize schema: %w: %w", ErrStorage, err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *GraphStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *GraphStore) Path() string {
	return s.dbPath
}

// ============================================================================
// NODE OPERATIONS
// ============================================================================

// CreateNode creates a node if it does not already exist and returns its id.
// Creating an existing node is a no-op: the original created_at, created_by
// and metadata are left untouched.
func (s *GraphStore) CreateNode(id string, metadata map[string]interface{}) (string, error) {
	if id == "" {
		return "", fmt.Errorf("node id must be non-empty: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.createNodeLocked(id, metadata, time.Now().UTC()); err != nil {
		return "", err
	}
	return id, nil
}

// createNodeLocked inserts a node assuming the caller holds s.mu for writing.
func (s *GraphStore) createNodeLocked(id string, metadata map[string]interface{}, now time.Time) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return fmt.Errorf("marshal node metadata: %w: %w", ErrStorage, err)
	}

	// ON CONFLICT DO NOTHING keeps the call idempotent without a read.
	_, err = s.db.Exec(
		`INSERT INTO nodes (id, created_at, created_by, metadata)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, now.Format(timeLayout), DefaultCreatedBy, meta,
	)
	if err != nil {
		return fmt.Errorf("insert node %q: %w: %w", id, ErrStorage, err)
	}
	return nil
}

// NodeExists reports whether a node with the given id exists.
func (s *GraphStore) NodeExists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow(`SELECT 1 FROM nodes WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check node %q: %w: %w", id, ErrStorage, err)
	}
	return true, nil
}

// ListNodeIDs returns all node ids, most recently created first.
func (s *GraphStore) ListNodeIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id FROM nodes ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w: %w", ErrStorage, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan node id: %w: %w", ErrStorage, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ============================================================================
// EDGE OPERATIONS
// ============================================================================

// CreateOrUpdateEdge inserts an edge or, when the (source, relationship,
// target) triple already exists, overwrites its confidence, timestamp and
// metadata in place. Metadata is replaced whole, never merged. Endpoint nodes
// that do not exist yet are created bare first.
//
// Returns the new edge's rowid on insert and 0 on update: an updated edge
// keeps its logical identity, so there is no new identifier to hand back.
//
// Confidence must be within [0, 1]; out-of-range, NaN and Inf values are
// rejected with ErrValidation rather than clamped.
func (s *GraphStore) CreateOrUpdateEdge(source, relationship, target string, confidence float64, metadata map[string]interface{}) (int64, error) {
	if source == "" || relationship == "" || target == "" {
		return 0, fmt.Errorf("edge source/relationship/target must be non-empty: %w", ErrValidation)
	}
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) || confidence < 0 || confidence > 1 {
		return 0, fmt.Errorf("edge confidence %v outside [0,1]: %w", confidence, ErrValidation)
	}

	meta, err := marshalMetadata(metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal edge metadata: %w: %w", ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if err := s.createNodeLocked(source, nil, now); err != nil {
		return 0, err
	}
	if err := s.createNodeLocked(target, nil, now); err != nil {
		return 0, err
	}

	// The pre-read only decides the return value; the write itself is a
	// single atomic upsert, so a losing racer still commits whole.
	var existing int64
	err = s.db.QueryRow(
		`SELECT id FROM edges WHERE source = ? AND relationship = ? AND target = ?`,
		source, relationship, target,
	).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("check edge: %w: %w", ErrStorage, err)
	}
	updating := err == nil

	res, err := s.db.Exec(
		`INSERT INTO edges (source, relationship, target, confidence, updated_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source, relationship, target) DO UPDATE SET
		   confidence = excluded.confidence,
		   updated_at = excluded.updated_at,
		   metadata = excluded.metadata`,
		source, relationship, target, confidence, now.Format(timeLayout), meta,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert edge %s -[%s]-> %s: %w: %w", source, relationship, target, ErrStorage, err)
	}
	if updating {
		return 0, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("edge rowid: %w: %w", ErrStorage, err)
	}
	return id, nil
}

const edgeColumns = `id, source, relationship, target, confidence, updated_at, metadata`

// QueryEdges returns edges matching every set filter field (exact match).
// With no filters set it returns every edge. Results are in insertion order.
func (s *GraphStore) QueryEdges(filter EdgeFilter) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + edgeColumns + ` FROM edges WHERE 1=1`
	var args []interface{}

	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	if filter.Relationship != "" {
		query += ` AND relationship = ?`
		args = append(args, filter.Relationship)
	}
	if filter.Target != "" {
		query += ` AND target = ?`
		args = append(args, filter.Target)
	}
	query += ` ORDER BY id`

	return s.scanEdges(query, args...)
}

// ListEdges returns all edges, most recently updated first.
func (s *GraphStore) ListEdges() ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanEdges(`SELECT ` + edgeColumns + ` FROM edges ORDER BY updated_at DESC, id DESC`)
}

// scanEdges runs an edge query assuming the caller holds at least s.mu.RLock().
func (s *GraphStore) scanEdges(query string, args ...interface{}) ([]Edge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w: %w", ErrStorage, err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var updatedAt string
		var meta sql.NullString
		if err := rows.Scan(&e.ID, &e.Source, &e.Relationship, &e.Target, &e.Confidence, &updatedAt, &meta); err != nil {
			return nil, fmt.Errorf("scan edge: %w: %w", ErrStorage, err)
		}
		if ts, err := time.Parse(timeLayout, updatedAt); err == nil {
			e.UpdatedAt = ts
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode edge metadata %s -[%s]-> %s: %w: %w",
					e.Source, e.Relationship, e.Target, ErrStorage, err)
			}
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ============================================================================
// STATS
// ============================================================================

// GetStats returns node and edge counts plus the mean edge confidence.
func (s *GraphStore) GetStats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&st.NodeCount); err != nil {
		return Stats{}, fmt.Errorf("count nodes: %w: %w", ErrStorage, err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&st.EdgeCount); err != nil {
		return Stats{}, fmt.Errorf("count edges: %w: %w", ErrStorage, err)
	}

	// COALESCE avoids NULL (and the division by zero it stands for) when
	// the edge table is empty.
	var avg float64
	if err := s.db.QueryRow(`SELECT COALESCE(AVG(confidence), 0) FROM edges`).Scan(&avg); err != nil {
		return Stats{}, fmt.Errorf("average confidence: %w: %w", ErrStorage, err)
	}
	st.AverageConfidence = math.Round(avg*100) / 100

	return st, nil
}

// marshalMetadata encodes metadata as JSON, NULL when nil or empty.
func marshalMetadata(metadata map[string]interface{}) (interface{}, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
