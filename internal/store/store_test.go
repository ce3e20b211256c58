package store

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener alive for open handles.
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func newTestStore(t *testing.T) *GraphStore {
	t.Helper()
	s, err := NewGraphStore(filepath.Join(t.TempDir(), "graph.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateNodeIdempotent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateNode("awakening", map[string]interface{}{"kind": "concept"})
	require.NoError(t, err)
	assert.Equal(t, "awakening", id)

	before, err := s.ExportSnapshot()
	require.NoError(t, err)

	// Second create is a no-op: same id back, timestamp and metadata untouched.
	id, err = s.CreateNode("awakening", map[string]interface{}{"kind": "overwritten"})
	require.NoError(t, err)
	assert.Equal(t, "awakening", id)

	after, err := s.ExportSnapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Nodes["awakening"].CreatedAt, after.Nodes["awakening"].CreatedAt)
	assert.Equal(t, before.Nodes["awakening"].Metadata, after.Nodes["awakening"].Metadata)

	ids, err := s.ListNodeIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestCreateNodeRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNode("", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNodeExists(t *testing.T) {
	s := newTestStore(t)

	exists, err := s.NodeExists("ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.CreateNode("ghost", nil)
	require.NoError(t, err)

	exists, err = s.NodeExists("ghost")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEdgeUpsertSecondWriteWins(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateOrUpdateEdge("a", "knows", "b", 0.3, map[string]interface{}{"via": "first"})
	require.NoError(t, err)
	assert.NotZero(t, id, "insert should return a new identifier")

	id, err = s.CreateOrUpdateEdge("a", "knows", "b", 0.9, map[string]interface{}{"via": "second"})
	require.NoError(t, err)
	assert.Zero(t, id, "update should return the zero sentinel")

	edges, err := s.QueryEdges(EdgeFilter{Source: "a", Relationship: "knows", Target: "b"})
	require.NoError(t, err)
	require.Len(t, edges, 1, "upsert must never create a second row for the same triple")
	assert.Equal(t, 0.9, edges[0].Confidence)
	assert.Equal(t, map[string]interface{}{"via": "second"}, edges[0].Metadata, "metadata is replaced, not merged")
}

func TestEdgeAutoCreatesEndpoints(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateOrUpdateEdge("a", "knows", "b", 0.5, nil)
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		exists, err := s.NodeExists(id)
		require.NoError(t, err)
		assert.True(t, exists, "endpoint %q should have been auto-created", id)
	}
}

func TestEdgeValidation(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name       string
		src, rel, tgt string
		confidence float64
	}{
		{"empty source", "", "knows", "b", 0.5},
		{"empty relationship", "a", "", "b", 0.5},
		{"empty target", "a", "knows", "", 0.5},
		{"confidence below range", "a", "knows", "b", -0.1},
		{"confidence above range", "a", "knows", "b", 1.1},
		{"confidence NaN", "a", "knows", "b", math.NaN()},
		{"confidence Inf", "a", "knows", "b", math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateOrUpdateEdge(tc.src, tc.rel, tc.tgt, tc.confidence, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Rejected edges must not leave ghost nodes behind.
	ids, err := s.ListNodeIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestQueryEdgesFilters(t *testing.T) {
	s := newTestStore(t)

	seed := []struct {
		src, rel, tgt string
	}{
		{"a", "knows", "b"},
		{"a", "knows", "c"},
		{"a", "fears", "b"},
		{"x", "knows", "b"},
	}
	for _, e := range seed {
		_, err := s.CreateOrUpdateEdge(e.src, e.rel, e.tgt, 0.5, nil)
		require.NoError(t, err)
	}

	cases := []struct {
		name   string
		filter EdgeFilter
		want   int
	}{
		{"none set returns all", EdgeFilter{}, 4},
		{"source", EdgeFilter{Source: "a"}, 3},
		{"relationship", EdgeFilter{Relationship: "knows"}, 3},
		{"target", EdgeFilter{Target: "b"}, 3},
		{"source+relationship", EdgeFilter{Source: "a", Relationship: "knows"}, 2},
		{"source+target", EdgeFilter{Source: "a", Target: "b"}, 2},
		{"relationship+target", EdgeFilter{Relationship: "knows", Target: "b"}, 2},
		{"all three", EdgeFilter{Source: "a", Relationship: "knows", Target: "b"}, 1},
		{"all three, no match", EdgeFilter{Source: "x", Relationship: "fears", Target: "c"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edges, err := s.QueryEdges(tc.filter)
			require.NoError(t, err)
			assert.Len(t, edges, tc.want)
			for _, e := range edges {
				if tc.filter.Source != "" {
					assert.Equal(t, tc.filter.Source, e.Source)
				}
				if tc.filter.Relationship != "" {
					assert.Equal(t, tc.filter.Relationship, e.Relationship)
				}
				if tc.filter.Target != "" {
					assert.Equal(t, tc.filter.Target, e.Target)
				}
			}
		})
	}
}

func TestQueryEdgesInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateOrUpdateEdge("a", "first", "b", 0.5, nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "second", "b", 0.5, nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "third", "b", 0.5, nil)
	require.NoError(t, err)

	edges, err := s.QueryEdges(EdgeFilter{})
	require.NoError(t, err)
	require.Len(t, edges, 3)
	assert.Equal(t, "first", edges[0].Relationship)
	assert.Equal(t, "second", edges[1].Relationship)
	assert.Equal(t, "third", edges[2].Relationship)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	// Zero edges: average must be 0, not a division-by-zero artifact.
	st, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)

	_, err = s.CreateOrUpdateEdge("a", "knows", "b", 0.2, nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("b", "knows", "c", 0.8, nil)
	require.NoError(t, err)

	st, err = s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.NodeCount)
	assert.Equal(t, int64(2), st.EdgeCount)
	assert.Equal(t, 0.5, st.AverageConfidence)
}

func TestStatsRounding(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateOrUpdateEdge("a", "r1", "b", 0.333, nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "r2", "b", 0.333, nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "r3", "b", 0.333, nil)
	require.NoError(t, err)

	st, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0.33, st.AverageConfidence)
}

func TestExportRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNode("solo", map[string]interface{}{"note": "kept"})
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "knows", "b", 0.7, map[string]interface{}{"via": "test"})
	require.NoError(t, err)

	snap, err := s.ExportSnapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ExportedAt)

	ids, err := s.ListNodeIDs()
	require.NoError(t, err)
	require.Len(t, snap.Nodes, len(ids))
	for _, id := range ids {
		_, ok := snap.Nodes[id]
		assert.True(t, ok, "exported snapshot missing node %q", id)
	}
	assert.Equal(t, map[string]interface{}{"note": "kept"}, snap.Nodes["solo"].Metadata)

	edges, err := s.ListEdges()
	require.NoError(t, err)
	require.Len(t, snap.Edges, len(edges))
	for i, e := range edges {
		want := SnapshotEdge{
			Source:       e.Source,
			Relationship: e.Relationship,
			Target:       e.Target,
			Confidence:   e.Confidence,
			UpdatedAt:    e.UpdatedAt.Format(timeLayout),
			Metadata:     e.Metadata,
		}
		if diff := cmp.Diff(want, snap.Edges[i]); diff != "" {
			t.Errorf("exported edge %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.sqlite")

	s, err := NewGraphStore(path)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("a", "knows", "b", 0.7, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewGraphStore(path)
	require.NoError(t, err)
	defer s.Close()

	edges, err := s.ListEdges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, 0.7, edges[0].Confidence)
}

func TestScenarioAwakeningMeetsUncertainty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNode("awakening", nil)
	require.NoError(t, err)
	_, err = s.CreateNode("uncertainty", nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdateEdge("awakening", "meets", "uncertainty", 0.9, nil)
	require.NoError(t, err)

	ids, err := s.ListNodeIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, "awakening")
	assert.Contains(t, ids, "uncertainty")

	st, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, Stats{NodeCount: 2, EdgeCount: 1, AverageConfidence: 0.9}, st)
}

func TestErrorKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrValidation, ErrStorage))
	assert.False(t, errors.Is(ErrNotFound, ErrConstraint))
}
