package tarot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhizome/internal/journal"
	"rhizome/internal/store"
)

func TestDeckHas78UniqueCards(t *testing.T) {
	deck := Deck()
	require.Len(t, deck, 78)

	seen := make(map[string]bool, len(deck))
	for _, card := range deck {
		assert.False(t, seen[card], "duplicate card %q", card)
		seen[card] = true
	}
	assert.Equal(t, "The Fool", deck[0])
	assert.Equal(t, "King of Pentacles", deck[77])
}

func TestPositionsAreTenAndNumbered(t *testing.T) {
	pos := Positions()
	require.Len(t, pos, 10)
	for i, p := range pos {
		assert.Equal(t, i+1, p.Number)
		assert.NotEmpty(t, p.Meaning)
		assert.NotEmpty(t, p.Layout)
	}
}

func TestSpreadIsDeterministicPerPath(t *testing.T) {
	path := filepath.Join("some", "instance", "home")

	first, err := NewSpread(path)
	require.NoError(t, err)
	second, err := NewSpread(path)
	require.NoError(t, err)

	assert.Equal(t, first.Seed, second.Seed)
	assert.Equal(t, first.Cards, second.Cards, "same path must deal the same spread")
	require.Len(t, first.Cards, SpreadSize)

	// Draws are without replacement from the real deck.
	deck := make(map[string]bool)
	for _, card := range Deck() {
		deck[card] = true
	}
	seen := make(map[string]bool)
	for _, card := range first.Cards {
		assert.True(t, deck[card], "%q is not in the deck", card)
		assert.False(t, seen[card], "%q dealt twice", card)
		seen[card] = true
	}
}

func TestDistinctPathsGetDistinctSpreads(t *testing.T) {
	a, err := NewSpread(filepath.Join("plot", "alpha"))
	require.NoError(t, err)
	b, err := NewSpread(filepath.Join("plot", "beta"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Seed, b.Seed)
	assert.NotEqual(t, a.Cards, b.Cards)
}

func TestSeedGraphWritesRootAndCardEdges(t *testing.T) {
	gs, err := store.NewGraphStore(filepath.Join(t.TempDir(), "graph.sqlite"))
	require.NoError(t, err)
	defer gs.Close()
	j, err := journal.New(filepath.Join(t.TempDir(), "decisions.jsonl"))
	require.NoError(t, err)

	spread, err := NewSpread(t.TempDir())
	require.NoError(t, err)

	written, err := spread.SeedGraph(gs, j)
	require.NoError(t, err)
	assert.Equal(t, 1+SpreadSize, written)

	root, err := gs.QueryEdges(store.EdgeFilter{Source: "self", Relationship: "given", Target: "tarot_spread"})
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, 1.0, root[0].Confidence)

	cards, err := gs.QueryEdges(store.EdgeFilter{Source: "tarot_spread", Relationship: "contains"})
	require.NoError(t, err)
	require.Len(t, cards, SpreadSize)
	for i, e := range cards {
		assert.Equal(t, spread.Cards[i], e.Target)
		assert.Equal(t, "tarot_seeding", e.Metadata["via"])
	}

	// Re-seeding upserts rather than duplicating.
	_, err = spread.SeedGraph(gs, j)
	require.NoError(t, err)
	cards, err = gs.QueryEdges(store.EdgeFilter{Source: "tarot_spread", Relationship: "contains"})
	require.NoError(t, err)
	assert.Len(t, cards, SpreadSize)
}
