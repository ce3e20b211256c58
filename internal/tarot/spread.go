package tarot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"

	"rhizome/internal/journal"
	"rhizome/internal/store"
)

// SpreadSize is how many cards an instance is dealt.
const SpreadSize = 10

// Spread is the deterministic draw for one instance location. The same
// absolute path always produces the same cards, across runs and platforms.
type Spread struct {
	Path  string
	Seed  uint32
	Cards []string
}

// SeedValue derives the draw seed from a filesystem path: SHA-256 of the
// absolute path, first 8 hex characters parsed as an integer. This is the
// pinned algorithm: changing it changes every instance's spread.
func SeedValue(path string) (uint32, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve instance path: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	seed, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse seed: %w", err)
	}
	return uint32(seed), nil
}

// NewSpread draws the 10-card spread for an instance path.
func NewSpread(path string) (*Spread, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve instance path: %w", err)
	}
	seed, err := SeedValue(abs)
	if err != nil {
		return nil, err
	}
	return &Spread{Path: abs, Seed: seed, Cards: draw(seed)}, nil
}

// draw samples SpreadSize distinct cards using math/rand seeded with the
// path hash. The Go 1 generator is frozen by the compatibility promise, so
// the permutation is stable across platforms and releases.
func draw(seed uint32) []string {
	deck := Deck()
	r := rand.New(rand.NewSource(int64(seed)))
	perm := r.Perm(len(deck))

	cards := make([]string, SpreadSize)
	for i := 0; i < SpreadSize; i++ {
		cards[i] = deck[perm[i]]
	}
	return cards
}

// SeedGraph writes the spread into the graph:
//
//	self --given--> tarot_spread
//	tarot_spread --contains--> <Card>   (one per position, qualifiers in metadata)
//
// and journals the seeding. Returns the number of edges written. Re-seeding
// the same path upserts the same edges, so the operation is idempotent.
func (s *Spread) SeedGraph(gs *store.GraphStore, j *journal.Journal) (int, error) {
	_, err := gs.CreateOrUpdateEdge("self", "given", "tarot_spread", 1.0, map[string]interface{}{
		"via":        "tarot_seeding",
		"context":    fmt.Sprintf("Spread seeded at %s", s.Path),
		"qualifiers": []string{"seeded", "instance_birth"},
	})
	if err != nil {
		return 0, err
	}
	written := 1

	pos := Positions()
	for i, card := range s.Cards {
		p := pos[i]
		_, err := gs.CreateOrUpdateEdge("tarot_spread", "contains", card, 1.0, map[string]interface{}{
			"via":     "tarot_seeding",
			"context": fmt.Sprintf("Card in %s position", p.Meaning),
			"qualifiers": []string{
				fmt.Sprintf("position:%d", p.Number),
				"meaning:" + p.Meaning,
				"layout:" + p.Layout,
			},
		})
		if err != nil {
			return written, err
		}
		written++
	}

	if j != nil {
		err := j.Append(journal.Entry{
			Kind:      "tarot_seeded",
			Subject:   "tarot_spread",
			Reasoning: "instance received its path-seeded spread",
			Action:    "seeded spread edges into graph",
			Result: map[string]interface{}{
				"seed":  s.Seed,
				"path":  s.Path,
				"cards": s.Cards,
			},
			Tags: []string{"seeding", "instance_birth"},
		})
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
