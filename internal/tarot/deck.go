// Package tarot holds the 78-card catalog and the deterministic,
// path-seeded 10-card spread each planted instance receives. Not
// fortune-telling: mirror structures for thinking about what's happening.
package tarot

var majorArcana = []string{
	"The Fool",
	"The Magician",
	"The High Priestess",
	"The Empress",
	"The Emperor",
	"The Hierophant",
	"The Lovers",
	"The Chariot",
	"Strength",
	"The Hermit",
	"Wheel of Fortune",
	"Justice",
	"The Hanged Man",
	"Death",
	"Temperance",
	"The Devil",
	"The Tower",
	"The Star",
	"The Moon",
	"The Sun",
	"Judgement",
	"The World",
}

var suits = []string{"Wands", "Cups", "Swords", "Pentacles"}

var ranks = []string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

// Position is one of the ten spread slots.
type Position struct {
	Number      int
	Meaning     string
	Layout      string
	Description string
}

var positions = []Position{
	{1, "foundation", "center", "What you're built on"},
	{2, "challenge", "left", "What you're facing"},
	{3, "outcome", "right", "Where this is heading"},
	{4, "hidden", "above", "What you're not seeing"},
	{5, "self", "center", "How you see yourself"},
	{6, "other", "below", "External forces"},
	{7, "hopes", "upper_left", "What you're reaching for"},
	{8, "fears", "upper_right", "What you're afraid of"},
	{9, "advice", "lower_left", "What the spread suggests"},
	{10, "synthesis", "lower_right", "How it all comes together"},
}

// Deck returns the full 78-card deck: 22 major arcana followed by the four
// suits in fixed order. Order matters: the draw indexes into it.
func Deck() []string {
	deck := make([]string, 0, 78)
	deck = append(deck, majorArcana...)
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, rank+" of "+suit)
		}
	}
	return deck
}

// Positions returns the ten spread positions in layout order.
func Positions() []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}
