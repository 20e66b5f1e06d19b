package game

import (
	"math/rand"
	"sort"
)

// Card is one card in play. The value never changes after creation; Owner is
// a cosmetic tag saying who placed it, with no effect on the rules.
type Card struct {
	Value          int    `json:"value"`
	Owner          string `json:"owner,omitempty"`
	PlayedThisTurn bool   `json:"playedThisTurn,omitempty"`
}

// DeckSize is the number of drawable cards: 2..99. Values 1 and 100 exist
// only as column seeds.
const DeckSize = 98

// Deck is the shuffled draw pile. Drawing takes from the end.
type Deck struct {
	cards []Card
}

func NewDeck(r *rand.Rand) *Deck {
	cards := make([]Card, 0, DeckSize)
	for v := 2; v <= 99; v++ {
		cards = append(cards, Card{Value: v})
	}
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func sortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		return hand[i].Value < hand[j].Value
	})
}

func handValues(hand []Card) []int {
	out := make([]int, len(hand))
	for i, c := range hand {
		out[i] = c.Value
	}
	return out
}
