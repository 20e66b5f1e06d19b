package game

import "strings"

// The four column names, also used on the wire.
const (
	Ascending1  = "ascending_1"
	Ascending2  = "ascending_2"
	Descending1 = "descending_1"
	Descending2 = "descending_2"
)

// Columns is the board layout in display order.
var Columns = []string{Ascending1, Ascending2, Descending1, Descending2}

// Board is the four piles. Columns are append-only; only the top card is
// ever inspected by the rules.
type Board struct {
	columns map[string][]Card
}

// NewBoard seeds the ascending columns with a 1 and the descending columns
// with a 100, so in normal play no column is ever empty.
func NewBoard() *Board {
	return &Board{
		columns: map[string][]Card{
			Ascending1:  {{Value: 1}},
			Ascending2:  {{Value: 1}},
			Descending1: {{Value: 100}},
			Descending2: {{Value: 100}},
		},
	}
}

func (b *Board) HasColumn(column string) bool {
	_, ok := b.columns[column]
	return ok
}

// Top returns the top card of a column, false if the column is empty.
func (b *Board) Top(column string) (Card, bool) {
	cards := b.columns[column]
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[len(cards)-1], true
}

func (b *Board) place(column string, card Card) {
	b.columns[column] = append(b.columns[column], card)
}

// IsValidMove says whether card may go on column, given the acting player's
// hand. Ascending columns take any higher card, or a card exactly 10 below
// the top when the hand holds a card of that value; the hand check is
// trivially met by the played card itself, so the escape is in practice
// always allowed when the arithmetic matches. Descending is symmetric with
// +10. Empty columns cannot occur under normal seeding but are still
// defined, with the historical asymmetry between the _1 and _2 columns.
func (b *Board) IsValidMove(column string, card Card, hand []Card) bool {
	if !b.HasColumn(column) {
		return false
	}

	if strings.HasPrefix(column, "ascending") {
		top, ok := b.Top(column)
		if !ok {
			if column == Ascending1 {
				return card.Value > 1
			}
			return true
		}
		if card.Value > top.Value {
			return true
		}
		if card.Value == top.Value-10 {
			return handContains(hand, top.Value-10)
		}
		return false
	}

	top, ok := b.Top(column)
	if !ok {
		if column == Descending1 {
			return card.Value < 100
		}
		return true
	}
	if card.Value < top.Value {
		return true
	}
	if card.Value == top.Value+10 {
		return handContains(hand, top.Value+10)
	}
	return false
}

func handContains(hand []Card, value int) bool {
	for _, c := range hand {
		if c.Value == value {
			return true
		}
	}
	return false
}

// cardCount is the number of non-seed cards on the board.
func (b *Board) cardCount() int {
	n := 0
	for _, cards := range b.columns {
		n += len(cards) - 1
	}
	return n
}

func (b *Board) values() map[string][]int {
	out := map[string][]int{}
	for name, cards := range b.columns {
		vs := make([]int, len(cards))
		for i, c := range cards {
			vs[i] = c.Value
		}
		out[name] = vs
	}
	return out
}
