package game

import (
	"fmt"
	"math/rand"
	"testing"
)

// fixedGame builds a started game with exact hands and deck, first hand
// holding the turn unless moved.
func fixedGame(hands [][]int, deck []int) *game {
	g := &game{
		rnd:     rand.New(rand.NewSource(1)),
		board:   NewBoard(),
		deck:    &Deck{},
		started: true,
	}
	for i, h := range hands {
		p := &player{name: fmt.Sprintf("p%d", i)}
		for _, v := range h {
			p.hand = append(p.hand, Card{Value: v})
		}
		g.players = append(g.players, p)
	}
	for _, v := range deck {
		g.deck.cards = append(g.deck.cards, Card{Value: v})
	}
	return g
}

func conserved(g *game) int {
	n := g.deck.Len() + g.board.cardCount()
	for _, p := range g.players {
		n += len(p.hand)
	}
	return n
}

func TestStart_dealAndSeed(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(7))}).(*game)
	g.AddPlayer("ana", false)
	g.AddPlayer("bruno", false)
	if err := g.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	st := g.State()
	for _, col := range []string{Ascending1, Ascending2} {
		if len(st.Board[col]) != 1 || st.Board[col][0] != 1 {
			t.Errorf("bad %s seed: %v", col, st.Board[col])
		}
	}
	for _, col := range []string{Descending1, Descending2} {
		if len(st.Board[col]) != 1 || st.Board[col][0] != 100 {
			t.Errorf("bad %s seed: %v", col, st.Board[col])
		}
	}

	for name, p := range st.Players {
		if p.CardCount != HandSize {
			t.Errorf("%s has %d cards", name, p.CardCount)
		}
	}
	if st.DeckCount != DeckSize-2*HandSize {
		t.Errorf("deck has %d", st.DeckCount)
	}
	if st.Turn != "ana" && st.Turn != "bruno" {
		t.Errorf("bad turn: %q", st.Turn)
	}
	if got := conserved(g); got != DeckSize {
		t.Errorf("conservation broken: %d", got)
	}
}

func TestAddPlayer(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(1))}).(*game)
	if err := g.AddPlayer("ana", false); err != nil {
		t.Errorf("add: %v", err)
	}
	if err := g.AddPlayer("ana", false); err != ErrDuplicateName {
		t.Errorf("expected duplicate, got %v", err)
	}
	g.AddPlayer("bruno", false)
	g.Start()
	if err := g.AddPlayer("carla", false); err != ErrAlreadyStarted {
		t.Errorf("expected already started, got %v", err)
	}
}

func TestPlayCard_scenario(t *testing.T) {
	g := fixedGame([][]int{{5, 40, 60}, {3, 50, 70}}, []int{20, 21, 22, 23})

	if err := g.PlayCard("p0", Ascending1, 5); err != nil {
		t.Fatalf("play 5: %v", err)
	}
	top, _ := g.board.Top(Ascending1)
	if top.Value != 5 {
		t.Errorf("top is %d", top.Value)
	}
	if vs := g.State().Board[Ascending1]; len(vs) != 2 || vs[1] != 5 {
		t.Errorf("column is %v", vs)
	}

	// the opposing player cannot undercut the new top
	g.turn = 1
	if err := g.PlayCard("p1", Ascending1, 3); err != ErrInvalidMove {
		t.Errorf("expected invalid move, got %v", err)
	}

	if got := conserved(g); got != 8 {
		t.Errorf("conservation broken: %d", got)
	}
}

func TestPlayCard_gates(t *testing.T) {
	g := fixedGame([][]int{{5}, {3}}, []int{20})

	if err := g.PlayCard("p1", Ascending1, 3); err != ErrNotYourTurn {
		t.Errorf("expected not your turn, got %v", err)
	}
	if err := g.PlayCard("p0", Ascending1, 99); err != ErrCardNotInHand {
		t.Errorf("expected card not in hand, got %v", err)
	}

	g.over = true
	if err := g.PlayCard("p0", Ascending1, 5); err != ErrGameOver {
		t.Errorf("expected game over, got %v", err)
	}

	g.over = false
	g.started = false
	if err := g.PlayCard("p0", Ascending1, 5); err != ErrNotStarted {
		t.Errorf("expected not started, got %v", err)
	}
}

func TestPlayCard_escape(t *testing.T) {
	g := fixedGame([][]int{{13}, {50}}, []int{20})
	g.board.place(Ascending1, Card{Value: 23})

	if err := g.PlayCard("p0", Ascending1, 13); err != nil {
		t.Errorf("escape play: %v", err)
	}
}

func highBoard(g *game) {
	// leave no room anywhere except where the test wants it
	g.board.place(Ascending1, Card{Value: 97})
	g.board.place(Ascending2, Card{Value: 98})
	g.board.place(Descending1, Card{Value: 3})
	g.board.place(Descending2, Card{Value: 2})
}

func TestEndTurn_insufficient(t *testing.T) {
	g := fixedGame([][]int{{98, 99}, {96}}, []int{10, 11, 12, 13, 14})
	highBoard(g)

	// both 98 and 99 fit on ascending_1, so ending with none played is
	// refused
	if err := g.EndTurn("p0"); err != ErrInsufficientPlays {
		t.Errorf("expected insufficient plays, got %v", err)
	}
}

func TestEndTurn_stuckEarly(t *testing.T) {
	g := fixedGame([][]int{{99, 50}, {96}}, []int{10, 11, 12, 13, 14})
	highBoard(g)

	// only the 99 is playable; one legal move against a requirement of
	// two means the player is stuck and may end early
	if err := g.EndTurn("p0"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	if g.players[0].played != 0 {
		t.Errorf("counter not reset")
	}
	if len(g.players[0].hand) != HandSize {
		t.Errorf("hand not refilled: %d", len(g.players[0].hand))
	}
	if name, _ := g.TurnPlayer(); name != "p1" {
		t.Errorf("turn is %s", name)
	}
}

func TestEndTurn_afterPlaying(t *testing.T) {
	g := fixedGame([][]int{{96, 98, 99}, {95}}, []int{10, 11, 12})
	g.board.place(Ascending1, Card{Value: 90})

	if err := g.PlayCard("p0", Ascending1, 96); err != nil {
		t.Fatalf("play: %v", err)
	}
	// one played, two required, and both 98 and 99 still fit
	if err := g.EndTurn("p0"); err != ErrInsufficientPlays {
		t.Errorf("expected insufficient plays, got %v", err)
	}
	if err := g.PlayCard("p0", Ascending1, 98); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := g.EndTurn("p0"); err != nil {
		t.Errorf("end turn: %v", err)
	}
}

func TestVictoryRoyale(t *testing.T) {
	g := fixedGame([][]int{{99}, {}}, nil)
	g.board.place(Ascending1, Card{Value: 98})

	if err := g.PlayCard("p0", Ascending1, 99); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !g.Over() || g.Result() != VictoryRoyale {
		t.Errorf("got %v %v", g.Over(), g.Result())
	}
}

func TestMutualBlock(t *testing.T) {
	g := fixedGame([][]int{{50}, {60}}, []int{40})
	highBoard(g)

	g.checkGameState()
	if !g.Over() || g.Result() != TotalLoss {
		t.Errorf("got %v %v", g.Over(), g.Result())
	}

	g = fixedGame([][]int{{50}, {60}}, nil)
	highBoard(g)

	g.checkGameState()
	if !g.Over() || g.Result() != PartialVictory {
		t.Errorf("got %v %v", g.Over(), g.Result())
	}
}

func TestPlayCard_detectsBlock(t *testing.T) {
	g := fixedGame([][]int{{96, 97}, {50}}, []int{40})
	g.board.place(Ascending1, Card{Value: 95})
	g.board.place(Ascending2, Card{Value: 98})
	g.board.place(Descending1, Card{Value: 3})
	g.board.place(Descending2, Card{Value: 2})

	g.PlayCard("p0", Ascending1, 96)
	if g.Over() {
		t.Fatalf("over too early")
	}

	// the second play empties p0's hand with p1 stuck; a card is still
	// in the deck, so this block is the losing one
	g.PlayCard("p0", Ascending1, 97)
	if !g.Over() || g.Result() != TotalLoss {
		t.Errorf("got %v %v", g.Over(), g.Result())
	}
	if err := g.EndTurn("p0"); err != ErrGameOver {
		t.Errorf("expected game over, got %v", err)
	}
}

func TestEndTurn_detectsBlock(t *testing.T) {
	g := fixedGame([][]int{{96}, {60}}, []int{50})
	highBoard(g)

	// p0 is stuck, ends early and draws the last card, also dead; p1 is
	// stuck too, so the handoff ends the game with the deck empty
	if err := g.EndTurn("p0"); err != nil {
		t.Fatalf("end turn: %v", err)
	}
	if !g.Over() || g.Result() != PartialVictory {
		t.Errorf("got %v %v", g.Over(), g.Result())
	}
}

func TestRemovePlayer_midTurn(t *testing.T) {
	g := fixedGame([][]int{{50}, {60}}, []int{40})

	if err := g.RemovePlayer("p0"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if name, _ := g.TurnPlayer(); name != "p1" {
		t.Errorf("turn is %s", name)
	}

	if err := g.RemovePlayer("nobody"); err != ErrUnknownPlayer {
		t.Errorf("expected unknown player, got %v", err)
	}
}

func TestRemovePlayer_beforeTurnHolder(t *testing.T) {
	g := fixedGame([][]int{{50}, {60}, {70}}, []int{40})
	g.turn = 2

	g.RemovePlayer("p0")
	if name, _ := g.TurnPlayer(); name != "p2" {
		t.Errorf("turn is %s", name)
	}
}

func TestPlayBotTurn(t *testing.T) {
	g := fixedGame([][]int{{96, 97, 98}, {50}}, []int{10, 11, 12})
	g.board.place(Ascending1, Card{Value: 95})
	g.players[0].isAI = true

	if err := g.PlayBotTurn(); err != nil {
		t.Fatalf("bot turn: %v", err)
	}
	if name, _ := g.TurnPlayer(); name != "p1" {
		t.Errorf("turn is %s", name)
	}
	// the bot played its minimum two and drew back up
	if got := len(g.players[0].hand); got != 4 {
		t.Errorf("bot hand is %d", got)
	}

	if err := g.PlayBotTurn(); err != ErrNotYourTurn {
		t.Errorf("expected not your turn for a human, got %v", err)
	}
}

func TestFirstLegal(t *testing.T) {
	b := NewBoard()
	b.place(Ascending1, Card{Value: 95})

	hand := []Card{{Value: 12}, {Value: 96}}
	c, col, ok := FirstLegal(hand, b)
	if !ok || c.Value != 12 || col != Ascending2 {
		t.Errorf("got %v %s %v", c, col, ok)
	}

	hand = []Card{{Value: 50}}
	b2 := NewBoard()
	b2.place(Ascending1, Card{Value: 97})
	b2.place(Ascending2, Card{Value: 98})
	b2.place(Descending1, Card{Value: 3})
	b2.place(Descending2, Card{Value: 2})
	if _, _, ok := FirstLegal(hand, b2); ok {
		t.Errorf("expected no legal move")
	}
}

func TestConservation_overPlay(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(11))}).(*game)
	g.AddPlayer("ana", false)
	g.AddPlayer("bruno", false)
	g.Start()

	for i := 0; i < 40 && !g.Over(); i++ {
		p := g.players[g.turn]
		if c, col, ok := FirstLegal(p.hand, g.board); ok && p.played < 2 {
			if err := g.PlayCard(p.name, col, c.Value); err != nil {
				t.Fatalf("play %d on %s: %v", c.Value, col, err)
			}
		} else {
			if err := g.EndTurn(p.name); err != nil {
				t.Fatalf("end turn: %v", err)
			}
		}
		if got := conserved(g); got != DeckSize {
			t.Fatalf("conservation broken at step %d: %d", i, got)
		}
	}
}
