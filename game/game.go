package game

import (
	"math/rand"
	"time"
)

// HandSize is how many cards a hand is refilled to at end of turn.
const HandSize = 6

type Options struct {
	// Rand drives shuffling and the initial turn choice. Defaults to a
	// time-seeded source.
	Rand *rand.Rand
}

func New(opts Options) Game {
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &game{rnd: r}
}

type player struct {
	name   string
	hand   []Card
	played int
	isAI   bool
}

type game struct {
	rnd *rand.Rand

	board   *Board
	deck    *Deck
	players []*player
	turn    int

	started bool
	over    bool
	result  Result
}

func (g *game) AddPlayer(name string, isAI bool) error {
	if g.started {
		return ErrAlreadyStarted
	}
	for _, p := range g.players {
		if p.name == name {
			return ErrDuplicateName
		}
	}
	g.players = append(g.players, &player{name: name, isAI: isAI})
	return nil
}

// Start seeds the board, builds the deck and deals the hands. The first
// turn goes to a random player.
func (g *game) Start() error {
	if g.started {
		return ErrAlreadyStarted
	}
	if len(g.players) == 0 {
		return ErrNotStarted
	}

	g.board = NewBoard()
	g.deck = NewDeck(g.rnd)

	for _, p := range g.players {
		for i := 0; i < HandSize; i++ {
			c, ok := g.deck.Draw()
			if !ok {
				break
			}
			p.hand = append(p.hand, c)
		}
		sortHand(p.hand)
	}

	g.turn = g.rnd.Intn(len(g.players))
	g.started = true
	return nil
}

func (g *game) PlayCard(name, column string, value int) error {
	p, err := g.actingPlayer(name)
	if err != nil {
		return err
	}

	ci := -1
	for i, c := range p.hand {
		if c.Value == value {
			ci = i
			break
		}
	}
	if ci == -1 {
		return ErrCardNotInHand
	}

	card := p.hand[ci]
	if !g.board.IsValidMove(column, card, p.hand) {
		return ErrInvalidMove
	}

	card.Owner = name
	card.PlayedThisTurn = true
	g.board.place(column, card)
	p.hand = append(p.hand[:ci], p.hand[ci+1:]...)
	p.played++

	g.checkGameState()
	return nil
}

func (g *game) EndTurn(name string) error {
	p, err := g.actingPlayer(name)
	if err != nil {
		return err
	}

	required := g.minRequired()
	if p.played < required {
		// allowed only if the player was genuinely stuck
		playable := 0
		for _, c := range p.hand {
			for _, col := range Columns {
				if g.board.IsValidMove(col, c, p.hand) {
					playable++
					break
				}
			}
		}
		if playable >= required {
			return ErrInsufficientPlays
		}
	}

	drew := false
	for len(p.hand) < HandSize {
		c, ok := g.deck.Draw()
		if !ok {
			break
		}
		p.hand = append(p.hand, c)
		drew = true
	}
	if drew {
		sortHand(p.hand)
	}

	p.played = 0
	g.turn = (g.turn + 1) % len(g.players)

	if !g.canPlay(g.players[g.turn]) {
		g.checkGameState()
	}
	return nil
}

// PlayBotTurn plays the current turn with the first-fit heuristic: place
// the first legal card found until the minimum is met, then end the turn.
func (g *game) PlayBotTurn() error {
	if !g.started {
		return ErrNotStarted
	}
	if g.over {
		return ErrGameOver
	}

	p := g.players[g.turn]
	if !p.isAI {
		return ErrNotYourTurn
	}

	for p.played < g.minRequired() && !g.over {
		card, column, ok := FirstLegal(p.hand, g.board)
		if !ok {
			break
		}
		if err := g.PlayCard(p.name, column, card.Value); err != nil {
			return err
		}
	}

	if g.over {
		return nil
	}
	return g.EndTurn(p.name)
}

// FirstLegal finds the first playable card in hand order, trying columns in
// board order. This is the whole of the bot's strategy.
func FirstLegal(hand []Card, b *Board) (Card, string, bool) {
	for _, c := range hand {
		for _, col := range Columns {
			if b.IsValidMove(col, c, hand) {
				return c, col, true
			}
		}
	}
	return Card{}, "", false
}

func (g *game) RemovePlayer(name string) error {
	i := -1
	for j, p := range g.players {
		if p.name == name {
			i = j
			break
		}
	}
	if i == -1 {
		return ErrUnknownPlayer
	}

	g.players = append(g.players[:i], g.players[i+1:]...)
	if len(g.players) == 0 {
		return nil
	}

	// keep the turn on the same player, or hand it to the next in join
	// order if the departing player held it
	if g.turn > i {
		g.turn--
	} else if g.turn >= len(g.players) {
		g.turn = 0
	}
	return nil
}

func (g *game) actingPlayer(name string) (*player, error) {
	if !g.started {
		return nil, ErrNotStarted
	}
	if g.over {
		return nil, ErrGameOver
	}
	p := g.players[g.turn]
	if p.name != name {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (g *game) minRequired() int {
	if g.deck.Len() == 0 {
		return 1
	}
	return 2
}

func (g *game) canPlay(p *player) bool {
	for _, c := range p.hand {
		for _, col := range Columns {
			if g.board.IsValidMove(col, c, p.hand) {
				return true
			}
		}
	}
	return false
}

// checkGameState moves the session to Over when terminal. Full win first,
// then mutual block.
func (g *game) checkGameState() {
	if len(g.players) == 0 {
		return
	}

	allEmpty := true
	for _, p := range g.players {
		if len(p.hand) > 0 {
			allEmpty = false
			break
		}
	}
	if allEmpty && g.deck.Len() == 0 {
		g.over = true
		g.result = VictoryRoyale
		return
	}

	for _, p := range g.players {
		if g.canPlay(p) {
			return
		}
	}

	g.over = true
	if g.deck.Len() == 0 {
		g.result = PartialVictory
	} else {
		g.result = TotalLoss
	}
}

func (g *game) Started() bool  { return g.started }
func (g *game) Over() bool     { return g.over }
func (g *game) Result() Result { return g.result }

func (g *game) TurnPlayer() (string, bool) {
	if !g.started || len(g.players) == 0 {
		return "", false
	}
	p := g.players[g.turn]
	return p.name, p.isAI
}

func (g *game) State() State {
	st := State{
		Players: map[string]PlayerState{},
		Board:   map[string][]int{},
		Hands:   map[string][]int{},
		Started: g.started,
		Over:    g.over,
		Result:  g.result,
	}

	turn := ""
	if g.started && len(g.players) > 0 {
		turn = g.players[g.turn].name
	}
	st.Turn = turn

	for _, p := range g.players {
		st.Players[p.name] = PlayerState{
			Nickname:  p.name,
			CardCount: len(p.hand),
			IsTurn:    p.name == turn,
			IsAI:      p.isAI,
		}
		st.Hands[p.name] = handValues(p.hand)
	}

	if g.started {
		st.Board = g.board.values()
		st.DeckCount = g.deck.Len()
	}

	return st
}
