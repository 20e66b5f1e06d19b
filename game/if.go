package game

// Result is how a finished game ended.
type Result string

const (
	// ResultNone means the game is still going
	ResultNone Result = ""
	// VictoryRoyale means every hand and the deck are empty
	VictoryRoyale Result = "victory_royale"
	// PartialVictory means mutual block with an empty deck
	PartialVictory Result = "partial_victory"
	// TotalLoss means mutual block with cards still in the deck
	TotalLoss Result = "total_loss"
)

type PlayerState struct {
	Nickname  string `json:"nickname"`
	CardCount int    `json:"card_count"`
	IsTurn    bool   `json:"is_turn"`
	IsAI      bool   `json:"is_ai,omitempty"`
}

// State is a self-contained snapshot of a session, shaped for the wire.
// Hands is every player's hand, for the broadcaster to personalize into
// Mano per recipient; it is never serialized whole.
type State struct {
	Players   map[string]PlayerState `json:"players"`
	Board     map[string][]int       `json:"tablero"`
	DeckCount int                    `json:"mazo_count"`
	Started   bool                   `json:"game_started"`
	Turn      string                 `json:"turno"`
	Over      bool                   `json:"game_over"`
	Result    Result                 `json:"resultado,omitempty"`

	Mano  []int            `json:"mano,omitempty"`
	Hands map[string][]int `json:"-"`
}

type Game interface {
	// lobby
	AddPlayer(name string, isAI bool) error
	RemovePlayer(name string) error
	Start() error

	// play
	PlayCard(player, column string, value int) error
	EndTurn(player string) error
	PlayBotTurn() error

	// state
	Started() bool
	Over() bool
	Result() Result
	TurnPlayer() (name string, isAI bool)
	State() State
}
