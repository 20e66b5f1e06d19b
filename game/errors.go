package game

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrInvalidSession means the room id is unknown
	ErrInvalidSession = &GameError{"INVALIDSESSION", "room not found"}
	// ErrSessionFull means the room is at capacity
	ErrSessionFull = &GameError{"SESSIONFULL", "room is full"}
	// ErrDuplicateName means the name is taken in that room
	ErrDuplicateName = &GameError{"DUPLICATENAME", "name already in use"}
	// ErrUnknownPlayer means no such player in the room
	ErrUnknownPlayer = &GameError{"UNKNOWNPLAYER", "no such player"}

	// ErrNotHost means only the room's creator may do that
	ErrNotHost = &GameError{"NOTHOST", "only the host can start the game"}
	// ErrNotEnoughPlayers means starting below the minimum player count
	ErrNotEnoughPlayers = &GameError{"NOTENOUGHPLAYERS", "not enough players"}

	// ErrAlreadyStarted is only when calling Start() too much
	ErrAlreadyStarted = &GameError{"ALREADYSTARTED", "game has already started"}
	// ErrNotStarted means the game has not started
	ErrNotStarted = &GameError{"NOTSTARTED", "game has not started"}
	// ErrNotYourTurn means you can't do something while it's not your turn
	ErrNotYourTurn = &GameError{"NOTYOURTURN", "it's not your turn"}
	// ErrGameOver means no moves after the game ends
	ErrGameOver = &GameError{"GAMEOVER", "the game is over"}

	// ErrCardNotInHand means playing a card you don't hold
	ErrCardNotInHand = &GameError{"CARDNOTINHAND", "card not in hand"}
	// ErrInvalidMove means the card cannot go on that column
	ErrInvalidMove = &GameError{"INVALIDMOVE", "move is not valid"}
	// ErrInsufficientPlays means ending the turn with legal plays remaining
	ErrInsufficientPlays = &GameError{"INSUFFICIENTPLAYS", "must play more cards this turn"}

	// ErrMalformedMessage is for undecodable frames
	ErrMalformedMessage = &GameError{"MALFORMEDMESSAGE", "malformed message"}
	// ErrConnectionLost is for broken client sockets
	ErrConnectionLost = &GameError{"CONNECTIONLOST", "connection lost"}
)
