package server

import (
	"github.com/calmisko/centena/comms"
	"github.com/calmisko/centena/game"
)

// Message types on the wire. Every frame is a flat JSON object whose
// "type" field is one of these.
const (
	TypeCreateRoom   = "create_room"
	TypeJoin         = "join"
	TypeStartGame    = "start_game"
	TypePlayCard     = "play_card"
	TypeEndTurn      = "end_turn"
	TypeNotification = "notification"

	TypeRoomCreated = "room_created"
	TypeGameState   = "game_state"
	TypeGameStart   = "game_start"
	TypeGameUpdate  = "game_update"
	TypeError       = "error"
)

type CreateRoomMsg struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
	// Bots asks for first-fit computer players to be seated with the host.
	Bots int `json:"bots,omitempty"`
}

type JoinMsg struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
	Room     string `json:"room,omitempty"`
}

type StartGameMsg struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type PlayCardMsg struct {
	Type   string `json:"type"`
	Room   string `json:"room,omitempty"`
	Card   int    `json:"card"`
	Column string `json:"column"`
}

type EndTurnMsg struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type NotificationMsg struct {
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`
	Message string `json:"message"`
}

type RoomCreatedMsg struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// StateMsg carries a session snapshot: game_state, game_start or
// game_update depending on what happened.
type StateMsg struct {
	Type  string     `json:"type"`
	State game.State `json:"state"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func errorMsg(err error) ErrorMsg {
	we := comms.WrapError(err)
	return ErrorMsg{Type: TypeError, Code: we.Code, Message: we.Message}
}

func notification(message string) NotificationMsg {
	return NotificationMsg{Type: TypeNotification, Message: message}
}

// clientBundle is one connected client as the registry sees it: a name and
// a buffered queue of outbound messages. The gateway drains the queue into
// the socket; a full queue drops the message rather than block a room.
type clientBundle struct {
	name   string
	downCh chan interface{}
}
