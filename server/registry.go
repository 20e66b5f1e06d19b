package server

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calmisko/centena/game"
)

// Registry owns every room. Rooms lock independently, so two games never
// contend; the registry's own lock only guards the room and identity maps.
// Lock order is always registry then room.
type Registry struct {
	cfg Config
	log zerolog.Logger

	mu    sync.Mutex
	rnd   *rand.Rand
	rooms map[string]*room
	names map[string]string // playerName -> roomId, one active room per name

	newGame func() game.Game
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:     cfg,
		log:     log.With().Str("part", "registry").Logger(),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		rooms:   map[string]*room{},
		names:   map[string]string{},
		newGame: func() game.Game { return game.New(game.Options{}) },
	}
}

// room is one session: the game plus its connected clients, all behind one
// lock. Every mutation is validate, mutate, snapshot under that lock;
// delivery happens outside it.
type room struct {
	id   string
	host string
	log  zerolog.Logger

	mu           sync.Mutex
	game         game.Game
	clients      map[string]*clientBundle
	lastActivity time.Time
}

func (rm *room) touchLocked() {
	rm.lastActivity = time.Now()
}

// driveBotsLocked plays through any computer players now holding the turn.
func (rm *room) driveBotsLocked() {
	for {
		name, ai := rm.game.TurnPlayer()
		if name == "" || !ai || rm.game.Over() {
			return
		}
		if err := rm.game.PlayBotTurn(); err != nil {
			rm.log.Error().Err(err).Msg("bot turn failed")
			return
		}
	}
}

type RoomInfo struct {
	Room    string `json:"room"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
	Over    bool   `json:"over"`
}

// CreateRoom makes a room with a fresh 4-digit id and seats the host in it,
// plus any requested bots. With auto-start the game may begin immediately.
// The returned snapshot is the host's first sight of the room.
func (reg *Registry) CreateRoom(host string, bots int, client *clientBundle) (string, game.State, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, used := reg.names[host]; used {
		return "", game.State{}, game.ErrDuplicateName
	}

	id := reg.roomIDLocked()

	if max := reg.cfg.MaxPlayers - 1; bots > max {
		bots = max
	}

	g := reg.newGame()
	if err := g.AddPlayer(host, false); err != nil {
		return "", game.State{}, err
	}
	for i := 0; i < bots; i++ {
		if err := g.AddPlayer(fmt.Sprintf("bot-%d", i+1), true); err != nil {
			return "", game.State{}, err
		}
	}

	rm := &room{
		id:      id,
		host:    host,
		log:     reg.log.With().Str("room", id).Logger(),
		game:    g,
		clients: map[string]*clientBundle{host: client},
	}
	rm.touchLocked()

	if reg.cfg.AutoStart && 1+bots >= reg.cfg.MinPlayers {
		if err := g.Start(); err != nil {
			return "", game.State{}, err
		}
		rm.driveBotsLocked()
	}

	reg.rooms[id] = rm
	reg.names[host] = id
	rm.log.Info().Str("host", host).Int("bots", bots).Msg("room created")

	return id, g.State(), nil
}

// CreateEmpty makes a room with no host seated, for lobby-API creation
// where players connect afterwards. The first human to join becomes host.
func (reg *Registry) CreateEmpty(bots int) (string, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := reg.roomIDLocked()

	if max := reg.cfg.MaxPlayers - 1; bots > max {
		bots = max
	}

	g := reg.newGame()
	for i := 0; i < bots; i++ {
		if err := g.AddPlayer(fmt.Sprintf("bot-%d", i+1), true); err != nil {
			return "", err
		}
	}

	rm := &room{
		id:      id,
		log:     reg.log.With().Str("room", id).Logger(),
		game:    g,
		clients: map[string]*clientBundle{},
	}
	rm.touchLocked()

	reg.rooms[id] = rm
	rm.log.Info().Int("bots", bots).Msg("room created empty")
	return id, nil
}

func (reg *Registry) roomIDLocked() string {
	for {
		id := fmt.Sprintf("%04d", 1000+reg.rnd.Intn(9000))
		if _, exists := reg.rooms[id]; !exists {
			return id
		}
	}
}

// Join seats a player. On reaching the configured minimum with auto-start
// on, the session initializes and everyone gets game_start.
func (reg *Registry) Join(roomId, name string, client *clientBundle) error {
	reg.mu.Lock()
	rm, ok := reg.rooms[roomId]
	if !ok {
		reg.mu.Unlock()
		return game.ErrInvalidSession
	}
	if _, used := reg.names[name]; used {
		reg.mu.Unlock()
		return game.ErrDuplicateName
	}

	rm.mu.Lock()

	if rm.game.Started() {
		rm.mu.Unlock()
		reg.mu.Unlock()
		return game.ErrAlreadyStarted
	}
	if len(rm.game.State().Players) >= reg.cfg.MaxPlayers {
		rm.mu.Unlock()
		reg.mu.Unlock()
		return game.ErrSessionFull
	}
	if err := rm.game.AddPlayer(name, false); err != nil {
		rm.mu.Unlock()
		reg.mu.Unlock()
		return err
	}

	rm.clients[name] = client
	reg.names[name] = roomId
	reg.mu.Unlock()

	if rm.host == "" {
		rm.host = name
	}
	rm.touchLocked()

	typ := TypeGameState
	if reg.cfg.AutoStart && len(rm.game.State().Players) >= reg.cfg.MinPlayers {
		if err := rm.game.Start(); err == nil {
			rm.driveBotsLocked()
			typ = TypeGameStart
		}
	}

	st := rm.game.State()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	rm.log.Info().Str("player", name).Msg("joined")
	deliver(notification(name+" joined"), clients, name)
	deliverState(typ, st, clients)
	return nil
}

// StartGame is the host-initiated start, for deployments with auto-start
// off or rooms bigger than the minimum.
func (reg *Registry) StartGame(roomId, name string) error {
	rm, err := reg.lookup(roomId)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	if name != rm.host {
		rm.mu.Unlock()
		return game.ErrNotHost
	}
	if len(rm.game.State().Players) < reg.cfg.MinPlayers {
		rm.mu.Unlock()
		return game.ErrNotEnoughPlayers
	}
	if err := rm.game.Start(); err != nil {
		rm.mu.Unlock()
		return err
	}
	rm.driveBotsLocked()
	rm.touchLocked()
	st := rm.game.State()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	rm.log.Info().Msg("game started")
	deliverState(TypeGameStart, st, clients)
	return nil
}

// PlayCard places one card. A rule failure comes back to the caller and
// nobody else hears about it; success broadcasts the new state.
func (reg *Registry) PlayCard(roomId, name, column string, card int) error {
	rm, err := reg.lookup(roomId)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	if err := rm.game.PlayCard(name, column, card); err != nil {
		rm.mu.Unlock()
		return err
	}
	rm.touchLocked()
	st := rm.game.State()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	deliverState(TypeGameUpdate, st, clients)
	return nil
}

func (reg *Registry) EndTurn(roomId, name string) error {
	rm, err := reg.lookup(roomId)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	if err := rm.game.EndTurn(name); err != nil {
		rm.mu.Unlock()
		return err
	}
	rm.driveBotsLocked()
	rm.touchLocked()
	st := rm.game.State()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	deliverState(TypeGameUpdate, st, clients)
	return nil
}

// Notify relays a chat-style notification to the rest of the room.
func (reg *Registry) Notify(roomId, name, text string) error {
	rm, err := reg.lookup(roomId)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	rm.touchLocked()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	deliver(notification(name+": "+text), clients, name)
	return nil
}

// Disconnect removes a player after their connection broke. The turn moves
// on if they held it; the room dies with its last human.
func (reg *Registry) Disconnect(roomId, name string) {
	reg.mu.Lock()
	rm, ok := reg.rooms[roomId]
	if !ok {
		reg.mu.Unlock()
		return
	}
	delete(reg.names, name)

	rm.mu.Lock()
	delete(rm.clients, name)
	if err := rm.game.RemovePlayer(name); err != nil && err != game.ErrUnknownPlayer {
		rm.log.Error().Err(err).Msg("remove player failed")
	}

	if len(rm.clients) == 0 {
		delete(reg.rooms, roomId)
		rm.mu.Unlock()
		reg.mu.Unlock()
		rm.log.Info().Msg("room abandoned")
		return
	}
	reg.mu.Unlock()

	rm.driveBotsLocked()
	rm.touchLocked()
	st := rm.game.State()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	rm.log.Info().Str("player", name).Msg("disconnected")
	deliver(notification(name+" left the game"), clients, "")
	deliverState(TypeGameUpdate, st, clients)
}

// List describes the open rooms, for the lobby API.
func (reg *Registry) List() []RoomInfo {
	reg.mu.Lock()
	rooms := make([]*room, 0, len(reg.rooms))
	for _, rm := range reg.rooms {
		rooms = append(rooms, rm)
	}
	reg.mu.Unlock()

	out := []RoomInfo{}
	for _, rm := range rooms {
		rm.mu.Lock()
		st := rm.game.State()
		rm.mu.Unlock()
		out = append(out, RoomInfo{
			Room:    rm.id,
			Players: len(st.Players),
			Started: st.Started,
			Over:    st.Over,
		})
	}
	return out
}

// Query returns a room's snapshot, without any hand attached.
func (reg *Registry) Query(roomId string) (game.State, bool) {
	rm, err := reg.lookup(roomId)
	if err != nil {
		return game.State{}, false
	}
	rm.mu.Lock()
	st := rm.game.State()
	rm.mu.Unlock()
	return st, true
}

// CloseRoom tears a room down, telling the bound clients to go away.
func (reg *Registry) CloseRoom(roomId, reason string) error {
	reg.mu.Lock()
	rm, ok := reg.rooms[roomId]
	if !ok {
		reg.mu.Unlock()
		return game.ErrInvalidSession
	}
	delete(reg.rooms, roomId)
	for name, id := range reg.names {
		if id == roomId {
			delete(reg.names, name)
		}
	}
	reg.mu.Unlock()

	rm.mu.Lock()
	clients := rm.clientsLocked()
	rm.mu.Unlock()

	rm.log.Info().Str("reason", reason).Msg("room closed")
	deliver(notification("room closed: "+reason), clients, "")
	deliver(closeClient{}, clients, "")
	return nil
}

// Run reaps idle rooms until the context ends.
func (reg *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(reg.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, id := range reg.expired() {
				_ = reg.CloseRoom(id, "inactive")
			}
		}
	}
}

func (reg *Registry) expired() []string {
	cutoff := time.Now().Add(-reg.cfg.IdleTimeout)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	var out []string
	for id, rm := range reg.rooms {
		rm.mu.Lock()
		idle := rm.lastActivity.Before(cutoff)
		rm.mu.Unlock()
		if idle {
			out = append(out, id)
		}
	}
	return out
}

func (reg *Registry) lookup(roomId string) (*room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rm, ok := reg.rooms[roomId]
	if !ok {
		return nil, game.ErrInvalidSession
	}
	return rm, nil
}

func (rm *room) clientsLocked() []*clientBundle {
	out := make([]*clientBundle, 0, len(rm.clients))
	for _, c := range rm.clients {
		out = append(out, c)
	}
	return out
}
