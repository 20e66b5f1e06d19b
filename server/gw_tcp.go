package server

import (
	"context"
	"io"
	"net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/calmisko/centena/comms"
	"github.com/calmisko/centena/game"
)

func runTCPGateway(ctx context.Context, reg *Registry, addr string) error {
	log := log.With().Str("gw", "tcp").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("comms listening on tcp:%v", ln.Addr())

	m := &tcpManager{
		reg: reg,
		log: log,
	}
	go func() {
		err := m.Serve(ln)
		m.log.Info().Err(err).Msg("gateway return")
	}()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	return nil
}

type tcpManager struct {
	reg *Registry
	log zerolog.Logger
}

func (m *tcpManager) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		m.manageConnection(conn)
	}
}

func (m *tcpManager) manageConnection(conn net.Conn) {
	addr := conn.RemoteAddr()

	log := m.log.With().Str("client", addr.String()).Logger()
	log.Info().Msg("connecting")

	downCh := make(chan interface{}, 100)

	upStream := comms.NewDecoder(conn)
	dnStream := comms.NewEncoder(conn)

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			if _, ok := down.(closeClient); ok {
				conn.Close()
				return
			}
			if err := dnStream.Encode(down); err != nil {
				log.Info().Err(err).Msg("send error")
				return
			}
		}
	}()

	go func() {
		c := &tcpClient{
			reg:    m.reg,
			log:    log,
			client: &clientBundle{downCh: downCh},
		}

		defer func() {
			if c.room != "" {
				c.reg.Disconnect(c.room, c.name)
			}
			conn.Close()
		}()

		for {
			// read conn, despatch into the registry
			msg, err := upStream.Decode()
			if err == io.EOF {
				return
			}
			if err == game.ErrMalformedMessage {
				// framing survives a bad line, just drop it
				log.Info().Msg("malformed frame dropped")
				send(c.client, errorMsg(err))
				continue
			}
			if err != nil {
				log.Info().Err(err).Msg("decode error")
				return
			}

			c.despatch(msg)
		}
	}()
}

// tcpClient is one connection's view of the world: after create/join the
// connection is bound to a room, and messages without an explicit room
// field are routed there.
type tcpClient struct {
	reg    *Registry
	log    zerolog.Logger
	client *clientBundle

	room string
	name string
}

func (c *tcpClient) despatch(msg comms.Msg) {
	switch msg.Type {
	case TypeCreateRoom:
		var p CreateRoomMsg
		if err := msg.Decode(&p); err != nil || p.Nickname == "" {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if c.room != "" {
			send(c.client, errorMsg(game.ErrDuplicateName))
			return
		}
		c.client.name = p.Nickname
		id, st, err := c.reg.CreateRoom(p.Nickname, p.Bots, c.client)
		if err != nil {
			send(c.client, errorMsg(err))
			return
		}
		c.room, c.name = id, p.Nickname
		send(c.client, RoomCreatedMsg{Type: TypeRoomCreated, Room: id})
		typ := TypeGameState
		if st.Started {
			typ = TypeGameStart
		}
		deliverState(typ, st, []*clientBundle{c.client})

	case TypeJoin:
		var p JoinMsg
		if err := msg.Decode(&p); err != nil || p.Nickname == "" || p.Room == "" {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if c.room != "" {
			send(c.client, errorMsg(game.ErrDuplicateName))
			return
		}
		c.client.name = p.Nickname
		if err := c.reg.Join(p.Room, p.Nickname, c.client); err != nil {
			send(c.client, errorMsg(err))
			return
		}
		c.room, c.name = p.Room, p.Nickname

	case TypeStartGame:
		var p StartGameMsg
		if err := msg.Decode(&p); err != nil {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if err := c.reg.StartGame(c.route(p.Room), c.name); err != nil {
			send(c.client, errorMsg(err))
		}

	case TypePlayCard:
		var p PlayCardMsg
		if err := msg.Decode(&p); err != nil {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if err := c.reg.PlayCard(c.route(p.Room), c.name, p.Column, p.Card); err != nil {
			send(c.client, errorMsg(err))
		}

	case TypeEndTurn:
		var p EndTurnMsg
		if err := msg.Decode(&p); err != nil {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if err := c.reg.EndTurn(c.route(p.Room), c.name); err != nil {
			send(c.client, errorMsg(err))
		}

	case TypeNotification:
		var p NotificationMsg
		if err := msg.Decode(&p); err != nil {
			send(c.client, errorMsg(game.ErrMalformedMessage))
			return
		}
		if err := c.reg.Notify(c.route(p.Room), c.name, p.Message); err != nil {
			send(c.client, errorMsg(err))
		}

	default:
		c.log.Info().Msgf("junk from client: %s", msg.Type)
	}
}

// route prefers an explicit room on the message over the connection
// binding.
func (c *tcpClient) route(room string) string {
	if room != "" {
		return room
	}
	return c.room
}
