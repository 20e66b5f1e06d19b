// Package client is a terminal client for playing over TCP.
package client

import (
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	rl "github.com/chzyer/readline"

	"github.com/calmisko/centena/comms"
	"github.com/calmisko/centena/game"
	"github.com/calmisko/centena/server"
)

type Client interface {
	Run() error
}

func NewClient(name, addr string) Client {
	return &client{
		name: name,
		addr: addr,
	}
}

type client struct {
	name string
	addr string

	enc *comms.Encoder

	mu    sync.Mutex
	state *game.State
	room  string
}

// columns maps shorthand the user types to column names on the wire.
var columns = map[string]string{
	"a1": game.Ascending1,
	"a2": game.Ascending2,
	"d1": game.Descending1,
	"d2": game.Descending2,
}

func (c *client) Run() error {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.enc = comms.NewEncoder(conn)
	dec := comms.NewDecoder(conn)

	l, err := rl.NewEx(&rl.Config{
		Prompt: "> ",
	})
	if err != nil {
		return err
	}
	defer l.Close()

	out := l.Stdout()

	go func() {
		for {
			msg, err := dec.Decode()
			if err == io.EOF {
				fmt.Fprintln(out, "server gone")
				l.Close()
				return
			}
			if err != nil {
				continue
			}
			c.receive(out, msg)
		}
	}()

	for {
		line, err := l.Readline()
		if err != nil {
			// interrupt or EOF
			return nil
		}
		if quit := c.command(out, strings.Fields(line)); quit {
			return nil
		}
	}
}

func (c *client) receive(out io.Writer, msg comms.Msg) {
	switch msg.Type {
	case server.TypeRoomCreated:
		var p server.RoomCreatedMsg
		if msg.Decode(&p) == nil {
			c.mu.Lock()
			c.room = p.Room
			c.mu.Unlock()
			fmt.Fprintf(out, "room created: %s\n", p.Room)
		}
	case server.TypeGameState, server.TypeGameStart, server.TypeGameUpdate:
		var p server.StateMsg
		if msg.Decode(&p) == nil {
			c.mu.Lock()
			c.state = &p.State
			c.mu.Unlock()
			if msg.Type == server.TypeGameStart {
				fmt.Fprintln(out, "the game starts")
			}
			c.render(out, &p.State)
		}
	case server.TypeNotification:
		var p server.NotificationMsg
		if msg.Decode(&p) == nil {
			fmt.Fprintf(out, "* %s\n", p.Message)
		}
	case server.TypeError:
		var p server.ErrorMsg
		if msg.Decode(&p) == nil {
			fmt.Fprintf(out, "! %s\n", p.Message)
		}
	}
}

func (c *client) render(out io.Writer, st *game.State) {
	for _, col := range game.Columns {
		vs := st.Board[col]
		top := "-"
		if len(vs) > 0 {
			top = strconv.Itoa(vs[len(vs)-1])
		}
		fmt.Fprintf(out, "  %-12s top %3s (%d cards)\n", col, top, len(vs))
	}
	fmt.Fprintf(out, "  deck: %d\n", st.DeckCount)

	names := make([]string, 0, len(st.Players))
	for n := range st.Players {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p := st.Players[n]
		marker := " "
		if p.IsTurn {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s holds %d\n", marker, p.Nickname, p.CardCount)
	}

	if len(st.Mano) > 0 {
		fmt.Fprintf(out, "  hand: %v\n", st.Mano)
	}
	if st.Over {
		fmt.Fprintf(out, "  game over: %s\n", st.Result)
	}
}

func (c *client) command(out io.Writer, args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "create":
		bots := 0
		if len(args) > 1 {
			bots, _ = strconv.Atoi(args[1])
		}
		c.enc.Encode(server.CreateRoomMsg{Type: server.TypeCreateRoom, Nickname: c.name, Bots: bots})
	case "join":
		if len(args) < 2 {
			fmt.Fprintln(out, "join <room>")
			return false
		}
		c.enc.Encode(server.JoinMsg{Type: server.TypeJoin, Nickname: c.name, Room: args[1]})
	case "start":
		c.enc.Encode(server.StartGameMsg{Type: server.TypeStartGame})
	case "play":
		if len(args) < 3 {
			fmt.Fprintln(out, "play <card> <a1|a2|d1|d2>")
			return false
		}
		card, err := strconv.Atoi(args[1])
		column, ok := columns[args[2]]
		if err != nil || !ok {
			fmt.Fprintln(out, "play <card> <a1|a2|d1|d2>")
			return false
		}
		c.enc.Encode(server.PlayCardMsg{Type: server.TypePlayCard, Card: card, Column: column})
	case "end":
		c.enc.Encode(server.EndTurnMsg{Type: server.TypeEndTurn})
	case "say":
		c.enc.Encode(server.NotificationMsg{Type: server.TypeNotification, Message: strings.Join(args[1:], " ")})
	case "show":
		c.mu.Lock()
		st := c.state
		c.mu.Unlock()
		if st == nil {
			fmt.Fprintln(out, "no game yet")
			return false
		}
		c.render(out, st)
	case "quit":
		return true
	default:
		fmt.Fprintln(out, "commands: create [bots], join <room>, start, play, end, say, show, quit")
	}
	return false
}
