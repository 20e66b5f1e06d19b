package server

import (
	"github.com/rs/zerolog/log"

	"github.com/calmisko/centena/game"
)

// closeClient tells a gateway to drop its connection once the queue drains.
type closeClient struct{}

// deliverState fans a snapshot out to a room's clients, giving each
// recipient their own hand. The snapshot was taken under the room lock;
// delivery here never holds it.
func deliverState(typ string, st game.State, clients []*clientBundle) {
	for _, c := range clients {
		personal := st
		personal.Mano = st.Hands[c.name]
		send(c, StateMsg{Type: typ, State: personal})
	}
}

func deliver(msg interface{}, clients []*clientBundle, skip string) {
	for _, c := range clients {
		if c.name == skip {
			continue
		}
		send(c, msg)
	}
}

func send(c *clientBundle, msg interface{}) {
	select {
	case c.downCh <- msg:
	default:
		// client lagging
		log.Info().Str("client", c.name).Msg("client lagging, dropping message")
	}
}
