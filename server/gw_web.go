package server

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/calmisko/centena/comms"
	"github.com/calmisko/centena/game"
)

func runWebGateway(ctx context.Context, reg *Registry, addr string) error {
	log := log.With().Str("gw", "web").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	rh := restHandler{
		reg: reg,
		log: log,
	}

	ch := commsHandler{
		reg: reg,
		log: log,
	}

	r := gin.Default()
	a := r.Group("/api")
	a.GET("/rooms", rh.getRooms)
	a.POST("/rooms", rh.makeRoom)
	a.GET("/rooms/:id", rh.getRoom)
	a.DELETE("/rooms/:id", rh.deleteRoom)
	r.GET("/ws", ch.serveWS)

	s := &http.Server{
		Handler:      r,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}
	go func() {
		_ = s.Serve(ln)
	}()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	return nil
}

type restHandler struct {
	reg *Registry
	log zerolog.Logger
}

func (rh *restHandler) getRooms(c *gin.Context) {
	c.JSON(http.StatusOK, rh.reg.List())
}

func (rh *restHandler) makeRoom(c *gin.Context) {
	bots, _ := strconv.Atoi(c.Query("bots"))

	id, err := rh.reg.CreateEmpty(bots)
	if err != nil {
		rh.log.Error().Err(err).Msg("create room error")
		c.String(http.StatusInternalServerError, "error: %v", err)
		return
	}

	c.JSON(http.StatusOK, RoomCreatedMsg{Type: TypeRoomCreated, Room: id})
}

func (rh *restHandler) getRoom(c *gin.Context) {
	id := c.Param("id")

	st, ok := rh.reg.Query(id)
	if !ok {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, st)
}

func (rh *restHandler) deleteRoom(c *gin.Context) {
	id := c.Param("id")

	err := rh.reg.CloseRoom(id, "deleted")
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	c.String(http.StatusOK, "ok: %s", id)
}

type commsHandler struct {
	reg *Registry
	log zerolog.Logger
}

// serveWS binds a websocket client into a room. The room and name ride in
// the query string, so a websocket connection is always room-bound; the
// wire messages are the same flat JSON objects as TCP, one per text frame.
func (ch *commsHandler) serveWS(c *gin.Context) {
	addr := c.Request.RemoteAddr

	log := ch.log.With().Str("client", addr).Logger()
	log.Info().Msg("connecting")

	roomId := c.Query("room")
	name := c.Query("name")

	if roomId == "" || name == "" {
		c.String(http.StatusBadRequest, "missing params")
		return
	}

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols: []string{"comms"},
	})
	if err != nil {
		log.Info().Err(err).Msg("websocket accept error")
		return
	}
	defer socket.Close(websocket.StatusInternalError, "the sky is falling")

	downCh := make(chan interface{}, 100)
	client := &clientBundle{name: name, downCh: downCh}

	if err := ch.reg.Join(roomId, name, client); err != nil {
		sendDownWs(socket, errorMsg(err))
		socket.Close(websocket.StatusNormalClosure, "cannot join")
		return
	}

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			if _, ok := down.(closeClient); ok {
				socket.Close(websocket.StatusNormalClosure, "room closed")
				return
			}
			if err := sendDownWs(socket, down); err != nil {
				log.Info().Err(err).Msg("send error")
				return
			}
		}
	}()

	for {
		msg, err := readMessageWs(socket)
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			ch.reg.Disconnect(roomId, name)
			return
		}
		if err == game.ErrMalformedMessage {
			log.Info().Msg("malformed frame dropped")
			send(client, errorMsg(err))
			continue
		}
		if err != nil {
			log.Info().Err(err).Msg("client read error")
			ch.reg.Disconnect(roomId, name)
			return
		}

		switch msg.Type {
		case TypeStartGame:
			if err := ch.reg.StartGame(roomId, name); err != nil {
				send(client, errorMsg(err))
			}
		case TypePlayCard:
			var p PlayCardMsg
			if err := msg.Decode(&p); err != nil {
				send(client, errorMsg(err))
				continue
			}
			if err := ch.reg.PlayCard(roomId, name, p.Column, p.Card); err != nil {
				send(client, errorMsg(err))
			}
		case TypeEndTurn:
			if err := ch.reg.EndTurn(roomId, name); err != nil {
				send(client, errorMsg(err))
			}
		case TypeNotification:
			var p NotificationMsg
			if err := msg.Decode(&p); err != nil {
				send(client, errorMsg(err))
				continue
			}
			if err := ch.reg.Notify(roomId, name, p.Message); err != nil {
				send(client, errorMsg(err))
			}
		default:
			log.Info().Msgf("junk from client: %s", msg.Type)
		}
	}
}

func sendDownWs(ws *websocket.Conn, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	w, err := ws.Writer(context.TODO(), websocket.MessageText)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

func readMessageWs(c *websocket.Conn) (comms.Msg, error) {
	typ, r, err := c.Reader(context.TODO())
	if err != nil {
		return comms.Msg{}, err
	}

	if typ != websocket.MessageText {
		return comms.Msg{}, game.ErrMalformedMessage
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return comms.Msg{}, err
	}

	return comms.Parse(data)
}
