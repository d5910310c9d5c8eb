package websocket

import (
	"Bullpen/middleware"
	"Bullpen/services/registry"
	"Bullpen/services/wire"
	"Bullpen/utils"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	replyBuffer    = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway serves /ws/:room_id/:player_id. Room events are pushed to the client
// and the client may play through the same connection
type Gateway struct {
	registry *registry.Registry
}

func NewGateway(reg *registry.Registry) *Gateway {
	return &Gateway{registry: reg}
}

// Conn is one client socket
type Conn struct {
	ws       *websocket.Conn
	sub      *registry.Subscription
	replies  chan []byte
	roomID   string
	playerID string
	once     sync.Once
}

func (g *Gateway) Handle(c *gin.Context) {
	roomID := c.Param("room_id")
	playerID := c.Param("player_id")

	if tokenPlayer, ok := c.Get(middleware.TokenPlayerKey); ok && tokenPlayer != playerID {
		c.JSON(http.StatusForbidden, gin.H{"error": middleware.ErrTokenMismatch.Error()})
		return
	}

	// Subscribe before upgrading so no event is missed between the handshake
	// and the first read
	sub, err := g.registry.Subscribe(roomID, playerID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS-ERROR] Upgrade failed for %s in room %s: %v", playerID, roomID, err)
		g.registry.Unsubscribe(sub)
		return
	}

	conn := &Conn{
		ws:       ws,
		sub:      sub,
		replies:  make(chan []byte, replyBuffer),
		roomID:   roomID,
		playerID: playerID,
	}
	log.Printf("[WS-CONNECT] Player %s connected to room %s", playerID, roomID)

	go g.writePump(conn)
	g.readPump(conn)
}

func (g *Gateway) close(conn *Conn) {
	conn.once.Do(func() {
		g.registry.Unsubscribe(conn.sub)
		_ = conn.ws.Close()
		log.Printf("[WS-DISCONNECT] Player %s left room %s", conn.playerID, conn.roomID)
	})
}

// reply queues a message for this connection only. It is dropped when the
// client is not reading
func (conn *Conn) reply(b []byte) {
	select {
	case conn.replies <- b:
	default:
	}
}

func (g *Gateway) readPump(conn *Conn) {
	defer g.close(conn)

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS-ERROR] Read error for %s: %v", conn.playerID, err)
			}
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := wire.DecodeClient(data)
		if err != nil {
			conn.reply(wire.EncodeError(err))
			continue
		}

		switch msg.Type {
		case wire.ClientPing:
			conn.reply(wire.EncodePong())
		case wire.ClientSelect:
			err = g.registry.Select(conn.roomID, conn.playerID, msg.Card)
		case wire.ClientTakePile:
			err = g.registry.TakePile(conn.roomID, conn.playerID, *msg.PileIdx, msg.LowCard)
		}
		if err != nil {
			conn.reply(wire.EncodeError(err))
		}
	}
}

func (g *Gateway) writePump(conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		g.close(conn)
	}()

	for {
		select {
		case ev, ok := <-conn.sub.Events():
			_ = conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Room closed
				_ = conn.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "room closed"))
				return
			}
			data, err := wire.Encode(ev)
			if err != nil {
				log.Printf("[WS-ERROR] Could not encode %s: %v", ev.Type(), err)
				continue
			}
			if err := conn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case msg := <-conn.replies:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
