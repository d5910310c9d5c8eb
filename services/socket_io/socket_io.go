package socket_io

import (
	"Bullpen/middleware"
	"Bullpen/services/registry"
	"Bullpen/services/socket_io/handlers"
	socketio_types "Bullpen/services/socket_io/types"
	"Bullpen/services/wire"
	"Bullpen/utils"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// authorize checks the optional player token sent in the handshake against
// the room and player the client claims to be
func authorize(raw string, secret []byte, requireToken bool, roomID, playerID string) error {
	if raw == "" {
		if requireToken {
			return middleware.ErrMissingToken
		}
		return nil
	}
	claims, err := middleware.ParsePlayerToken(secret, raw)
	if err != nil {
		return err
	}
	if claims.RoomID != roomID || claims.PlayerID != playerID {
		return middleware.ErrTokenMismatch
	}
	return nil
}

// forward emits room events under their type name until the subscription
// ends, then calls closed
func forward(sub *registry.Subscription, emit func(event string, payload interface{}), closed func()) {
	for ev := range sub.Events() {
		payload, err := wire.Payload(ev)
		if err != nil {
			log.Printf("[SIO-ERROR] Could not encode %s: %v", ev.Type(), err)
			continue
		}
		emit(string(ev.Type()), payload)
	}
	log.Printf("[SIO-CLOSE] Subscription of player %s to room %s ended", sub.PlayerID, sub.RoomID)
	closed()
}

func (sio *MySocketServer) Start(router *gin.Engine, reg *registry.Registry, secret []byte, requireToken bool) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: the map has to be initialized before the first connection
	sio.PlayerConnections = make(map[string]*socket.Socket)
	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		roomID, playerID, err := utils.GetRoomAuthFromClient(client)
		if err == nil {
			err = authorize(utils.GetTokenFromClient(client), secret, requireToken, roomID, playerID)
		}
		if err != nil {
			log.Printf("[SIO-AUTH-ERROR] Rejected connection %s: %v", client.Id(), err)
			client.Emit("error", gin.H{"error": err.Error()})
			client.Disconnect(true)
			return
		}

		sub, err := reg.Subscribe(roomID, playerID)
		if err != nil {
			log.Printf("[SIO-AUTH-ERROR] Player %s can not join room %s: %v", playerID, roomID, err)
			client.Emit("error", gin.H{"error": err.Error()})
			client.Disconnect(true)
			return
		}

		// Only the newest socket of a player stays open
		if stale := server.SwapConnection(socketio_types.ConnectionKey(roomID, playerID), client); stale != nil {
			log.Printf("[SIO-RECONNECT] Player %s reconnected to room %s, closing previous socket", playerID, roomID)
			stale.Disconnect(true)
		}
		log.Printf("[SIO-CONNECT] Player %s connected to room %s (%d connections)", playerID, roomID, server.Count())

		// Play a card for the current round
		client.On("select", handlers.HandleSelect(reg, client, roomID, playerID))

		// Resolve a pending penalty by taking a pile
		client.On("take_pile", handlers.HandleTakePile(reg, client, roomID, playerID))

		// Full state for clients that reconnect mid game
		client.On("request_state", handlers.HandleRequestState(reg, client, roomID, playerID))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(reg, server, client, sub))

		go forward(sub,
			func(event string, payload interface{}) { client.Emit(event, payload) },
			func() { client.Disconnect(true) })
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("[SIO] Socket server started")
}

// Close shuts the socket.io server down
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
