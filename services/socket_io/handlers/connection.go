package handlers

import (
	"Bullpen/services/registry"
	socketio_types "Bullpen/services/socket_io/types"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting detaches the socket from the room. The player stays in
// the room and counts as absent until they connect again
func HandleDisconnecting(reg *registry.Registry, sio *socketio_types.SocketServer,
	client *socket.Socket, sub *registry.Subscription) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] Player %s leaving room %s", sub.PlayerID, sub.RoomID)

		sio.RemoveConnection(socketio_types.ConnectionKey(sub.RoomID, sub.PlayerID), client)
		reg.Unsubscribe(sub)
	}
}
