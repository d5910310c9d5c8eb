package handlers

import (
	"Bullpen/services/registry"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleRequestState sends the full room state to a client that (re)connected
// in the middle of a game
func HandleRequestState(reg *registry.Registry, client *socket.Socket, roomID, playerID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[STATE-REQUEST] Requesting state of room %s by player %s", roomID, playerID)

		state, err := reg.State(roomID, playerID)
		if err != nil {
			log.Printf("[STATE-REQUEST-ERROR] Error getting room state: %v", err)
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}
		client.Emit("state", state)
	}
}
