package handlers

import (
	"Bullpen/services/nimmt"
	"Bullpen/services/registry"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

var ErrMissingPayload = errors.New("missing event payload")

// payloadOf returns the first event argument as a JSON object
func payloadOf(args []interface{}) (map[string]interface{}, error) {
	if len(args) < 1 {
		return nil, ErrMissingPayload
	}
	data, ok := args[0].(map[string]interface{})
	if !ok {
		return nil, ErrMissingPayload
	}
	return data, nil
}

// intField reads a whole JSON number. Socket.io decodes every number as float64
func intField(data map[string]interface{}, key string) (int, bool) {
	v, ok := data[key].(float64)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

// ParseSelect reads {"card": N}
func ParseSelect(args []interface{}) (nimmt.Card, error) {
	data, err := payloadOf(args)
	if err != nil {
		return 0, err
	}
	n, ok := intField(data, "card")
	if !ok || !nimmt.Card(n).Valid() {
		return 0, nimmt.ErrInvalidCard
	}
	return nimmt.Card(n), nil
}

// ParseTakePile reads {"pile_idx": I, "low_card": N}
func ParseTakePile(args []interface{}) (int, nimmt.Card, error) {
	data, err := payloadOf(args)
	if err != nil {
		return 0, 0, err
	}
	pileIdx, ok := intField(data, "pile_idx")
	if !ok {
		return 0, 0, nimmt.ErrInvalidPile
	}
	n, ok := intField(data, "low_card")
	if !ok || !nimmt.Card(n).Valid() {
		return 0, 0, nimmt.ErrInvalidCard
	}
	return pileIdx, nimmt.Card(n), nil
}

func HandleSelect(reg *registry.Registry, client *socket.Socket, roomID, playerID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		card, err := ParseSelect(args)
		if err == nil {
			err = reg.Select(roomID, playerID, card)
		}
		if err != nil {
			log.Printf("[SIO-SELECT-ERROR] Room %s, player %s: %v", roomID, playerID, err)
			client.Emit("error", gin.H{"error": err.Error()})
		}
	}
}

func HandleTakePile(reg *registry.Registry, client *socket.Socket, roomID, playerID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		pileIdx, lowCard, err := ParseTakePile(args)
		if err == nil {
			err = reg.TakePile(roomID, playerID, pileIdx, lowCard)
		}
		if err != nil {
			log.Printf("[SIO-TAKE-PILE-ERROR] Room %s, player %s: %v", roomID, playerID, err)
			client.Emit("error", gin.H{"error": err.Error()})
		}
	}
}
