package utils

import (
	"Bullpen/services/nimmt"
	"errors"
	"fmt"
	"strconv"

	"github.com/zishang520/socket.io/v2/socket"
)

// ParseCard reads a card number from a query or path value
func ParseCard(raw string) (nimmt.Card, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: card must be a number", ErrBadRequest)
	}
	card := nimmt.Card(n)
	if !card.Valid() {
		return 0, nimmt.ErrInvalidCard
	}
	return card, nil
}

// ParsePileIndex reads a pile index, range checks are left to the room
func ParsePileIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: pile_idx must be a number", ErrBadRequest)
	}
	return n, nil
}

// GetRoomAuthFromClient reads room_id and player_id from the socket.io handshake
func GetRoomAuthFromClient(client *socket.Socket) (roomID, playerID string, err error) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		return "", "", errors.New("authentication data missing")
	}

	roomID, _ = authData["room_id"].(string)
	playerID, _ = authData["player_id"].(string)
	if roomID == "" || playerID == "" {
		return "", "", errors.New("room_id and player_id are required in authentication")
	}
	return roomID, playerID, nil
}

// GetTokenFromClient returns the optional player token sent in the handshake
func GetTokenFromClient(client *socket.Socket) string {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		return ""
	}
	token, _ := authData["token"].(string)
	return token
}
