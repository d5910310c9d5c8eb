package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zishang520/socket.io/v2/socket"
)

func TestSwapConnection(t *testing.T) {
	server := &SocketServer{}
	key := ConnectionKey("room1", "player1")
	first := &socket.Socket{}
	second := &socket.Socket{}

	assert.Nil(t, server.SwapConnection(key, first))
	assert.Nil(t, server.SwapConnection(key, first), "same socket again")
	assert.Equal(t, 1, server.Count())

	// A reconnect replaces the previous socket
	assert.Same(t, first, server.SwapConnection(key, second))
	assert.Equal(t, 1, server.Count())

	// The old socket going away must not remove the new one
	server.RemoveConnection(key, first)
	assert.Equal(t, 1, server.Count())

	server.RemoveConnection(key, second)
	assert.Equal(t, 0, server.Count())
}
