package socket_io

import (
	"Bullpen/middleware"
	"Bullpen/services/nimmt"
	"Bullpen/services/registry"
	"Bullpen/services/wire"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("socket-test-secret")

func TestAuthorize(t *testing.T) {
	valid, err := middleware.IssuePlayerToken(testSecret, "room1", "player1")
	require.NoError(t, err)
	otherRoom, err := middleware.IssuePlayerToken(testSecret, "room2", "player1")
	require.NoError(t, err)
	otherPlayer, err := middleware.IssuePlayerToken(testSecret, "room1", "player2")
	require.NoError(t, err)
	foreign, err := middleware.IssuePlayerToken([]byte("another-secret"), "room1", "player1")
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		requireToken bool
		wantErr      error
		wantAnyErr   bool
	}{
		{name: "missing token when required", token: "", requireToken: true, wantErr: middleware.ErrMissingToken},
		{name: "missing token when optional", token: "", requireToken: false},
		{name: "token for another room", token: otherRoom, requireToken: true, wantErr: middleware.ErrTokenMismatch},
		{name: "token for another player", token: otherPlayer, requireToken: true, wantErr: middleware.ErrTokenMismatch},
		{name: "token for another player when optional", token: otherPlayer, requireToken: false, wantErr: middleware.ErrTokenMismatch},
		{name: "token signed with another secret", token: foreign, requireToken: true, wantAnyErr: true},
		{name: "garbage token", token: "not-a-jwt", requireToken: false, wantAnyErr: true},
		{name: "valid token", token: valid, requireToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorize(tt.token, testSecret, tt.requireToken, "room1", "player1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

type emitted struct {
	event   string
	payload interface{}
}

func TestForward(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	roomID, adminID, err := reg.Create("Alice", "")
	require.NoError(t, err)

	sub, err := reg.Subscribe(roomID, adminID)
	require.NoError(t, err)

	events := make(chan emitted, 8)
	closed := make(chan struct{})
	go forward(sub,
		func(event string, payload interface{}) { events <- emitted{event, payload} },
		func() { close(closed) })

	bobID, err := reg.Join(roomID, "Bob", "")
	require.NoError(t, err)

	select {
	case got := <-events:
		assert.Equal(t, string(nimmt.EventPlayerJoined), got.event)
		msg, ok := got.payload.(wire.PlayerJoinedMessage)
		require.True(t, ok, "payload is %T", got.payload)
		assert.Equal(t, bobID, msg.PlayerID)
		assert.Equal(t, "Bob", msg.PlayerName)
	case <-time.After(2 * time.Second):
		t.Fatal("player_joined was not forwarded")
	}

	// Ending the subscription stops the loop and closes the socket
	reg.Unsubscribe(sub)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("forward did not return after unsubscribe")
	}
}
