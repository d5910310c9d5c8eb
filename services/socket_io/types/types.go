package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// Connections are keyed by ConnectionKey(roomID, playerID)
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track room/player -> socket connections
	PlayerConnections map[string]*socket.Socket
	mutex             sync.RWMutex
}

func ConnectionKey(roomID, playerID string) string {
	return roomID + ":" + playerID
}

// SwapConnection stores the socket of a player and returns the one it replaced, if any
func (s *SocketServer) SwapConnection(key string, socket *socket.Socket) *socket.Socket {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.PlayerConnections == nil {
		s.PlayerConnections = make(map[string]*socket.Socket)
	}
	previous := s.PlayerConnections[key]
	s.PlayerConnections[key] = socket
	if previous == socket {
		return nil
	}
	return previous
}

// RemoveConnection only removes the entry when it still points at the given socket,
// a reconnect may already have replaced it
func (s *SocketServer) RemoveConnection(key string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, ok := s.PlayerConnections[key]; ok && current == socket {
		delete(s.PlayerConnections, key)
	}
}

func (s *SocketServer) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.PlayerConnections)
}
