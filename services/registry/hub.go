package registry

import (
	"Bullpen/services/nimmt"
	"log"
	"sync"
)

// Subscription receives every event of one room, redacted for its player.
// Events is closed when the subscription ends or the room goes away
type Subscription struct {
	RoomID   string
	PlayerID string

	events  chan nimmt.Event
	dropped int
}

func (s *Subscription) Events() <-chan nimmt.Event {
	return s.events
}

// deliver never blocks: when the queue is full the oldest event is discarded
func (s *Subscription) deliver(ev nimmt.Event) {
	ev = nimmt.VisibleTo(ev, s.PlayerID)
	for {
		select {
		case s.events <- ev:
			return
		default:
		}

		select {
		case <-s.events:
			s.dropped++
			log.Printf("[HUB-DROP] Room %s: subscriber %s is behind, dropped oldest event (%d so far)",
				s.RoomID, s.PlayerID, s.dropped)
		default:
		}
	}
}

// Hub fans the events of one room out to its subscribers
type Hub struct {
	roomID string
	buffer int

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func NewHub(roomID string, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		roomID: roomID,
		buffer: buffer,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. It returns nil once the hub is closed
func (h *Hub) Subscribe(playerID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	sub := &Subscription{
		RoomID:   h.roomID,
		PlayerID: playerID,
		events:   make(chan nimmt.Event, h.buffer),
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. It reports whether
// the player still has other subscriptions on this hub
func (h *Hub) Unsubscribe(sub *Subscription) (stillConnected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.events)
	}
	for other := range h.subs {
		if other.PlayerID == sub.PlayerID {
			return true
		}
	}
	return false
}

// Publish delivers the events in order to every subscriber
func (h *Hub) Publish(events ...nimmt.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ev := range events {
		for sub := range h.subs {
			sub.deliver(ev)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription, later Subscribe calls return nil
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.events)
	}
	h.subs = make(map[*Subscription]struct{})
}
