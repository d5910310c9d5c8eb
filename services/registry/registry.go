package registry

import (
	redis_models "Bullpen/models/redis"
	"Bullpen/services/nimmt"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrWrongPassword = errors.New("wrong room password")
)

// Room ids are a whole UUID, player ids half of one. Both are hex without dashes
const (
	roomIDLength   = 32
	playerIDLength = 16
	maxIDAttempts  = 32
)

// SnapshotStore archives the public state of rooms so they can still be
// looked up after leaving memory
type SnapshotStore interface {
	SaveRoomSnapshot(snapshot *redis_models.RoomSnapshot) error
	GetRoomSnapshot(roomID string) (*redis_models.RoomSnapshot, error)
	DeleteRoomSnapshot(roomID string) error
}

// ResultRecorder keeps finished games
type ResultRecorder interface {
	RecordGame(snapshot nimmt.Snapshot) error
}

type Config struct {
	RoomTTL          time.Duration
	LobbyTTL         time.Duration
	AutoPlayAfter    time.Duration
	SweepInterval    time.Duration
	SubscriberBuffer int
	PersistQueue     int
	HandSize         int
	MaxRounds        int

	// DropArchive removes the archived copy of a room when it is evicted
	DropArchive bool
}

// RoomInfo is the lobby view of a room
type RoomInfo struct {
	ID          string             `json:"id"`
	Status      nimmt.Phase        `json:"status"`
	Round       int                `json:"round"`
	MaxRounds   int                `json:"max_rounds"`
	PlayerCount int                `json:"player_count"`
	Players     []nimmt.PlayerInfo `json:"players"`
	HasPassword bool               `json:"has_password"`
	Archived    bool               `json:"archived,omitempty"`
}

type entry struct {
	mu           sync.Mutex
	room         *nimmt.Room
	hub          *Hub
	passwordHash []byte
	lastActive   time.Time
	waitingKey   string
	waitingSince time.Time
}

// Registry owns every live room. Lookups take the registry lock, mutations of a
// room only take that room's lock
type Registry struct {
	cfg      Config
	store    SnapshotStore
	recorder ResultRecorder

	mu    sync.RWMutex
	rooms map[string]*entry

	jobs  chan persistJob
	now   func() time.Time
	newID func() string
}

// New builds an empty registry. store and recorder may be nil
func New(cfg Config, store SnapshotStore, recorder ResultRecorder) *Registry {
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 32
	}
	if cfg.PersistQueue <= 0 {
		cfg.PersistQueue = 256
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 15 * time.Second
	}
	return &Registry{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		rooms:    make(map[string]*entry),
		jobs:     make(chan persistJob, cfg.PersistQueue),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (r *Registry) generateID(length int) string {
	return strings.ReplaceAll(r.newID(), "-", "")[:length]
}

// Create opens a new room with the caller as its admin
func (r *Registry) Create(name, password string) (roomID, playerID string, err error) {
	var hash []byte
	if password != "" {
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", "", fmt.Errorf("error hashing room password: %v", err)
		}
	}

	playerID = r.generateID(playerIDLength)

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return "", "", errors.New("could not generate a unique room id")
		}
		roomID = r.generateID(roomIDLength)
		if _, taken := r.rooms[roomID]; !taken {
			break
		}
	}

	room, err := nimmt.NewRoom(roomID, playerID, name, nimmt.Options{
		HandSize:  r.cfg.HandSize,
		MaxRounds: r.cfg.MaxRounds,
		Now:       r.now,
	})
	if err != nil {
		return "", "", err
	}

	e := &entry{
		room:         room,
		hub:          NewHub(roomID, r.cfg.SubscriberBuffer),
		passwordHash: hash,
		lastActive:   r.now(),
	}
	r.rooms[roomID] = e
	r.enqueue(persistJob{snapshot: room.Snapshot("")})

	log.Printf("[ROOM-CREATE] Room %s created by %s", roomID, strings.TrimSpace(name))
	return roomID, playerID, nil
}

func (r *Registry) lookup(roomID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return e, nil
}

// mutate runs fn under the room lock and publishes whatever it returns in order.
// Persistence is queued, never performed here
func (r *Registry) mutate(roomID string, fn func(e *entry) ([]nimmt.Event, error)) error {
	e, err := r.lookup(roomID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	events, err := fn(e)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	e.lastActive = r.now()
	e.waitingKey = strings.Join(e.room.WaitingOn(), ",")
	e.waitingSince = e.lastActive
	e.hub.Publish(events...)

	job := persistJob{snapshot: e.room.Snapshot("")}
	if e.room.Phase() == nimmt.PhaseFinished {
		for _, ev := range events {
			if _, ok := ev.(nimmt.GameFinished); ok {
				job.finished = true
			}
		}
	}
	r.enqueue(job)
	return nil
}

// Join adds a player to a room in the lobby and returns the new player id
func (r *Registry) Join(roomID, name, password string) (string, error) {
	var playerID string
	err := r.mutate(roomID, func(e *entry) ([]nimmt.Event, error) {
		if e.passwordHash != nil {
			if err := bcrypt.CompareHashAndPassword(e.passwordHash, []byte(password)); err != nil {
				return nil, ErrWrongPassword
			}
		}

		id := r.generateID(playerIDLength)
		for attempt := 0; e.room.HasPlayer(id); attempt++ {
			if attempt == maxIDAttempts {
				return nil, errors.New("could not generate a unique player id")
			}
			id = r.generateID(playerIDLength)
		}

		events, err := e.room.Join(id, name)
		if err != nil {
			return nil, err
		}
		playerID = id
		log.Printf("[ROOM-JOIN] Player %s joined room %s", strings.TrimSpace(name), roomID)
		return events, nil
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

// Start deals the game. The returned map only holds the caller's hand
func (r *Registry) Start(roomID, playerID string) (map[string][]nimmt.Card, error) {
	var hands map[string][]nimmt.Card
	err := r.mutate(roomID, func(e *entry) ([]nimmt.Event, error) {
		events, err := e.room.Start(playerID)
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			if started, ok := nimmt.VisibleTo(ev, playerID).(nimmt.GameStarted); ok {
				hands = started.PlayerCards
			}
		}
		return events, nil
	})
	return hands, err
}

func (r *Registry) Select(roomID, playerID string, card nimmt.Card) error {
	return r.mutate(roomID, func(e *entry) ([]nimmt.Event, error) {
		return e.room.SelectCard(playerID, card)
	})
}

func (r *Registry) TakePile(roomID, playerID string, pileIdx int, lowCard nimmt.Card) error {
	return r.mutate(roomID, func(e *entry) ([]nimmt.Event, error) {
		return e.room.TakePile(playerID, pileIdx, lowCard)
	})
}

// State returns the room as the given player sees it
func (r *Registry) State(roomID, playerID string) (nimmt.Snapshot, error) {
	e, err := r.lookup(roomID)
	if err != nil {
		return nimmt.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if playerID != "" && !e.room.HasPlayer(playerID) {
		return nimmt.Snapshot{}, nimmt.ErrPlayerNotFound
	}
	return e.room.Snapshot(playerID), nil
}

// HasPlayer checks that the player belongs to the room
func (r *Registry) HasPlayer(roomID, playerID string) error {
	e, err := r.lookup(roomID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.room.HasPlayer(playerID) {
		return nimmt.ErrPlayerNotFound
	}
	return nil
}

func infoOf(e *entry) RoomInfo {
	players := e.room.Players()
	return RoomInfo{
		ID:          e.room.ID,
		Status:      e.room.Phase(),
		Round:       e.room.Round(),
		MaxRounds:   e.room.MaxRounds(),
		PlayerCount: len(players),
		Players:     players,
		HasPassword: e.passwordHash != nil,
	}
}

// Info describes a live room, or the archived copy of one that was evicted
func (r *Registry) Info(roomID string) (RoomInfo, error) {
	e, err := r.lookup(roomID)
	if err == nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		return infoOf(e), nil
	}

	if r.store == nil {
		return RoomInfo{}, err
	}
	archived, storeErr := r.store.GetRoomSnapshot(roomID)
	if storeErr != nil {
		log.Printf("[ROOM-INFO-ERROR] Error reading archived room %s: %v", roomID, storeErr)
		return RoomInfo{}, err
	}
	if archived == nil {
		return RoomInfo{}, err
	}

	info := RoomInfo{
		ID:          archived.Id,
		Status:      nimmt.Phase(archived.Status),
		Round:       archived.Round,
		MaxRounds:   archived.MaxRounds,
		PlayerCount: len(archived.Players),
		Players:     make([]nimmt.PlayerInfo, 0, len(archived.Players)),
		Archived:    true,
	}
	for _, p := range archived.Players {
		info.Players = append(info.Players, nimmt.PlayerInfo{Name: p.Name, Role: p.Role})
	}
	return info, nil
}

// List returns every live room, oldest first
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	type listed struct {
		info    RoomInfo
		created time.Time
	}
	out := make([]listed, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, listed{info: infoOf(e), created: e.room.CreatedAt})
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].created.Equal(out[j].created) {
			return out[i].info.ID < out[j].info.ID
		}
		return out[i].created.Before(out[j].created)
	})

	infos := make([]RoomInfo, 0, len(out))
	for _, l := range out {
		infos = append(infos, l.info)
	}
	return infos
}

// Subscribe attaches a connection of the player to the room's event stream
// and marks the player as connected
func (r *Registry) Subscribe(roomID, playerID string) (*Subscription, error) {
	e, err := r.lookup(roomID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.room.SetConnected(playerID, true); err != nil {
		return nil, err
	}
	sub := e.hub.Subscribe(playerID)
	if sub == nil {
		return nil, ErrRoomNotFound
	}
	log.Printf("[HUB-SUBSCRIBE] Player %s connected to room %s", playerID, roomID)
	return sub, nil
}

// Unsubscribe detaches a connection. The player counts as disconnected once
// their last connection is gone
func (r *Registry) Unsubscribe(sub *Subscription) {
	e, err := r.lookup(sub.RoomID)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hub.Unsubscribe(sub) {
		e.room.SetConnected(sub.PlayerID, false)
		log.Printf("[HUB-UNSUBSCRIBE] Player %s disconnected from room %s", sub.PlayerID, sub.RoomID)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
