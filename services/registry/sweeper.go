package registry

import (
	redis_models "Bullpen/models/redis"
	"Bullpen/services/nimmt"
	"context"
	"log"
	"strings"
	"time"
)

type persistJob struct {
	snapshot nimmt.Snapshot
	finished bool
	// drop deletes the archive of snapshot.ID instead of writing it
	drop     bool
}

// Run drives the sweeper and the persistence worker until ctx is cancelled
func (r *Registry) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.persistLoop(ctx)
	}()

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	log.Printf("[SWEEPER] Started, interval %s", r.cfg.SweepInterval)
	for {
		select {
		case <-ctx.Done():
			<-done
			log.Println("[SWEEPER] Stopped")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep auto-plays for absent players and evicts expired rooms
func (r *Registry) Sweep() {
	now := r.now()

	r.mu.RLock()
	entries := make(map[string]*entry, len(r.rooms))
	for id, e := range r.rooms {
		entries[id] = e
	}
	r.mu.RUnlock()

	for id, e := range entries {
		if r.sweepRoom(e, now) {
			r.evict(id, e)
		}
	}
}

// sweepRoom reports whether the room should leave memory
func (r *Registry) sweepRoom(e *entry, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	idle := now.Sub(e.lastActive)
	switch {
	case e.room.Err() != nil || e.room.Phase() == nimmt.PhaseFinished:
		return r.cfg.RoomTTL > 0 && idle >= r.cfg.RoomTTL
	case r.cfg.LobbyTTL > 0 && idle >= r.cfg.LobbyTTL:
		return true
	}

	if e.room.Phase() == nimmt.PhaseInProgress && r.cfg.AutoPlayAfter > 0 {
		r.autoPlay(e, now)
	}
	return false
}

// autoPlay acts for disconnected players once the room has been waiting on the
// same set of players for AutoPlayAfter. Must be called with e.mu held
func (r *Registry) autoPlay(e *entry, now time.Time) {
	waiting := e.room.WaitingOn()
	key := strings.Join(waiting, ",")
	if key != e.waitingKey {
		e.waitingKey = key
		e.waitingSince = now
		return
	}
	if now.Sub(e.waitingSince) < r.cfg.AutoPlayAfter {
		return
	}

	var events []nimmt.Event
	for _, playerID := range waiting {
		if e.room.Connected(playerID) || e.room.Phase() != nimmt.PhaseInProgress {
			continue
		}
		evs, err := e.room.AutoPlay(playerID)
		if err != nil {
			log.Printf("[AUTO-PLAY-ERROR] Room %s, player %s: %v", e.room.ID, playerID, err)
			continue
		}
		events = append(events, evs...)
	}
	if len(events) == 0 {
		return
	}

	e.lastActive = now
	e.waitingKey = strings.Join(e.room.WaitingOn(), ",")
	e.waitingSince = now
	e.hub.Publish(events...)

	job := persistJob{snapshot: e.room.Snapshot("")}
	if _, ok := events[len(events)-1].(nimmt.GameFinished); ok {
		job.finished = true
	}
	r.enqueue(job)
}

func (r *Registry) evict(roomID string, e *entry) {
	r.mu.Lock()
	if current, ok := r.rooms[roomID]; ok && current == e {
		delete(r.rooms, roomID)
	}
	r.mu.Unlock()

	e.mu.Lock()
	e.hub.Close()
	phase := e.room.Phase()
	e.mu.Unlock()

	log.Printf("[ROOM-EVICT] Room %s evicted from memory (%s)", roomID, phase)

	if r.cfg.DropArchive {
		r.enqueue(persistJob{snapshot: nimmt.Snapshot{ID: roomID}, drop: true})
	}
}

func (r *Registry) enqueue(job persistJob) {
	if r.store == nil && r.recorder == nil {
		return
	}
	select {
	case r.jobs <- job:
	default:
		log.Printf("[PERSIST-DROP] Queue full, dropping snapshot of room %s", job.snapshot.ID)
	}
}

func (r *Registry) persistLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Flush whatever is already queued
			for {
				select {
				case job := <-r.jobs:
					r.persist(job)
				default:
					return
				}
			}
		case job := <-r.jobs:
			r.persist(job)
		}
	}
}

func (r *Registry) persist(job persistJob) {
	if job.drop {
		if r.store != nil {
			if err := r.store.DeleteRoomSnapshot(job.snapshot.ID); err != nil {
				log.Printf("[PERSIST-ERROR] Error deleting archive of room %s: %v", job.snapshot.ID, err)
			}
		}
		return
	}
	if r.store != nil {
		if err := r.store.SaveRoomSnapshot(archiveOf(job.snapshot, r.now())); err != nil {
			log.Printf("[PERSIST-ERROR] Error archiving room %s: %v", job.snapshot.ID, err)
		}
	}
	if job.finished && r.recorder != nil {
		if err := r.recorder.RecordGame(job.snapshot); err != nil {
			log.Printf("[PERSIST-ERROR] Error recording game %s: %v", job.snapshot.ID, err)
		}
	}
}

func archiveOf(s nimmt.Snapshot, now time.Time) *redis_models.RoomSnapshot {
	archived := &redis_models.RoomSnapshot{
		Id:          s.ID,
		Status:      string(s.Phase),
		Round:       s.Round,
		MaxRounds:   s.MaxRounds,
		Players:     make([]redis_models.RoomSnapshotPlayer, 0, len(s.Players)),
		SharedPiles: make([][]int, 0, len(s.SharedPiles)),
		Faulted:     s.Faulted,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   now,
	}
	for _, p := range s.Players {
		archived.Players = append(archived.Players, redis_models.RoomSnapshotPlayer{
			Id:     p.ID,
			Name:   p.Name,
			Role:   p.Role,
			Points: p.Points,
		})
	}
	for _, pile := range s.SharedPiles {
		cards := make([]int, 0, len(pile))
		for _, c := range pile {
			cards = append(cards, int(c))
		}
		archived.SharedPiles = append(archived.SharedPiles, cards)
	}
	if s.Result != nil {
		archived.WinnerPoints = s.Result.WinnerPoints
		for _, w := range s.Result.Winners {
			archived.WinnerIds = append(archived.WinnerIds, w.PlayerID)
		}
	}
	return archived
}
