package nimmt

import "time"

// PlayerView is the public state of one player. Hand is only filled for the viewer
type PlayerView struct {
	ID        string `json:"player_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Points    int    `json:"points"`
	Status    Status `json:"status"`
	Connected bool   `json:"connected"`
	Hand      []Card `json:"hand,omitempty"`
	HandSize  int    `json:"hand_size"`
}

// Snapshot is a read-only copy of a room as a given viewer may see it
type Snapshot struct {
	ID          string       `json:"id"`
	Phase       Phase        `json:"status"`
	Round       int          `json:"round"`
	MaxRounds   int          `json:"max_rounds"`
	Players     []PlayerView `json:"players"`
	SharedPiles [][]Card     `json:"shared_piles"`
	PendingTake *Selection   `json:"pending_take,omitempty"`
	WaitingOn   []string     `json:"waiting_on"`
	Result      *Result      `json:"result,omitempty"`
	Faulted     bool         `json:"faulted"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
}

// Snapshot copies the room state. An empty viewer gets no hands at all
func (r *Room) Snapshot(viewer string) Snapshot {
	s := Snapshot{
		ID:          r.ID,
		Phase:       r.phase,
		Round:       r.round,
		MaxRounds:   r.opts.MaxRounds,
		Players:     make([]PlayerView, 0, len(r.players)),
		SharedPiles: r.pilesView(),
		WaitingOn:   r.WaitingOn(),
		Faulted:     r.fault != nil,
		CreatedAt:   r.CreatedAt,
	}

	for _, p := range r.players {
		view := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Role:      p.Role,
			Points:    p.Points,
			Status:    p.Status,
			Connected: p.Connected,
			HandSize:  len(p.Hand),
		}
		if viewer != "" && p.ID == viewer {
			view.Hand = copyCards(p.Hand)
		}
		s.Players = append(s.Players, view)
	}

	if r.resolver != nil {
		if sel, ok := r.resolver.Pending(); ok {
			s.PendingTake = &sel
		}
	}
	if r.result != nil {
		res := *r.result
		s.Result = &res
	}
	if !r.StartedAt.IsZero() {
		t := r.StartedAt
		s.StartedAt = &t
	}
	if !r.FinishedAt.IsZero() {
		t := r.FinishedAt
		s.FinishedAt = &t
	}
	return s
}
