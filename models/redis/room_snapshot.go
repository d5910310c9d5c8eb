package redis

import "time"

// RoomSnapshotPlayer is the archived public state of one player. Hands are never stored
type RoomSnapshotPlayer struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Points int    `json:"points"`
}

// RoomSnapshot is the last known public state of a room.
// Key format: "room:{id}"
type RoomSnapshot struct {
	Id           string               `json:"id"`
	Status       string               `json:"status"` // lobby, in_progress or finished
	Round        int                  `json:"round"`
	MaxRounds    int                  `json:"max_rounds"`
	Players      []RoomSnapshotPlayer `json:"players"`
	SharedPiles  [][]int              `json:"shared_piles"`
	WinnerIds    []string             `json:"winner_ids,omitempty"` // More than one on a tie
	WinnerPoints int                  `json:"winner_points"`
	Faulted      bool                 `json:"faulted"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
