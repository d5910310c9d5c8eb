package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'GameRecord' is a finished game. It is written once, when the room
 * reaches the finished phase, and references its PlayerRecords
 */
type GameRecord struct {
	ID           string         `gorm:"primaryKey;size:50;not null"`
	Rounds       int            `gorm:"not null"`
	PlayerCount  int            `gorm:"not null"`
	WinnerPoints int            `gorm:"not null"`
	Tie          bool           `gorm:"not null"`
	FinalScores  datatypes.JSON `gorm:"type:jsonb"`
	StartedAt    time.Time
	FinishedAt   time.Time `gorm:"index:idx_game_records_finished"`

	// Relationship with the players of the game
	Players []PlayerRecord `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
