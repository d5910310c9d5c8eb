package postgres

import (
	"gorm.io/datatypes"
)

/*
 * 'PlayerRecord' is the final standing of one player in a GameRecord
 */
type PlayerRecord struct {
	// NOTE: composite primary key definition
	GameID    string         `gorm:"primaryKey;size:50;not null"`
	PlayerID  string         `gorm:"primaryKey;size:50;not null"`
	Name      string         `gorm:"size:50;index"`
	Role      string         `gorm:"size:10"`
	JoinOrder int            `gorm:"not null"`
	Points    int            `gorm:"not null"`
	Winner    bool           `gorm:"not null"`
	Collected datatypes.JSON `gorm:"type:jsonb"` // Cards taken from the piles
}
