package sync

import (
	"Bullpen/models/postgres"
	"Bullpen/services/nimmt"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncManager writes finished games from memory to PostgreSQL
type SyncManager struct {
	db *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB) *SyncManager {
	return &SyncManager{db: db}
}

// RecordGame stores the final standings of a finished room. Recording the same
// room twice is a no-op
func (sm *SyncManager) RecordGame(snapshot nimmt.Snapshot) error {
	if snapshot.Result == nil {
		return fmt.Errorf("room %s has no result to record", snapshot.ID)
	}
	result := snapshot.Result

	scores, err := json.Marshal(result.FinalScores)
	if err != nil {
		return fmt.Errorf("error marshaling final scores: %v", err)
	}

	game := postgres.GameRecord{
		ID:           snapshot.ID,
		Rounds:       result.Rounds,
		PlayerCount:  len(snapshot.Players),
		WinnerPoints: result.WinnerPoints,
		Tie:          result.Tie,
		FinalScores:  datatypes.JSON(scores),
	}
	if snapshot.StartedAt != nil {
		game.StartedAt = *snapshot.StartedAt
	}
	if snapshot.FinishedAt != nil {
		game.FinishedAt = *snapshot.FinishedAt
	}

	winners := make(map[string]bool, len(result.Winners))
	for _, w := range result.Winners {
		winners[w.PlayerID] = true
	}

	players := make([]postgres.PlayerRecord, 0, len(snapshot.Players))
	for i, p := range snapshot.Players {
		collected, err := json.Marshal(result.FinalScores[p.ID].Collected)
		if err != nil {
			return fmt.Errorf("error marshaling collected cards: %v", err)
		}
		players = append(players, postgres.PlayerRecord{
			GameID:    snapshot.ID,
			PlayerID:  p.ID,
			Name:      p.Name,
			Role:      p.Role,
			JoinOrder: i,
			Points:    p.Points,
			Winner:    winners[p.ID],
			Collected: datatypes.JSON(collected),
		})
	}

	err = sm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Players").Create(&game).Error; err != nil {
			return fmt.Errorf("error inserting game record: %v", err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&players).Error; err != nil {
			return fmt.Errorf("error inserting player records: %v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[SYNC] Recorded game %s with %d players", snapshot.ID, len(players))
	return nil
}

// RecentGames returns the last finished games, newest first, with their players
func (sm *SyncManager) RecentGames(limit int) ([]postgres.GameRecord, error) {
	var games []postgres.GameRecord
	err := sm.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("join_order")
	}).Order("finished_at DESC").Limit(limit).Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("error getting recent games: %v", err)
	}
	return games, nil
}
