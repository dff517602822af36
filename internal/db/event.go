package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is one entry of the per-game audit trail.
type Event struct {
	ID          uint  `gorm:"primaryKey"`
	GameID      uint  `gorm:"index;not null"`
	PlayerID    *uint `gorm:"index"`
	RoundNumber *int
	Type        string         `gorm:"size:64;not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func RecordEvent(conn *gorm.DB, gameID uint, playerID *uint, roundNumber *int, eventType string, payload any) error {
	if conn == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := Event{
		GameID:      gameID,
		PlayerID:    playerID,
		RoundNumber: roundNumber,
		Type:        eventType,
		Payload:     datatypes.JSON(data),
		CreatedAt:   time.Now().UTC(),
	}
	return conn.Create(&record).Error
}

// ListEvents returns the newest events of a game first.
func ListEvents(conn *gorm.DB, gameID uint, limit int) ([]Event, error) {
	var events []Event
	query := conn.Where("game_id = ?", gameID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
