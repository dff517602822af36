package server

import (
	"tragedy-commons/internal/db"

	"go.uber.org/zap"
)

type EventPayload struct {
	PlayerID    uint   `json:"player_id,omitempty"`
	EntryID     uint   `json:"entry_id,omitempty"`
	Player      string `json:"player,omitempty"`
	Cows        *int   `json:"cows,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	Closed      int64  `json:"closed,omitempty"`
	Revealed    []int  `json:"revealed,omitempty"`
	PairID      uint   `json:"pair_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// recordEvent appends to the audit trail. A failure is logged and otherwise
// ignored.
func (s *Server) recordEvent(gameID uint, eventType string, payload EventPayload) {
	var playerID *uint
	if payload.PlayerID != 0 {
		playerID = &payload.PlayerID
	}
	var round *int
	if payload.RoundNumber != 0 {
		round = &payload.RoundNumber
	}
	if err := db.RecordEvent(s.db, gameID, playerID, round, eventType, payload); err != nil {
		s.logger.Warn("failed to record event",
			zap.Uint("gid", gameID),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
