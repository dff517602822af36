package db

import (
	"time"

	"gorm.io/gorm"
)

// DeleteUnusedGames removes request pairs created before cutoff where
// neither game ever had a player. It returns the number of rows deleted.
func DeleteUnusedGames(conn *gorm.DB, cutoff time.Time) (int64, error) {
	var candidates []GameRequest
	err := conn.Where("created_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM players WHERE players.game_id = game_requests.id)").
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}
	unused := make(map[uint]struct{}, len(candidates))
	for _, candidate := range candidates {
		unused[candidate.ID] = struct{}{}
	}
	var ids []uint
	for _, candidate := range candidates {
		if candidate.PairID != nil {
			if _, ok := unused[*candidate.PairID]; !ok {
				continue
			}
		}
		ids = append(ids, candidate.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id IN ?", ids).Delete(&Event{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&GameRequest{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// DeleteStaleSessions removes browser sessions untouched since cutoff.
func DeleteStaleSessions(conn *gorm.DB, cutoff time.Time) (int64, error) {
	result := conn.Where("updated_at < ?", cutoff).Delete(&Session{})
	return result.RowsAffected, result.Error
}
