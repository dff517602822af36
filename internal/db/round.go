package db

import (
	"time"

	"tragedy-commons/internal/commons"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MaxQuantity = 100

// RoundEntry is one player's cows for one round. RoundNumber stays 0 until
// the owner closes the round.
type RoundEntry struct {
	ID          uint      `gorm:"primaryKey"`
	GameID      uint      `gorm:"not null;index;uniqueIndex:idx_round_entries_pending,where:completed = false"`
	PlayerID    uint      `gorm:"not null;index;uniqueIndex:idx_round_entries_pending,where:completed = false"`
	Cows        int       `gorm:"not null"`
	RoundNumber int       `gorm:"not null;default:0;index"`
	Completed   bool      `gorm:"not null;default:false"`
	ShowNames   bool      `gorm:"not null;default:false"`
	Test        bool      `gorm:"not null;default:false"`
	StartedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// SubmitPending records a player's choice for the open round.
func SubmitPending(conn *gorm.DB, player Player, quantity int) (RoundEntry, error) {
	if quantity < 0 || quantity > MaxQuantity {
		return RoundEntry{}, ErrInvalidQuantity
	}
	var pending int64
	if err := conn.Model(&RoundEntry{}).
		Where("game_id = ? AND player_id = ? AND completed = ?", player.GameID, player.ID, false).
		Count(&pending).Error; err != nil {
		return RoundEntry{}, err
	}
	if pending > 0 {
		return RoundEntry{}, ErrRoundPending
	}
	now := time.Now().UTC()
	entry := RoundEntry{
		GameID:    player.GameID,
		PlayerID:  player.ID,
		Cows:      quantity,
		Test:      player.Test,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := conn.Create(&entry).Error; err != nil {
		if isUniqueViolation(err) {
			return RoundEntry{}, ErrRoundPending
		}
		return RoundEntry{}, err
	}
	return entry, nil
}

type CloseResult struct {
	RoundNumber int
	Closed      int64
	Revealed    int64
}

// CloseRound stamps every pending row of the game with the next round
// number. Rounds named in reveal get their names disclosed, including rounds
// closed earlier. With no pending rows nothing changes.
func CloseRound(conn *gorm.DB, gameID uint, reveal commons.RoundSet) (CloseResult, error) {
	var result CloseResult
	err := conn.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var game GameRequest
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&game, gameID).Error; err != nil {
				return notFound(err)
			}
		}
		last, err := LatestRound(tx, gameID)
		if err != nil {
			return err
		}
		next := last + 1
		closed := tx.Model(&RoundEntry{}).
			Where("game_id = ? AND completed = ?", gameID, false).
			Updates(map[string]any{
				"completed":    true,
				"round_number": next,
				"show_names":   reveal.Contains(next),
				"updated_at":   time.Now().UTC(),
			})
		if closed.Error != nil {
			return closed.Error
		}
		if closed.RowsAffected == 0 {
			return ErrNothingToClose
		}
		result.RoundNumber = next
		result.Closed = closed.RowsAffected

		earlier := make([]int, 0, len(reveal))
		for _, round := range reveal.Sorted() {
			if round != next && round <= last {
				earlier = append(earlier, round)
			}
		}
		if len(earlier) == 0 {
			return nil
		}
		revealed := tx.Model(&RoundEntry{}).
			Where("game_id = ? AND completed = ? AND show_names = ? AND round_number IN ?", gameID, true, false, earlier).
			Update("show_names", true)
		if revealed.Error != nil {
			return revealed.Error
		}
		result.Revealed = revealed.RowsAffected
		return nil
	})
	if err != nil {
		return CloseResult{}, err
	}
	return result, nil
}

// History lists a player's rows, newest first. Pending rows are included.
func History(conn *gorm.DB, gameID, playerID uint) ([]RoundEntry, error) {
	var entries []RoundEntry
	err := conn.Where("game_id = ? AND player_id = ?", gameID, playerID).
		Order("id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RoundStatus is the row the wait page polls.
func RoundStatus(conn *gorm.DB, gameID, playerID, entryID uint) (RoundEntry, error) {
	var entry RoundEntry
	err := conn.Where("id = ? AND game_id = ? AND player_id = ?", entryID, gameID, playerID).First(&entry).Error
	if err != nil {
		return RoundEntry{}, notFound(err)
	}
	return entry, nil
}

// LatestRound is the highest closed round number of a game, 0 before the
// first closure.
func LatestRound(conn *gorm.DB, gameID uint) (int, error) {
	var last int
	err := conn.Model(&RoundEntry{}).
		Where("game_id = ? AND completed = ?", gameID, true).
		Select("COALESCE(MAX(round_number), 0)").
		Scan(&last).Error
	return last, err
}

// PendingCount is the number of submissions waiting for the next closure.
func PendingCount(conn *gorm.DB, gameID uint) (int64, error) {
	var count int64
	err := conn.Model(&RoundEntry{}).
		Where("game_id = ? AND completed = ?", gameID, false).
		Count(&count).Error
	return count, err
}

// ClosedRows joins the completed rows of a game with the player names,
// ordered by round then row id.
func ClosedRows(conn *gorm.DB, gameID uint) ([]ClosedRow, error) {
	var rows []ClosedRow
	err := conn.Table("round_entries").
		Select("round_entries.id, round_entries.player_id, round_entries.round_number, round_entries.cows, round_entries.show_names, players.first_name, players.last_name").
		Joins("JOIN players ON players.id = round_entries.player_id").
		Where("round_entries.game_id = ? AND round_entries.completed = ?", gameID, true).
		Order("round_entries.round_number asc, round_entries.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type ClosedRow struct {
	ID          uint
	PlayerID    uint
	RoundNumber int
	Cows        int
	ShowNames   bool
	FirstName   string
	LastName    string
}

// RoundResults summarizes every closed round of a game in round order.
func RoundResults(conn *gorm.DB, gameID uint) ([]commons.RoundResult, error) {
	rows, err := ClosedRows(conn, gameID)
	if err != nil {
		return nil, err
	}
	return SummarizeRows(rows), nil
}

func SummarizeRows(rows []ClosedRow) []commons.RoundResult {
	var results []commons.RoundResult
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && rows[i].RoundNumber == rows[start].RoundNumber {
			continue
		}
		entries := make([]commons.Entry, 0, i-start)
		for _, row := range rows[start:i] {
			entries = append(entries, commons.Entry{
				PlayerID:  row.PlayerID,
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Units:     row.Cows,
				ShowName:  row.ShowNames,
			})
		}
		results = append(results, commons.Summarize(rows[start].RoundNumber, entries))
		start = i
	}
	return results
}
