package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null"`
	FirstName string    `gorm:"size:64;not null"`
	LastName  string    `gorm:"size:64;not null"`
	Test      bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// JoinOrCreate returns the player with the same trimmed name in the game,
// ignoring case, or registers a new one. Two simultaneous first joins with
// the same name can both insert; that duplicate is tolerated.
//
// Case is folded in Go because SQLite's LOWER only folds ASCII.
func JoinOrCreate(conn *gorm.DB, game GameRequest, firstName, lastName string) (Player, bool, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	var players []Player
	if err := conn.Where("game_id = ?", game.ID).Order("id asc").Find(&players).Error; err != nil {
		return Player{}, false, err
	}
	for _, existing := range players {
		if strings.EqualFold(existing.FirstName, firstName) && strings.EqualFold(existing.LastName, lastName) {
			return existing, false, nil
		}
	}
	player := Player{
		GameID:    game.ID,
		FirstName: firstName,
		LastName:  lastName,
		Test:      game.Test,
		JoinedAt:  time.Now().UTC(),
	}
	if err := conn.Create(&player).Error; err != nil {
		return Player{}, false, err
	}
	return player, true, nil
}

// PlayerInGame is the point lookup behind every player page.
func PlayerInGame(conn *gorm.DB, gameID, playerID uint) (Player, error) {
	var player Player
	if err := conn.Where("id = ? AND game_id = ?", playerID, gameID).First(&player).Error; err != nil {
		return Player{}, notFound(err)
	}
	return player, nil
}

func ListPlayers(conn *gorm.DB, gameID uint) ([]Player, error) {
	var players []Player
	if err := conn.Where("game_id = ?", gameID).Order("joined_at desc, id desc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
