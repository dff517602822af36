package db

import (
	"time"

	"gorm.io/datatypes"
)

// Session backs the browser cookie: a pending flash message and the
// single-player game state.
type Session struct {
	ID        string `gorm:"primaryKey;size:64"`
	Flash     string `gorm:"size:280"`
	State     datatypes.JSON
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
