package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	StatusRequested = "requested"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
)

// GameRequest is an instructor's game. Every submission creates two linked
// rows: a test game to try things out and the production game.
type GameRequest struct {
	ID          uint      `gorm:"primaryKey"`
	FirstName   string    `gorm:"size:64;not null"`
	LastName    string    `gorm:"size:64;not null"`
	Email       string    `gorm:"size:254;not null"`
	Institution string    `gorm:"size:128;not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:16;not null;index"`
	Test        bool      `gorm:"not null;default:false"`
	PairID      *uint     `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type RequestInput struct {
	FirstName   string
	LastName    string
	Email       string
	Institution string
	Description string
}

// Password is what the owner hands out to students.
func (r GameRequest) Password() string {
	return fmt.Sprintf("%s-%d", r.LastName, r.ID)
}

// Pair returns the production and the test game ids of the request pair.
func (r GameRequest) Pair() (production, test uint) {
	other := uint(0)
	if r.PairID != nil {
		other = *r.PairID
	}
	if r.Test {
		return other, r.ID
	}
	return r.ID, other
}

// CreateRequestPair inserts the test row and then the production row for one
// submission and links them.
func CreateRequestPair(conn *gorm.DB, input RequestInput, autoApprove bool) (GameRequest, GameRequest, error) {
	status := StatusRequested
	if autoApprove {
		status = StatusAccepted
	}
	var production, test GameRequest
	err := conn.Transaction(func(tx *gorm.DB) error {
		test = newRequest(input, status, true)
		if err := tx.Create(&test).Error; err != nil {
			return err
		}
		production = newRequest(input, status, false)
		production.PairID = &test.ID
		if err := tx.Create(&production).Error; err != nil {
			return err
		}
		test.PairID = &production.ID
		return tx.Model(&test).Update("pair_id", production.ID).Error
	})
	if err != nil {
		return GameRequest{}, GameRequest{}, err
	}
	return production, test, nil
}

func newRequest(input RequestInput, status string, test bool) GameRequest {
	return GameRequest{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Institution: input.Institution,
		Description: input.Description,
		Status:      status,
		Test:        test,
	}
}

// FindRequest loads a request regardless of its status.
func FindRequest(conn *gorm.DB, gameID uint) (GameRequest, error) {
	var request GameRequest
	if err := conn.First(&request, gameID).Error; err != nil {
		return GameRequest{}, notFound(err)
	}
	return request, nil
}

// FindAccepted is the gate for every player facing page.
func FindAccepted(conn *gorm.DB, gameID uint) (GameRequest, error) {
	var request GameRequest
	err := conn.Where("id = ? AND status = ?", gameID, StatusAccepted).First(&request).Error
	if err != nil {
		return GameRequest{}, notFound(err)
	}
	return request, nil
}

func ApproveRequest(conn *gorm.DB, gameID uint) (GameRequest, error) {
	return setPairStatus(conn, gameID, StatusAccepted)
}

func RejectRequest(conn *gorm.DB, gameID uint) (GameRequest, error) {
	return setPairStatus(conn, gameID, StatusRejected)
}

func setPairStatus(conn *gorm.DB, gameID uint, status string) (GameRequest, error) {
	var request GameRequest
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, gameID).Error; err != nil {
			return notFound(err)
		}
		ids := []uint{request.ID}
		if request.PairID != nil {
			ids = append(ids, *request.PairID)
		}
		now := time.Now().UTC()
		if err := tx.Model(&GameRequest{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": status, "updated_at": now}).Error; err != nil {
			return err
		}
		request.Status = status
		request.UpdatedAt = now
		return nil
	})
	if err != nil {
		return GameRequest{}, err
	}
	return request, nil
}

// ListRequests pages through all requests, newest first.
func ListRequests(conn *gorm.DB, page, perPage int) ([]GameRequest, int64, error) {
	var total int64
	if err := conn.Model(&GameRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	var requests []GameRequest
	err := conn.Order("created_at desc, id desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// CheckPassword resolves "<lastname>-<gid>" to an accepted game. The last
// name is compared case-insensitively and may itself contain dashes.
func CheckPassword(conn *gorm.DB, password string) (GameRequest, error) {
	password = strings.TrimSpace(password)
	cut := strings.LastIndex(password, "-")
	if cut <= 0 || cut == len(password)-1 {
		return GameRequest{}, ErrNotFound
	}
	gameID, err := strconv.ParseUint(password[cut+1:], 10, 64)
	if err != nil || gameID == 0 {
		return GameRequest{}, ErrNotFound
	}
	request, err := FindAccepted(conn, uint(gameID))
	if err != nil {
		return GameRequest{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(password[:cut]), strings.TrimSpace(request.LastName)) {
		return GameRequest{}, ErrNotFound
	}
	return request, nil
}
