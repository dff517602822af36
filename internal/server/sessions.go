package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"tragedy-commons/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sessionCookie = "tc_session"

type sessionStore struct {
	db       *gorm.DB
	logger   *zap.Logger
	mu       sync.Mutex
	sessions map[string]sessionData
}

type sessionData struct {
	Flash string
	State playState
}

// playState is everything a visitor has entered in the single-player games.
type playState struct {
	Farm    []int          `json:"farm,omitempty"`
	Whaling []int          `json:"whaling,omitempty"`
	Dilemma []dilemmaRound `json:"dilemma,omitempty"`
	Classic []dilemmaRound `json:"classic,omitempty"`
}

type dilemmaRound struct {
	Strategy string `json:"strategy"`
	You      string `json:"you"`
	Partner  string `json:"partner"`
}

func newSessionStore(conn *gorm.DB, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		db:       conn,
		logger:   logger,
		sessions: make(map[string]sessionData),
	}
}

func (s *sessionStore) SetFlash(c *gin.Context, message string) {
	if message == "" {
		return
	}
	id := s.ensureSessionID(c)
	data := s.load(id)
	data.Flash = message
	s.save(id, data)
}

func (s *sessionStore) PopFlash(c *gin.Context) string {
	id := s.ensureSessionID(c)
	data := s.load(id)
	if data.Flash == "" {
		return ""
	}
	message := data.Flash
	data.Flash = ""
	s.save(id, data)
	return message
}

func (s *sessionStore) State(c *gin.Context) playState {
	return s.load(s.ensureSessionID(c)).State
}

func (s *sessionStore) SetState(c *gin.Context, state playState) {
	id := s.ensureSessionID(c)
	data := s.load(id)
	data.State = state
	s.save(id, data)
}

func (s *sessionStore) load(id string) sessionData {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[id]
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("session load failed", zap.Error(err))
		}
		return sessionData{}
	}
	data := sessionData{Flash: record.Flash}
	if len(record.State) > 0 {
		if err := json.Unmarshal(record.State, &data.State); err != nil {
			s.logger.Warn("session state unreadable", zap.Error(err))
		}
	}
	return data
}

func (s *sessionStore) save(id string, data sessionData) {
	if s.db == nil {
		s.mu.Lock()
		s.sessions[id] = data
		s.mu.Unlock()
		return
	}
	state, err := json.Marshal(data.State)
	if err != nil {
		s.logger.Error("session state encode failed", zap.Error(err))
		return
	}
	record := db.Session{
		ID:    id,
		Flash: data.Flash,
		State: datatypes.JSON(state),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"flash", "state", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		s.logger.Error("session save failed", zap.Error(err))
	}
}

// ensureSessionID returns the cookie's session id, issuing a new one when
// the request has none. The id is also kept on the context so a redirect in
// the same request reuses it.
func (s *sessionStore) ensureSessionID(c *gin.Context) string {
	if id := c.GetString(sessionCookie); id != "" {
		return id
	}
	if cookie, err := c.Request.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		c.Set(sessionCookie, cookie.Value)
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(sessionCookie, id)
	return id
}
