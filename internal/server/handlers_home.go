package server

import (
	"net/http"

	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	render(c, http.StatusOK, web.Home(s.sessions.PopFlash(c)))
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no database"})
		return
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
