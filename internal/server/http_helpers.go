package server

import (
	"errors"
	"net/http"

	"tragedy-commons/internal/db"
	"tragedy-commons/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgGameNotFound = "We could not find that game. Check the password or ask your instructor."
	msgStorage      = "Something went wrong on our side. Please try again."
	msgNoDatabase   = "Database not configured."
)

func render(c *gin.Context, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}

func renderNotFound(c *gin.Context) {
	render(c, http.StatusNotFound, web.NotFound(msgGameNotFound))
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// pageError renders the page for a failed lookup or write. Not found
// conditions share one message; anything else is a storage error.
func (s *Server) pageError(c *gin.Context, err error, msg string, fields ...zap.Field) {
	if errors.Is(err, db.ErrNotFound) {
		renderNotFound(c)
		return
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	render(c, http.StatusInternalServerError, web.ErrorPage(msgStorage))
}

func (s *Server) apiError(c *gin.Context, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		apiNotFound(c)
	case errors.Is(err, db.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrRoundPending), errors.Is(err, db.ErrNothingToClose):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStorage})
	}
}

// requireDB answers for handlers that cannot work without a database.
func (s *Server) requireDB(c *gin.Context) bool {
	if s.db != nil {
		return true
	}
	render(c, http.StatusServiceUnavailable, web.ErrorPage(msgNoDatabase))
	return false
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
