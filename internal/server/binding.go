package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": resolveBindError(err, messages, fallback)})
		return false
	}
	return true
}

// bindForm binds a posted form and returns the message to show next to it.
func bindForm(c *gin.Context, req any, messages bindMessages, fallback string) (string, bool) {
	if err := c.ShouldBind(req); err != nil {
		return resolveBindError(err, messages, fallback), false
	}
	return "", true
}

// bindURI answers 404 itself when a path id is not a positive number.
func bindURI(c *gin.Context, req any, notFound func(*gin.Context)) bool {
	if err := c.ShouldBindUri(req); err != nil {
		notFound(c)
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}

type gameURI struct {
	GameID uint `uri:"gid" binding:"required,min=1"`
}

type playerURI struct {
	GameID   uint `uri:"gid" binding:"required,min=1"`
	PlayerID uint `uri:"pid" binding:"required,min=1"`
}

type roundURI struct {
	GameID   uint `uri:"gid" binding:"required,min=1"`
	PlayerID uint `uri:"pid" binding:"required,min=1"`
	EntryID  uint `uri:"rid" binding:"required,min=1"`
}
