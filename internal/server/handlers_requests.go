package server

import (
	"fmt"
	"net/http"
	"strconv"

	"tragedy-commons/internal/db"
	"tragedy-commons/internal/metrics"
	"tragedy-commons/internal/notify"
	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type requestForm struct {
	FirstName   string `form:"first_name" binding:"required,personname"`
	LastName    string `form:"last_name" binding:"required,personname"`
	Email       string `form:"email" binding:"required,email,max=254"`
	Institution string `form:"institution" binding:"required,institution"`
	Description string `form:"description" binding:"max=2000"`
}

var requestMessages = bindMessages{
	"FirstName": {
		"required":   "Please enter your first name.",
		"personname": "First name must be 64 characters or fewer and use only letters, digits, spaces and - _ ' . , & ( ) /.",
	},
	"LastName": {
		"required":   "Please enter your last name.",
		"personname": "Last name must be 64 characters or fewer and use only letters, digits, spaces and - _ ' . , & ( ) /.",
	},
	"Email": {
		"required": "Please enter your email address.",
		"email":    "Please enter a valid email address.",
		"max":      "Email address is too long.",
	},
	"Institution": {
		"required":    "Please enter your institution.",
		"institution": "Institution must be 128 characters or fewer.",
	},
	"Description": {
		"max": fmt.Sprintf("Description must be %d characters or fewer.", maxDescriptionLength),
	},
}

const (
	msgApprovalMailFailed = "The game was approved, but the email to its owner could not be sent."
	msgRejectMailFailed   = "The request was rejected, but the email to its owner could not be sent."
)

func (s *Server) handleRequestForm(c *gin.Context) {
	render(c, http.StatusOK, web.RequestForm(web.RequestFormData{Flash: s.sessions.PopFlash(c)}))
}

func (s *Server) handleRequestSubmit(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var form requestForm
	if msg, ok := bindForm(c, &form, requestMessages, "Please check the form."); !ok {
		render(c, http.StatusBadRequest, web.RequestForm(web.RequestFormData{
			Values: requestValues(form, c),
			Error:  msg,
		}))
		return
	}
	input := db.RequestInput{
		FirstName:   normalizeText(form.FirstName),
		LastName:    normalizeText(form.LastName),
		Email:       normalizeText(form.Email),
		Institution: normalizeText(form.Institution),
		Description: form.Description,
	}
	production, test, err := db.CreateRequestPair(s.db, input, s.cfg.AutoApprove)
	if err != nil {
		s.pageError(c, err, "failed to create game request", zap.String("email", input.Email))
		return
	}
	s.logger.Info("game requested",
		zap.Uint("gid", production.ID),
		zap.Uint("test_gid", test.ID),
		zap.String("status", production.Status),
	)
	s.recordEvent(production.ID, "request_submitted", EventPayload{PairID: test.ID, Status: production.Status})
	if production.Status == db.StatusAccepted {
		if err := s.mailer.RequestApproved(c.Request.Context(), ownerOf(production), production.ID, test.ID); err != nil {
			s.notificationFailed(production.ID, "request_approved", err)
			s.sessions.SetFlash(c, "Your game is ready, but we could not email you the instructions. Keep this page.")
		}
	}
	redirect(c, fmt.Sprintf("/requests/instructions?gid=%d", production.ID))
}

// requestValues echoes what was posted, falling back to the raw form when
// binding stopped before filling the struct.
func requestValues(form requestForm, c *gin.Context) web.RequestValues {
	values := web.RequestValues{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Institution: form.Institution,
		Description: form.Description,
	}
	if values.FirstName == "" {
		values.FirstName = c.PostForm("first_name")
	}
	if values.LastName == "" {
		values.LastName = c.PostForm("last_name")
	}
	if values.Email == "" {
		values.Email = c.PostForm("email")
	}
	if values.Institution == "" {
		values.Institution = c.PostForm("institution")
	}
	if values.Description == "" {
		values.Description = c.PostForm("description")
	}
	return values
}

func (s *Server) handleInstructions(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	gameID, err := strconv.ParseUint(c.Query("gid"), 10, 64)
	if err != nil || gameID == 0 {
		renderNotFound(c)
		return
	}
	game, err := db.FindRequest(s.db, uint(gameID))
	if err != nil {
		s.pageError(c, err, "failed to load request", zap.Uint64("gid", gameID))
		return
	}
	if game.Test {
		renderNotFound(c)
		return
	}
	data := web.InstructionsData{Game: game, Flash: s.sessions.PopFlash(c)}
	if _, testID := game.Pair(); testID != 0 {
		if test, err := db.FindRequest(s.db, testID); err == nil {
			data.Test = test
		}
	}
	render(c, http.StatusOK, web.Instructions(data))
}

func (s *Server) handleAdminRequests(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	page, perPage := parsePagination(c, defaultRequestsPerPage, maxRequestsPerPage)
	requests, total, err := db.ListRequests(s.db, page, perPage)
	if err != nil {
		s.pageError(c, err, "failed to list requests")
		return
	}
	render(c, http.StatusOK, web.AdminRequests(web.AdminRequestsData{
		Requests:   requests,
		Pagination: buildPaginationData("/admin/requests", page, perPage, total),
		Flash:      s.sessions.PopFlash(c),
	}))
}

func (s *Server) handleAdminRequest(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	request, err := db.FindRequest(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load request", zap.Uint("gid", uri.GameID))
		return
	}
	data := web.AdminRequestData{Request: request, Flash: s.sessions.PopFlash(c)}
	if request.PairID != nil {
		if pair, err := db.FindRequest(s.db, *request.PairID); err == nil {
			data.Pair = &pair
		}
	}
	if players, err := db.ListPlayers(s.db, request.ID); err == nil {
		data.Players = len(players)
	}
	if events, err := db.ListEvents(s.db, request.ID, 50); err == nil {
		data.Events = events
	}
	render(c, http.StatusOK, web.AdminRequest(data))
}

func (s *Server) handleAdminApprove(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	request, err := db.ApproveRequest(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to approve request", zap.Uint("gid", uri.GameID))
		return
	}
	production, test := request.Pair()
	s.logger.Info("request approved", zap.Uint("gid", production), zap.Uint("test_gid", test))
	payload := EventPayload{Status: db.StatusAccepted}
	if err := s.mailer.RequestApproved(c.Request.Context(), ownerOf(request), production, test); err != nil {
		s.notificationFailed(request.ID, "request_approved", err)
		payload.Warning = err.Error()
		s.sessions.SetFlash(c, msgApprovalMailFailed)
	} else {
		s.sessions.SetFlash(c, fmt.Sprintf("Game %d and test game %d approved.", production, test))
	}
	s.recordEvent(request.ID, "request_approved", payload)
	redirect(c, fmt.Sprintf("/admin/requests/%d", request.ID))
}

type rejectForm struct {
	Reason string `form:"reason" binding:"max=500"`
}

func (s *Server) handleAdminReject(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	var form rejectForm
	if msg, ok := bindForm(c, &form, bindMessages{"Reason": {"max": fmt.Sprintf("Reason must be %d characters or fewer.", maxReasonLength)}}, ""); !ok {
		s.sessions.SetFlash(c, msg)
		redirect(c, fmt.Sprintf("/admin/requests/%d", uri.GameID))
		return
	}
	reason := normalizeText(form.Reason)
	request, err := db.RejectRequest(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to reject request", zap.Uint("gid", uri.GameID))
		return
	}
	s.logger.Info("request rejected", zap.Uint("gid", request.ID))
	payload := EventPayload{Status: db.StatusRejected, Reason: reason}
	if err := s.mailer.RequestDisapproved(c.Request.Context(), ownerOf(request), reason); err != nil {
		s.notificationFailed(request.ID, "request_disapproved", err)
		payload.Warning = err.Error()
		s.sessions.SetFlash(c, msgRejectMailFailed)
	} else {
		s.sessions.SetFlash(c, "Request rejected.")
	}
	s.recordEvent(request.ID, "request_rejected", payload)
	redirect(c, fmt.Sprintf("/admin/requests/%d", request.ID))
}

func ownerOf(request db.GameRequest) notify.Owner {
	return notify.Owner{
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}
}

func (s *Server) notificationFailed(gameID uint, kind string, err error) {
	metrics.NotificationFailures.WithLabelValues(kind).Inc()
	s.logger.Warn("notification failed",
		zap.Uint("gid", gameID),
		zap.String("kind", kind),
		zap.Error(err),
	)
}
