package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"tragedy-commons/internal/commons"
	"tragedy-commons/internal/db"
	"tragedy-commons/internal/metrics"
	"tragedy-commons/internal/report"
	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	msgRoundMailFailed = "The round was closed, but the email to the game owner could not be sent."
)

type closeRoundForm struct {
	Rounds string `form:"rounds" binding:"max=500"`
}

type closeRoundRequest struct {
	Rounds commons.RoundSet `json:"rounds"`
}

// loadResults returns the class results of a game, computing them from the
// closed rows when the cache has none. A cached value only counts when it
// ends at the latest closed round. After a write the round is checked again,
// so a closure that committed while the results were computed drops the
// value just written.
func (s *Server) loadResults(ctx context.Context, gameID uint) ([]commons.RoundResult, error) {
	latest, err := db.LatestRound(s.db, gameID)
	if err != nil {
		return nil, err
	}
	results, ok, err := s.results.Get(ctx, gameID)
	if err != nil {
		s.logger.Warn("results cache read failed", zap.Uint("gid", gameID), zap.Error(err))
	}
	if ok && lastRound(results) == latest {
		metrics.CacheHits.Inc()
		return results, nil
	}
	metrics.CacheMisses.Inc()
	results, err = db.RoundResults(s.db, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.results.Set(ctx, gameID, results); err != nil {
		s.logger.Warn("results cache write failed", zap.Uint("gid", gameID), zap.Error(err))
		return results, nil
	}
	if now, err := db.LatestRound(s.db, gameID); err != nil || now != lastRound(results) {
		s.invalidateResults(ctx, gameID)
	}
	return results, nil
}

func lastRound(results []commons.RoundResult) int {
	if len(results) == 0 {
		return 0
	}
	return results[len(results)-1].RoundNumber
}

func (s *Server) invalidateResults(ctx context.Context, gameID uint) {
	if err := s.results.Invalidate(ctx, gameID); err != nil {
		s.logger.Warn("results cache invalidation failed", zap.Uint("gid", gameID), zap.Error(err))
	}
}

// closeRound closes the open round of an accepted game and tells the owner.
// The returned warning is set when the owner could not be emailed; the
// closure stands either way.
func (s *Server) closeRound(ctx context.Context, gameID uint, reveal commons.RoundSet) (db.CloseResult, string, error) {
	game, err := db.FindAccepted(s.db, gameID)
	if err != nil {
		return db.CloseResult{}, "", err
	}
	result, err := db.CloseRound(s.db, game.ID, reveal)
	if err != nil {
		return db.CloseResult{}, "", err
	}
	s.invalidateResults(ctx, game.ID)
	metrics.RoundsClosed.Inc()
	metrics.RowsClosed.Add(float64(result.Closed))
	s.logger.Info("round closed",
		zap.Uint("gid", game.ID),
		zap.Int("round", result.RoundNumber),
		zap.Int64("closed", result.Closed),
		zap.Int64("revealed", result.Revealed),
	)
	payload := EventPayload{
		RoundNumber: result.RoundNumber,
		Closed:      result.Closed,
		Revealed:    reveal.Sorted(),
	}
	warning := ""
	if err := s.mailer.RoundPlayed(ctx, ownerOf(game), game.ID, result.RoundNumber); err != nil {
		s.notificationFailed(game.ID, "round_played", err)
		payload.Warning = err.Error()
		warning = msgRoundMailFailed
	}
	s.recordEvent(game.ID, "round_closed", payload)
	return result, warning, nil
}

func (s *Server) handleManageView(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	s.renderManage(c, uri.GameID, http.StatusOK, "", "")
}

func (s *Server) renderManage(c *gin.Context, gameID uint, status int, rounds, message string) {
	game, err := db.FindAccepted(s.db, gameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", zap.Uint("gid", gameID))
		return
	}
	players, err := db.ListPlayers(s.db, game.ID)
	if err != nil {
		s.pageError(c, err, "failed to list players", zap.Uint("gid", game.ID))
		return
	}
	pending, err := db.PendingCount(s.db, game.ID)
	if err != nil {
		s.pageError(c, err, "failed to count pending rows", zap.Uint("gid", game.ID))
		return
	}
	results, err := s.loadResults(c.Request.Context(), game.ID)
	if err != nil {
		s.pageError(c, err, "failed to load results", zap.Uint("gid", game.ID))
		return
	}
	render(c, status, web.Manage(web.ManageData{
		Game:        game,
		Players:     len(players),
		Pending:     pending,
		Results:     results,
		Rounds:      rounds,
		ResultsPage: s.mailer.ResultsPage(game.ID),
		Error:       message,
		Flash:       s.sessions.PopFlash(c),
	}))
}

func (s *Server) handleCloseRoundForm(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	const msgRounds = "List rounds as numbers separated by commas, for example 3,4,5."
	var form closeRoundForm
	if msg, ok := bindForm(c, &form, bindMessages{"Rounds": {"max": msgRounds}}, msgRounds); !ok {
		s.renderManage(c, uri.GameID, http.StatusBadRequest, c.PostForm("rounds"), msg)
		return
	}
	reveal, err := commons.ParseRoundSet(form.Rounds)
	if err != nil {
		s.renderManage(c, uri.GameID, http.StatusBadRequest, form.Rounds, msgRounds)
		return
	}
	result, warning, err := s.closeRound(c.Request.Context(), uri.GameID, reveal)
	switch {
	case errors.Is(err, db.ErrNothingToClose):
		s.sessions.SetFlash(c, "Nobody has submitted cows yet, so there is no round to close.")
	case err != nil:
		s.pageError(c, err, "failed to close round", zap.Uint("gid", uri.GameID))
		return
	default:
		message := fmt.Sprintf("Round %d closed with %d farmers.", result.RoundNumber, result.Closed)
		if warning != "" {
			message += " " + warning
		}
		s.sessions.SetFlash(c, message)
	}
	redirect(c, fmt.Sprintf("/games/%d/manage", uri.GameID))
}

func (s *Server) handleCloseRoundAPI(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNoDatabase})
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, apiNotFound) {
		return
	}
	var req closeRoundRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req, nil, "rounds must be a list of positive round numbers") {
			return
		}
	}
	result, warning, err := s.closeRound(c.Request.Context(), uri.GameID, req.Rounds)
	if err != nil {
		s.apiError(c, err, "failed to close round", zap.Uint("gid", uri.GameID))
		return
	}
	body := gin.H{
		"round_number": result.RoundNumber,
		"closed":       result.Closed,
		"revealed":     result.Revealed,
	}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleResultsView(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	game, err := db.FindAccepted(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", zap.Uint("gid", uri.GameID))
		return
	}
	results, err := s.loadResults(c.Request.Context(), game.ID)
	if err != nil {
		s.pageError(c, err, "failed to load results", zap.Uint("gid", game.ID))
		return
	}
	render(c, http.StatusOK, web.Results(web.ResultsData{Game: game, Results: results}))
}

func (s *Server) handleResultsExport(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	game, err := db.FindAccepted(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", zap.Uint("gid", uri.GameID))
		return
	}
	results, err := s.loadResults(c.Request.Context(), game.ID)
	if err != nil {
		s.pageError(c, err, "failed to load results", zap.Uint("gid", game.ID))
		return
	}
	var buf bytes.Buffer
	if err := report.WriteResults(&buf, game.ID, results); err != nil {
		s.pageError(c, err, "failed to build workbook", zap.Uint("gid", game.ID))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(game.ID)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
