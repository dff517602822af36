package server

import (
	"errors"
	"fmt"
	"net/http"

	"tragedy-commons/internal/commons"
	"tragedy-commons/internal/db"
	"tragedy-commons/internal/metrics"
	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type passwordForm struct {
	Password string `form:"password" binding:"required,max=200"`
}

type joinForm struct {
	FirstName string `form:"first_name" binding:"required,personname"`
	LastName  string `form:"last_name" binding:"required,personname"`
}

var joinMessages = bindMessages{
	"FirstName": {
		"required":   "Please enter your first name.",
		"personname": "First name must be 64 characters or fewer and use only letters, digits, spaces and - _ ' . , & ( ) /.",
	},
	"LastName": {
		"required":   "Please enter your last name.",
		"personname": "Last name must be 64 characters or fewer and use only letters, digits, spaces and - _ ' . , & ( ) /.",
	},
}

type cowsForm struct {
	Cows *int `form:"cows" binding:"required"`
}

const msgCows = "Enter a whole number of cows between 0 and 100."

func playerPath(gameID, playerID uint) string {
	return fmt.Sprintf("/games/%d/players/%d", gameID, playerID)
}

func (s *Server) handlePasswordView(c *gin.Context) {
	render(c, http.StatusOK, web.Password(web.PasswordData{Flash: s.sessions.PopFlash(c)}))
}

func (s *Server) handlePasswordSubmit(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var form passwordForm
	if msg, ok := bindForm(c, &form, bindMessages{"Password": {"required": "Please enter the password."}}, "Please enter the password."); !ok {
		render(c, http.StatusBadRequest, web.Password(web.PasswordData{Password: c.PostForm("password"), Error: msg}))
		return
	}
	game, err := db.CheckPassword(s.db, form.Password)
	if errors.Is(err, db.ErrNotFound) {
		render(c, http.StatusNotFound, web.Password(web.PasswordData{Password: form.Password, Error: msgGameNotFound}))
		return
	}
	if err != nil {
		s.pageError(c, err, "failed to check password")
		return
	}
	redirect(c, fmt.Sprintf("/games/%d", game.ID))
}

func (s *Server) handleStartView(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	s.renderStart(c, uri.GameID, http.StatusOK, "", "", "")
}

func (s *Server) renderStart(c *gin.Context, gameID uint, status int, firstName, lastName, message string) {
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
	render(c, status, web.Start(web.StartData{
		Game:      game,
		Players:   players,
		FirstName: firstName,
		LastName:  lastName,
		Error:     message,
		Flash:     s.sessions.PopFlash(c),
	}))
}

func (s *Server) handleJoin(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri gameURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	var form joinForm
	if msg, ok := bindForm(c, &form, joinMessages, "Please enter your name."); !ok {
		s.renderStart(c, uri.GameID, http.StatusBadRequest, c.PostForm("first_name"), c.PostForm("last_name"), msg)
		return
	}
	game, err := db.FindAccepted(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", zap.Uint("gid", uri.GameID))
		return
	}
	player, created, err := db.JoinOrCreate(s.db, game, normalizeText(form.FirstName), normalizeText(form.LastName))
	if err != nil {
		s.pageError(c, err, "failed to join game", zap.Uint("gid", game.ID))
		return
	}
	if created {
		s.logger.Info("player joined", zap.Uint("gid", game.ID), zap.Uint("pid", player.ID))
		s.recordEvent(game.ID, "player_joined", EventPayload{
			PlayerID: player.ID,
			Player:   commons.DisplayName(player.FirstName, player.LastName),
		})
	}
	redirect(c, playerPath(game.ID, player.ID))
}

func (s *Server) handlePlayerView(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri playerURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	s.renderPlayer(c, uri, http.StatusOK, "", "")
}

func (s *Server) renderPlayer(c *gin.Context, uri playerURI, status int, cows, message string) {
	fields := []zap.Field{zap.Uint("gid", uri.GameID), zap.Uint("pid", uri.PlayerID)}
	game, err := db.FindAccepted(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", fields...)
		return
	}
	player, err := db.PlayerInGame(s.db, game.ID, uri.PlayerID)
	if err != nil {
		s.pageError(c, err, "failed to load player", fields...)
		return
	}
	entries, err := db.History(s.db, game.ID, player.ID)
	if err != nil {
		s.pageError(c, err, "failed to load history", fields...)
		return
	}
	results, err := s.loadResults(c.Request.Context(), game.ID)
	if err != nil {
		s.pageError(c, err, "failed to load results", fields...)
		return
	}
	players, err := db.ListPlayers(s.db, game.ID)
	if err != nil {
		s.pageError(c, err, "failed to list players", fields...)
		return
	}

	data := web.PlayerData{
		Game:    game,
		Player:  player,
		Farmers: len(players),
		History: historyRows(entries, results),
		Results: results,
		Cows:    cows,
		Error:   message,
		Flash:   s.sessions.PopFlash(c),
	}
	for i := range entries {
		if !entries[i].Completed {
			data.Pending = &entries[i]
			break
		}
	}
	render(c, status, web.Player(data))
}

// historyRows prices each closed entry with the profit per cow of its round.
func historyRows(entries []db.RoundEntry, results []commons.RoundResult) []web.HistoryRow {
	profit := make(map[int]float64, len(results))
	for _, round := range results {
		profit[round.RoundNumber] = round.ProfitPerUnit
	}
	rows := make([]web.HistoryRow, 0, len(entries))
	for _, entry := range entries {
		row := web.HistoryRow{
			EntryID:     entry.ID,
			RoundNumber: entry.RoundNumber,
			Cows:        entry.Cows,
			Completed:   entry.Completed,
		}
		if entry.Completed {
			row.RevenueOrLoss = float64(entry.Cows) * profit[entry.RoundNumber]
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) handleSubmitRound(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri playerURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	var form cowsForm
	if msg, ok := bindForm(c, &form, bindMessages{"Cows": {"required": msgCows}}, msgCows); !ok {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		s.renderPlayer(c, uri, http.StatusBadRequest, c.PostForm("cows"), msg)
		return
	}
	fields := []zap.Field{zap.Uint("gid", uri.GameID), zap.Uint("pid", uri.PlayerID), zap.Int("cows", *form.Cows)}
	if _, err := db.FindAccepted(s.db, uri.GameID); err != nil {
		s.pageError(c, err, "failed to load game", fields...)
		return
	}
	player, err := db.PlayerInGame(s.db, uri.GameID, uri.PlayerID)
	if err != nil {
		s.pageError(c, err, "failed to load player", fields...)
		return
	}
	entry, err := db.SubmitPending(s.db, player, *form.Cows)
	switch {
	case errors.Is(err, db.ErrInvalidQuantity):
		metrics.Submissions.WithLabelValues("invalid").Inc()
		s.renderPlayer(c, uri, http.StatusBadRequest, c.PostForm("cows"), msgCows)
		return
	case errors.Is(err, db.ErrRoundPending):
		metrics.Submissions.WithLabelValues("conflict").Inc()
		s.sessions.SetFlash(c, "You already have cows waiting for this round. Wait for your instructor to close it.")
		redirect(c, playerPath(uri.GameID, uri.PlayerID))
		return
	case err != nil:
		metrics.Submissions.WithLabelValues("error").Inc()
		s.pageError(c, err, "failed to submit round", fields...)
		return
	}
	metrics.Submissions.WithLabelValues("accepted").Inc()
	s.logger.Info("round submitted", append(fields, zap.Uint("rid", entry.ID))...)
	s.recordEvent(uri.GameID, "round_submitted", EventPayload{PlayerID: player.ID, EntryID: entry.ID, Cows: &entry.Cows})
	redirect(c, fmt.Sprintf("%s/rounds/%d/wait", playerPath(uri.GameID, uri.PlayerID), entry.ID))
}

func (s *Server) handleWaitView(c *gin.Context) {
	if !s.requireDB(c) {
		return
	}
	var uri roundURI
	if !bindURI(c, &uri, renderNotFound) {
		return
	}
	fields := []zap.Field{zap.Uint("gid", uri.GameID), zap.Uint("pid", uri.PlayerID), zap.Uint("rid", uri.EntryID)}
	game, err := db.FindAccepted(s.db, uri.GameID)
	if err != nil {
		s.pageError(c, err, "failed to load game", fields...)
		return
	}
	player, err := db.PlayerInGame(s.db, game.ID, uri.PlayerID)
	if err != nil {
		s.pageError(c, err, "failed to load player", fields...)
		return
	}
	entry, err := db.RoundStatus(s.db, game.ID, player.ID, uri.EntryID)
	if err != nil {
		s.pageError(c, err, "failed to load round", fields...)
		return
	}
	if entry.Completed {
		redirect(c, playerPath(game.ID, player.ID))
		return
	}
	render(c, http.StatusOK, web.Wait(web.WaitData{
		Game:            game,
		Player:          player,
		Entry:           entry,
		StatusURL:       fmt.Sprintf("/api/games/%d/players/%d/rounds/%d", game.ID, player.ID, entry.ID),
		PlayerURL:       playerPath(game.ID, player.ID),
		IntervalSeconds: s.cfg.PollIntervalSeconds,
		MaxAttempts:     s.cfg.PollMaxAttempts,
	}))
}

func (s *Server) handleRoundStatus(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNoDatabase})
		return
	}
	var uri roundURI
	if !bindURI(c, &uri, apiNotFound) {
		return
	}
	if _, err := db.FindAccepted(s.db, uri.GameID); err != nil {
		s.apiError(c, err, "failed to load game", zap.Uint("gid", uri.GameID))
		return
	}
	entry, err := db.RoundStatus(s.db, uri.GameID, uri.PlayerID, uri.EntryID)
	if err != nil {
		s.apiError(c, err, "failed to load round", zap.Uint("gid", uri.GameID), zap.Uint("rid", uri.EntryID))
		return
	}
	completed := "0"
	if entry.Completed {
		completed = "1"
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed, "round_number": entry.RoundNumber})
}
