package server

import (
	"net/http"

	"tragedy-commons/internal/commons"
	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	msgFarm    = "Enter a whole number of cows between 0 and 100."
	msgWhaling = "Enter a whole number of boats between 0 and 1000."
	msgDilemma = "Choose to hold out or confess."
)

type restartForm struct {
	Restart bool `form:"restart"`
}

type farmForm struct {
	Cows *int `form:"cows" binding:"required,min=0,max=100"`
}

type whalingForm struct {
	Boats *int `form:"boats" binding:"required,min=0,max=1000"`
}

type dilemmaForm struct {
	Strategy string `form:"strategy"`
	Choice   string `form:"choice" binding:"required"`
}

// restarting clears a game's history when the visitor asked to start over.
func restarting(c *gin.Context) bool {
	var form restartForm
	_ = c.ShouldBind(&form)
	return form.Restart
}

func (s *Server) handleFarm(c *gin.Context) {
	state := s.sessions.State(c)
	render(c, http.StatusOK, web.Farm(web.FarmData{Result: commons.PlayFarm(state.Farm)}))
}

func (s *Server) handleFarmSubmit(c *gin.Context) {
	state := s.sessions.State(c)
	if restarting(c) {
		state.Farm = nil
		s.sessions.SetState(c, state)
		redirect(c, "/farm")
		return
	}
	var form farmForm
	if msg, ok := bindForm(c, &form, nil, msgFarm); !ok {
		render(c, http.StatusBadRequest, web.Farm(web.FarmData{
			Result: commons.PlayFarm(state.Farm),
			Cows:   c.PostForm("cows"),
			Error:  msg,
		}))
		return
	}
	state.Farm = append(state.Farm, *form.Cows)
	s.sessions.SetState(c, state)
	redirect(c, "/farm")
}

func (s *Server) handleWhaling(c *gin.Context) {
	state := s.sessions.State(c)
	params := commons.DefaultWhalingParams()
	render(c, http.StatusOK, web.Whaling(web.WhalingData{
		Params: params,
		Result: commons.PlayWhaling(params, state.Whaling),
	}))
}

func (s *Server) handleWhalingSubmit(c *gin.Context) {
	state := s.sessions.State(c)
	if restarting(c) {
		state.Whaling = nil
		s.sessions.SetState(c, state)
		redirect(c, "/whaling")
		return
	}
	params := commons.DefaultWhalingParams()
	current := commons.PlayWhaling(params, state.Whaling)
	if current.Extinct {
		redirect(c, "/whaling")
		return
	}
	var form whalingForm
	if msg, ok := bindForm(c, &form, nil, msgWhaling); !ok {
		render(c, http.StatusBadRequest, web.Whaling(web.WhalingData{
			Params: params,
			Result: current,
			Boats:  c.PostForm("boats"),
			Error:  msg,
		}))
		return
	}
	state.Whaling = append(state.Whaling, *form.Boats)
	s.sessions.SetState(c, state)
	redirect(c, "/whaling")
}

func (s *Server) handleDilemma(c *gin.Context) {
	s.renderDilemma(c, http.StatusOK, false, commons.StrategyRandom, "")
}

func (s *Server) handleClassicDilemma(c *gin.Context) {
	s.renderDilemma(c, http.StatusOK, true, commons.StrategyRandom, "")
}

func (s *Server) handleDilemmaSubmit(c *gin.Context) {
	s.playDilemma(c, false)
}

func (s *Server) handleClassicDilemmaSubmit(c *gin.Context) {
	s.playDilemma(c, true)
}

func (s *Server) playDilemma(c *gin.Context, classic bool) {
	path := "/dilemma"
	if classic {
		path = "/dilemma/classic"
	}
	state := s.sessions.State(c)
	if restarting(c) {
		if classic {
			state.Classic = nil
		} else {
			state.Dilemma = nil
		}
		s.sessions.SetState(c, state)
		redirect(c, path)
		return
	}

	var form dilemmaForm
	if msg, ok := bindForm(c, &form, nil, msgDilemma); !ok {
		s.renderDilemma(c, http.StatusBadRequest, classic, commons.StrategyRandom, msg)
		return
	}
	choice, err := commons.ParseChoice(form.Choice)
	if err != nil {
		s.renderDilemma(c, http.StatusBadRequest, classic, commons.StrategyRandom, msgDilemma)
		return
	}
	strategy := commons.StrategyRandom
	if !classic && form.Strategy != "" {
		strategy, err = commons.ParseStrategy(form.Strategy)
		if err != nil {
			s.renderDilemma(c, http.StatusBadRequest, classic, commons.StrategyRandom, "Choose a partner from the list.")
			return
		}
	}

	round := dilemmaRound{
		Strategy: string(strategy),
		You:      string(choice),
		Partner:  string(commons.PartnerChoice(strategy, s.roll)),
	}
	if classic {
		state.Classic = append(state.Classic, round)
	} else {
		state.Dilemma = append(state.Dilemma, round)
	}
	s.sessions.SetState(c, state)
	redirect(c, path)
}

func (s *Server) renderDilemma(c *gin.Context, status int, classic bool, strategy commons.Strategy, message string) {
	state := s.sessions.State(c)
	played := state.Dilemma
	if classic {
		played = state.Classic
	}
	rows := make([]web.DilemmaRow, 0, len(played))
	for i, round := range played {
		rows = append(rows, web.DilemmaRow{
			Round:    i + 1,
			Strategy: commons.Strategy(round.Strategy),
			Outcome:  commons.PlayDilemma(commons.Choice(round.You), commons.Choice(round.Partner)),
		})
	}
	if len(played) > 0 && message == "" {
		strategy = commons.Strategy(played[len(played)-1].Strategy)
	}
	render(c, status, web.Dilemma(web.DilemmaData{
		Rounds:   rows,
		Strategy: strategy,
		Classic:  classic,
		Error:    message,
	}))
}
