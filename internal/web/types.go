package web

import (
	"tragedy-commons/internal/commons"
	"tragedy-commons/internal/db"
)

type PaginationData struct {
	BasePath   string
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type RequestValues struct {
	FirstName   string
	LastName    string
	Email       string
	Institution string
	Description string
}

type RequestFormData struct {
	Values RequestValues
	Error  string
	Flash  string
}

type InstructionsData struct {
	Game  db.GameRequest
	Test  db.GameRequest
	Flash string
}

type PasswordData struct {
	Password string
	Error    string
	Flash    string
}

type StartData struct {
	Game      db.GameRequest
	Players   []db.Player
	FirstName string
	LastName  string
	Error     string
	Flash     string
}

// HistoryRow is one line of a player's own history. Pending rows have no
// round number and no payoff yet.
type HistoryRow struct {
	EntryID       uint
	RoundNumber   int
	Cows          int
	Completed     bool
	RevenueOrLoss float64
}

type PlayerData struct {
	Game    db.GameRequest
	Player  db.Player
	Farmers int
	History []HistoryRow
	Pending *db.RoundEntry
	Results []commons.RoundResult
	Cows    string
	Error   string
	Flash   string
}

type WaitData struct {
	Game            db.GameRequest
	Player          db.Player
	Entry           db.RoundEntry
	StatusURL       string
	PlayerURL       string
	IntervalSeconds int
	MaxAttempts     int
}

type ManageData struct {
	Game        db.GameRequest
	Players     int
	Pending     int64
	Results     []commons.RoundResult
	Rounds      string
	ResultsPage string
	Error       string
	Flash       string
}

type ResultsData struct {
	Game    db.GameRequest
	Results []commons.RoundResult
}

type FarmData struct {
	Result commons.FarmResult
	Cows   string
	Error  string
}

type WhalingData struct {
	Params commons.WhalingParams
	Result commons.WhalingResult
	Boats  string
	Error  string
}

type DilemmaRow struct {
	Round    int
	Strategy commons.Strategy
	Outcome  commons.DilemmaOutcome
}

type DilemmaData struct {
	Rounds   []DilemmaRow
	Strategy commons.Strategy
	Classic  bool
	Error    string
}
