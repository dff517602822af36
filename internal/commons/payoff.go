// Package commons holds the arithmetic behind the commons games: the shared
// price of a multiplayer round, its collective optimum, the pasture picture,
// and the single-player calculators.
package commons

import "math"

const (
	BasePrice              = 500
	ExternalityCoefficient = 10
	UnitCost               = 100
)

// Entry is one closed round row as the engine sees it.
type Entry struct {
	PlayerID  uint
	FirstName string
	LastName  string
	Units     int
	ShowName  bool
}

type PlayerResult struct {
	PlayerID      uint    `json:"player_id"`
	Name          string  `json:"name"`
	Units         int     `json:"units"`
	RevenueOrLoss float64 `json:"revenue_or_loss"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
}

// RoundResult is everything the results page shows for one round.
type RoundResult struct {
	RoundNumber             int            `json:"round_number"`
	Farmers                 int            `json:"farmers"`
	TotalUnits              int            `json:"total_units"`
	AverageRevenuePerUnit   float64        `json:"average_revenue_per_unit"`
	ProfitPerUnit           float64        `json:"profit_per_unit"`
	TotalProfit             float64        `json:"total_profit"`
	AverageProfitPerFarmer  float64        `json:"average_profit_per_farmer"`
	OptimalUnits            int            `json:"optimal_units"`
	OptimalProfitPerUnit    float64        `json:"optimal_profit_per_unit"`
	OptimalTotal            float64        `json:"optimal_total"`
	OptimalAveragePerFarmer float64        `json:"optimal_average_per_farmer"`
	Players                 []PlayerResult `json:"players"`
	Pasture                 Pasture        `json:"pasture"`
}

// AverageRevenue is the price every cow on the commons fetches. It is not
// floored: an overgrazed commons yields a negative price.
func AverageRevenue(farmers, totalUnits int) float64 {
	if farmers <= 0 {
		return BasePrice
	}
	return BasePrice - (float64(ExternalityCoefficient)/float64(farmers))*float64(totalUnits)
}

func ProfitPerUnit(farmers, totalUnits int) float64 {
	return AverageRevenue(farmers, totalUnits) - UnitCost
}

func Revenue(units, farmers, totalUnits int) float64 {
	return float64(units) * ProfitPerUnit(farmers, totalUnits)
}

func OptimalUnits(farmers int) int {
	return farmers * 2 * ExternalityCoefficient
}

func OptimalProfitPerUnit() float64 {
	return float64(BasePrice-UnitCost) / 2
}

// Summarize aggregates the rows of one closed round. Entries keep their input
// order; names are filled only for rows that disclose them.
func Summarize(roundNumber int, entries []Entry) RoundResult {
	seen := make(map[uint]struct{}, len(entries))
	total := 0
	for _, entry := range entries {
		seen[entry.PlayerID] = struct{}{}
		total += entry.Units
	}
	farmers := len(seen)

	result := RoundResult{
		RoundNumber:          roundNumber,
		Farmers:              farmers,
		TotalUnits:           total,
		OptimalUnits:         OptimalUnits(farmers),
		OptimalProfitPerUnit: OptimalProfitPerUnit(),
		Players:              make([]PlayerResult, 0, len(entries)),
	}
	result.OptimalTotal = result.OptimalProfitPerUnit * float64(result.OptimalUnits)
	result.OptimalAveragePerFarmer = result.OptimalProfitPerUnit * 2 * ExternalityCoefficient
	if farmers == 0 {
		result.AverageRevenuePerUnit = BasePrice
		result.ProfitPerUnit = BasePrice - UnitCost
		result.Pasture = BuildPasture(0, 0, 0)
		return result
	}

	result.AverageRevenuePerUnit = AverageRevenue(farmers, total)
	result.ProfitPerUnit = result.AverageRevenuePerUnit - UnitCost
	result.TotalProfit = float64(total) * result.ProfitPerUnit
	result.AverageProfitPerFarmer = result.TotalProfit / float64(farmers)
	for _, entry := range entries {
		name := ""
		if entry.ShowName {
			name = DisplayName(entry.FirstName, entry.LastName)
		}
		result.Players = append(result.Players, PlayerResult{
			PlayerID:      entry.PlayerID,
			Name:          name,
			Units:         entry.Units,
			RevenueOrLoss: float64(entry.Units) * result.ProfitPerUnit,
			ProfitPerUnit: result.ProfitPerUnit,
		})
	}
	result.Pasture = BuildPasture(total, result.OptimalUnits, farmers)
	return result
}

// DisplayName renders a disclosed player as "Last, First".
func DisplayName(first, last string) string {
	switch {
	case last == "":
		return first
	case first == "":
		return last
	}
	return last + ", " + first
}

// Round2 rounds to cents for display.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
