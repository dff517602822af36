package commons

const (
	// FarmPriceSlope is how much each extra cow lowers the price on a private farm.
	FarmPriceSlope = 7
	// FarmOptimalCows maximizes cows * (500 - 7*cows - 100).
	FarmOptimalCows = 29
)

type FarmRound struct {
	Round        int  `json:"round"`
	Cows         int  `json:"cows"`
	ProfitPerCow int  `json:"profit_per_cow"`
	TotalProfit  int  `json:"total_profit"`
	Optimal      bool `json:"optimal"`
}

type FarmResult struct {
	Rounds []FarmRound `json:"rounds"`
	// SolvedIn is the number of submissions it took to first reach the
	// optimum, zero while the optimum has not been found.
	SolvedIn int `json:"solved_in"`
}

// FarmAverageRevenue is the sale price per cow on a private farm; unlike the
// commons it never drops below zero.
func FarmAverageRevenue(cows int) int {
	revenue := BasePrice - FarmPriceSlope*cows
	if revenue < 0 {
		return 0
	}
	return revenue
}

// PlayFarm replays the ordered cow counts of one visitor.
func PlayFarm(history []int) FarmResult {
	result := FarmResult{Rounds: make([]FarmRound, 0, len(history))}
	for i, cows := range history {
		if cows < 0 {
			cows = 0
		}
		profit := FarmAverageRevenue(cows) - UnitCost
		round := FarmRound{
			Round:        i + 1,
			Cows:         cows,
			ProfitPerCow: profit,
			TotalProfit:  cows * profit,
			Optimal:      cows == FarmOptimalCows,
		}
		if round.Optimal && result.SolvedIn == 0 {
			result.SolvedIn = i + 1
		}
		result.Rounds = append(result.Rounds, round)
	}
	return result
}
