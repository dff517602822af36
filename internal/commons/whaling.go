package commons

import "math"

// WhalingParams are the population constants of the whaling game.
type WhalingParams struct {
	RecruitmentRate  float64
	MaxPerBoatCatch  float64
	Technology       float64
	StartPopulation  float64
	CarryingCapacity float64
	LossRate         float64
	TraineeRate      float64
	DensityReference float64
}

func DefaultWhalingParams() WhalingParams {
	return WhalingParams{
		RecruitmentRate:  0.04,
		MaxPerBoatCatch:  1,
		Technology:       1,
		StartPopulation:  400,
		CarryingCapacity: 1000,
		LossRate:         1,
		TraineeRate:      3,
		DensityReference: 1000,
	}
}

// ExtinctionPoint is the population at or below which the stock is gone.
func (p WhalingParams) ExtinctionPoint() float64 {
	return p.StartPopulation / 10
}

type WhalingYear struct {
	Year            int     `json:"year"`
	Boats           int     `json:"boats"`
	StartPopulation float64 `json:"start_population"`
	CPUE            float64 `json:"cpue"`
	Harvest         float64 `json:"harvest"`
	Lost            float64 `json:"lost"`
	Spawn           float64 `json:"spawn"`
	Trainees        float64 `json:"trainees"`
	EndPopulation   float64 `json:"end_population"`
}

type WhalingResult struct {
	Years []WhalingYear `json:"years"`
	// Extinct is set when a year drove the stock to the extinction point.
	// That year and any later submissions produce no rows.
	Extinct     bool    `json:"extinct"`
	ExtinctYear int     `json:"extinct_year,omitempty"`
	Population  float64 `json:"population"`
}

// WhalingStep advances the population by one year of boats.
func WhalingStep(p WhalingParams, population float64, boats int) WhalingYear {
	if boats < 0 {
		boats = 0
	}
	cpue := math.Min(population/p.DensityReference, p.MaxPerBoatCatch)
	harvest := p.Technology * float64(boats) * cpue
	lost := p.LossRate * harvest
	spawn := population * p.RecruitmentRate
	next := math.Min(p.CarryingCapacity, population+spawn-harvest-lost)
	return WhalingYear{
		Boats:           boats,
		StartPopulation: population,
		CPUE:            cpue,
		Harvest:         harvest,
		Lost:            lost,
		Spawn:           spawn,
		Trainees:        harvest * p.TraineeRate,
		EndPopulation:   next,
	}
}

// PlayWhaling replays the ordered boat counts of one visitor. A season
// with no boats is skipped: it adds no year and the whales do not grow.
func PlayWhaling(p WhalingParams, history []int) WhalingResult {
	result := WhalingResult{Population: p.StartPopulation}
	population := p.StartPopulation
	number := 0
	for _, boats := range history {
		if boats <= 0 {
			continue
		}
		number++
		year := WhalingStep(p, population, boats)
		year.Year = number
		if year.EndPopulation <= p.ExtinctionPoint() {
			result.Extinct = true
			result.ExtinctYear = year.Year
			result.Population = year.EndPopulation
			return result
		}
		population = year.EndPopulation
		result.Years = append(result.Years, year)
	}
	result.Population = population
	return result
}
