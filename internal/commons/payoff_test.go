package commons

import (
	"math"
	"testing"
)

func TestSummarizeTwoFarmers(t *testing.T) {
	result := Summarize(1, []Entry{
		{PlayerID: 1, FirstName: "Ada", LastName: "Lovelace", Units: 20, ShowName: true},
		{PlayerID: 2, FirstName: "Ben", LastName: "Franklin", Units: 10},
	})

	if result.Farmers != 2 || result.TotalUnits != 30 {
		t.Fatalf("expected 2 farmers and 30 cows, got %d and %d", result.Farmers, result.TotalUnits)
	}
	if result.AverageRevenuePerUnit != 350 {
		t.Fatalf("expected average revenue 350, got %v", result.AverageRevenuePerUnit)
	}
	if result.Players[0].RevenueOrLoss != 5000 || result.Players[1].RevenueOrLoss != 2500 {
		t.Fatalf("unexpected revenues: %#v", result.Players)
	}
	if result.OptimalUnits != 40 || result.OptimalProfitPerUnit != 200 {
		t.Fatalf("unexpected optimum: units=%d profit=%v", result.OptimalUnits, result.OptimalProfitPerUnit)
	}
	if result.OptimalTotal != 8000 || result.OptimalAveragePerFarmer != 4000 {
		t.Fatalf("unexpected optimal totals: %v %v", result.OptimalTotal, result.OptimalAveragePerFarmer)
	}
	if result.Players[0].Name != "Lovelace, Ada" {
		t.Fatalf("expected disclosed name, got %q", result.Players[0].Name)
	}
	if result.Players[1].Name != "" {
		t.Fatalf("expected hidden name, got %q", result.Players[1].Name)
	}
	if result.TotalProfit != 7500 || result.AverageProfitPerFarmer != 3750 {
		t.Fatalf("unexpected totals: %v %v", result.TotalProfit, result.AverageProfitPerFarmer)
	}
}

func TestProfitPerUnitSharedAcrossPlayers(t *testing.T) {
	entries := []Entry{
		{PlayerID: 1, Units: 0},
		{PlayerID: 2, Units: 7},
		{PlayerID: 3, Units: 100},
		{PlayerID: 4, Units: 33},
	}
	result := Summarize(3, entries)
	want := 500 - (10.0/4)*140 - 100
	sum := 0.0
	for _, player := range result.Players {
		if player.ProfitPerUnit != want {
			t.Fatalf("player %d profit per unit %v, want %v", player.PlayerID, player.ProfitPerUnit, want)
		}
		sum += player.RevenueOrLoss
	}
	if math.Abs(sum-float64(result.TotalUnits)*want) > 1e-9 {
		t.Fatalf("revenues do not add up: %v vs %v", sum, float64(result.TotalUnits)*want)
	}
}

func TestAverageRevenueFormula(t *testing.T) {
	for farmers := 1; farmers <= 30; farmers++ {
		for _, total := range []int{0, 1, 19, 20, 250, 3000} {
			got := AverageRevenue(farmers, total)
			want := 500 - (10/float64(farmers))*float64(total)
			if got != want {
				t.Fatalf("farmers=%d total=%d: got %v want %v", farmers, total, got, want)
			}
		}
		if OptimalUnits(farmers) != farmers*20 {
			t.Fatalf("optimal units for %d farmers: %d", farmers, OptimalUnits(farmers))
		}
	}
}

func TestAverageRevenueIsNotFloored(t *testing.T) {
	result := Summarize(1, []Entry{{PlayerID: 1, Units: 100}})
	if result.AverageRevenuePerUnit != -500 {
		t.Fatalf("expected negative price, got %v", result.AverageRevenuePerUnit)
	}
	if result.Players[0].RevenueOrLoss != -60000 {
		t.Fatalf("expected loss, got %v", result.Players[0].RevenueOrLoss)
	}
}

func TestSummarizeCountsDistinctPlayers(t *testing.T) {
	result := Summarize(1, []Entry{
		{PlayerID: 5, Units: 10},
		{PlayerID: 5, Units: 10},
	})
	if result.Farmers != 1 {
		t.Fatalf("expected one farmer, got %d", result.Farmers)
	}
}

func TestSummarizeEmptyRound(t *testing.T) {
	result := Summarize(2, nil)
	if result.Farmers != 0 || len(result.Players) != 0 || len(result.Pasture.Segments) != 0 {
		t.Fatalf("unexpected empty round result: %#v", result)
	}
}

func TestRound2(t *testing.T) {
	if Round2(-2.5) != -2.5 {
		t.Fatalf("unexpected rounding %v", Round2(-2.5))
	}
	if Round2(3.14159) != 3.14 {
		t.Fatalf("unexpected rounding %v", Round2(3.14159))
	}
}
