package commons

import (
	"math"
	"reflect"
	"testing"
)

func TestWhalingFirstYear(t *testing.T) {
	year := WhalingStep(DefaultWhalingParams(), 400, 50)
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"cpue", year.CPUE, 0.4},
		{"harvest", year.Harvest, 20},
		{"lost", year.Lost, 20},
		{"spawn", year.Spawn, 16},
		{"population", year.EndPopulation, 376},
		{"trainees", year.Trainees, 60},
	}
	for _, check := range checks {
		if math.Abs(check.got-check.want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", check.name, check.got, check.want)
		}
	}
}

func TestWhalingCapsAtCarryingCapacity(t *testing.T) {
	params := DefaultWhalingParams()
	year := WhalingStep(params, 990, 0)
	if year.EndPopulation != params.CarryingCapacity {
		t.Fatalf("expected population capped at %v, got %v", params.CarryingCapacity, year.EndPopulation)
	}
	full := WhalingStep(params, 1500, 1)
	if full.CPUE != params.MaxPerBoatCatch {
		t.Fatalf("expected catch per boat capped at %v, got %v", params.MaxPerBoatCatch, full.CPUE)
	}
}

func TestPlayWhalingIsReplayExact(t *testing.T) {
	history := []int{50, 10, 1, 30, 5, 12}
	first := PlayWhaling(DefaultWhalingParams(), history)
	second := PlayWhaling(DefaultWhalingParams(), history)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replays differ:\n%#v\n%#v", first, second)
	}
	if len(first.Years) != len(history) {
		t.Fatalf("expected %d years, got %d", len(history), len(first.Years))
	}
	for i, year := range first.Years {
		if year.Year != i+1 || year.Boats != history[i] {
			t.Fatalf("unexpected year %d: %#v", i, year)
		}
		if i > 0 && year.StartPopulation != first.Years[i-1].EndPopulation {
			t.Fatalf("year %d does not continue from the previous year", year.Year)
		}
	}
}

func TestPlayWhalingStopsAtExtinction(t *testing.T) {
	result := PlayWhaling(DefaultWhalingParams(), []int{50, 600, 10, 10})
	if !result.Extinct {
		t.Fatal("expected extinction")
	}
	if result.ExtinctYear != 2 {
		t.Fatalf("expected extinction in year 2, got %d", result.ExtinctYear)
	}
	if len(result.Years) != 1 {
		t.Fatalf("expected rows to stop before the extinct year, got %d", len(result.Years))
	}
	if result.Population > DefaultWhalingParams().ExtinctionPoint() {
		t.Fatalf("expected population at or below the extinction point, got %v", result.Population)
	}
}

func TestPlayWhalingSkipsIdleSeasons(t *testing.T) {
	params := DefaultWhalingParams()
	idle := PlayWhaling(params, []int{0, 50, 0, 0, 10})
	busy := PlayWhaling(params, []int{50, 10})
	if !reflect.DeepEqual(idle, busy) {
		t.Fatalf("expected seasons without boats to be skipped:\n%#v\n%#v", idle, busy)
	}
	if len(idle.Years) != 2 || idle.Years[1].Year != 2 {
		t.Fatalf("expected two numbered years, got %#v", idle.Years)
	}
	if start := PlayWhaling(params, []int{0}); start.Population != params.StartPopulation || len(start.Years) != 0 {
		t.Fatalf("expected an idle first season to leave the sea untouched, got %#v", start)
	}
}
