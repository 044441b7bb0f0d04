package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistribution(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", []float64{}, Distribution{}},
		{"single", []float64{5}, Distribution{Mean: 5, Min: 5, Max: 5, P10: 5, P50: 5, P90: 5}},
		{"constant", []float64{2, 2, 2, 2}, Distribution{Mean: 2, Min: 2, Max: 2, P10: 2, P50: 2, P90: 2}},
		{
			"one to ten unsorted",
			[]float64{7, 3, 10, 1, 5, 9, 2, 8, 4, 6},
			Distribution{Mean: 5.5, Std: math.Sqrt(8.25), Min: 1, Max: 10, P10: 1, P50: 5, P90: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDistribution(tt.values)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("min", got.Min, tt.want.Min)
			check("max", got.Max, tt.want.Max)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestComputeDistributionLeavesInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeDistribution(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false after window elapsed")
	}

	c.RecordBirth()
	c.RecordBirth()
	c.RecordDeath(DeathStarved)
	c.RecordDeath(DeathAged)
	c.RecordDeath(DeathStarved)
	c.RecordReplacement(true)
	c.RecordReplacement(false)
	c.RecordFloorReseed(5)
	c.RecordFoodSpawned()
	c.RecordFoodEaten()
	c.RecordFoodShed(3)

	stats := c.Flush(Sample{
		Tick:        10,
		Population:  4,
		FoodCount:   12,
		Energies:    []float64{10, 20, 30, 40},
		Generations: []float64{1, 1, 2, 4},
		MaxFitness:  42,
		BestFitness: 99,
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Births != 2 || stats.DeathsStarved != 2 || stats.DeathsAged != 1 {
		t.Errorf("births/starved/aged = %d/%d/%d, want 2/2/1", stats.Births, stats.DeathsStarved, stats.DeathsAged)
	}
	if stats.Replacements != 2 || stats.ReplacementsFromBest != 1 {
		t.Errorf("replacements = %d (%d from best), want 2 (1)", stats.Replacements, stats.ReplacementsFromBest)
	}
	if stats.FloorReseeds != 5 || stats.FoodSpawned != 1 || stats.FoodEaten != 1 || stats.FoodShed != 3 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.EnergyMean != 25 {
		t.Errorf("EnergyMean = %v, want 25", stats.EnergyMean)
	}
	if stats.GenerationMean != 2 || stats.GenerationMax != 4 {
		t.Errorf("generation mean/max = %v/%v, want 2/4", stats.GenerationMean, stats.GenerationMax)
	}
	if stats.MaxFitness != 42 || stats.BestFitness != 99 {
		t.Errorf("fitness = %v/%v, want 42/99", stats.MaxFitness, stats.BestFitness)
	}

	// Counters reset and the window restarts at the flush tick
	next := c.Flush(Sample{Tick: 20})
	if next.WindowStartTick != 10 {
		t.Errorf("next window start = %d, want 10", next.WindowStartTick)
	}
	if next.Births != 0 || next.DeathsStarved != 0 || next.FoodShed != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(29) || !c.ShouldFlush(30) {
		t.Error("window did not advance after flush")
	}
}

func TestCollectorNilSafe(t *testing.T) {
	var c *Collector
	c.RecordBirth()
	c.RecordDeath(DeathAged)
	c.RecordReplacement(true)
	c.RecordFloorReseed(5)
	c.RecordFoodSpawned()
	c.RecordFoodEaten()
	c.RecordFoodShed(1)
	if c.ShouldFlush(1 << 40) {
		t.Error("nil collector should never flush")
	}
}
