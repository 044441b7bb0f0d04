package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Counts at window end
	Population int `csv:"population"`
	FoodCount  int `csv:"food"`

	// Lifecycle events during window
	Births               int `csv:"births"`
	DeathsStarved        int `csv:"deaths_starved"`
	DeathsAged           int `csv:"deaths_aged"`
	Replacements         int `csv:"replacements"`
	ReplacementsFromBest int `csv:"replacements_from_best"`
	FloorReseeds         int `csv:"floor_reseeds"`

	// Food events during window
	FoodSpawned int `csv:"food_spawned"`
	FoodEaten   int `csv:"food_eaten"`
	FoodShed    int `csv:"food_shed"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage depth
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  float64 `csv:"generation_max"`

	MaxFitness  float64 `csv:"max_fitness"`  // last tick
	BestFitness float64 `csv:"best_fitness"` // best ever
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64 // population standard deviation
	Min  float64
	Max  float64
	P10  float64
	P50  float64
	P90  float64
}

// ComputeDistribution calculates mean, spread, and percentiles of values.
// An empty sample yields zeros. The input is not modified.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(sorted, nil)
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("food", s.FoodCount),
		slog.Int("births", s.Births),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_aged", s.DeathsAged),
		slog.Int("replacements", s.Replacements),
		slog.Int("replacements_from_best", s.ReplacementsFromBest),
		slog.Int("floor_reseeds", s.FloorReseeds),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("food_shed", s.FoodShed),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("generation_mean", s.GenerationMean),
		slog.Float64("generation_max", s.GenerationMax),
		slog.Float64("max_fitness", s.MaxFitness),
		slog.Float64("best_fitness", s.BestFitness),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
