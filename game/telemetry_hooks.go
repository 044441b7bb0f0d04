package game

import (
	"log/slog"

	"github.com/pthm-cable/neurolife/neural"
	"github.com/pthm-cable/neurolife/telemetry"
)

// Sample captures the world for a telemetry window flush.
func (e *Engine) Sample() telemetry.Sample {
	energies := make([]float64, len(e.agents))
	generations := make([]float64, len(e.agents))
	for i, a := range e.agents {
		energies[i] = a.Energy
		generations[i] = float64(a.Generation)
	}

	var bestFitness float64
	if e.stats.BestAgent != nil {
		bestFitness = e.stats.BestAgent.Fitness
	}

	return telemetry.Sample{
		Tick:        e.tick,
		Population:  len(e.agents),
		FoodCount:   len(e.food),
		Energies:    energies,
		Generations: generations,
		MaxFitness:  e.stats.MaxFitness,
		BestFitness: bestFitness,
	}
}

// FlushTelemetry flushes the collector window when it has elapsed, logging
// and writing the window and any bookmarks it triggers through om. It returns
// true if a window was flushed.
func (e *Engine) FlushTelemetry(om *telemetry.OutputManager, logStats bool) bool {
	if !e.collector.ShouldFlush(e.tick) {
		return false
	}

	stats := e.collector.Flush(e.Sample())
	perfStats := e.perf.Stats()

	if logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := om.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := om.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range e.bookmarks.Check(stats) {
		if logStats {
			bm.LogBookmark()
		}
		if err := om.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
	return true
}

// AgentSummary is a compact description of an agent and its genome.
type AgentSummary struct {
	ID         string             `json:"id"`
	Generation int                `json:"generation"`
	Age        int                `json:"age"`
	Energy     float64            `json:"energy"`
	Fitness    float64            `json:"fitness"`
	Color      string             `json:"color"`
	Shape      neural.Shape       `json:"shape"`
	Weights    neural.WeightStats `json:"weights"`
	Genome     *neural.Network    `json:"genome,omitempty"`
}

// Summarize describes a, including a copy of its genome.
func Summarize(a *Agent) AgentSummary {
	s := AgentSummary{
		ID:         a.ID,
		Generation: a.Generation,
		Age:        a.Age,
		Energy:     a.Energy,
		Fitness:    a.Fitness,
		Color:      a.Color,
	}
	if a.Genome != nil {
		s.Shape = a.Genome.Shape()
		s.Weights = a.Genome.WeightStats()
		s.Genome = a.Genome.Clone()
	}
	return s
}
