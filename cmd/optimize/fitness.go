package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/neurolife/config"
	"github.com/pthm-cable/neurolife/game"
	"github.com/pthm-cable/neurolife/telemetry"
)

// Score weights.
const (
	scoreWeightBestFitness = 0.01
	scorePenaltyReseed     = 20.0
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestAgent   *game.Agent
	lastResult  runResult // averaged over seeds from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  *baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestAgent returns the champion of the best evaluation so far.
func (fe *FitnessEvaluator) BestAgent() *game.Agent {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestAgent
}

// LastResult returns the seed-averaged run result of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// runResult holds the results from a single simulation run.
type runResult struct {
	avgPopulation float64
	bestFitness   float64
	floorReseeds  int
	bestAgent     *game.Agent
}

// score rewards a sustained population and an evolved champion and
// penalizes collapses rescued by the population floor (higher = better).
func (r runResult) score() float64 {
	return r.avgPopulation + scoreWeightBestFitness*r.bestFitness - scorePenaltyReseed*float64(r.floorReseeds)/game.FloorReseedCount
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	// Run all seeds in parallel; engines share nothing.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = runSimulation(cfg.Simulation, s, fe.maxTicks)
		}(i, seed)
	}
	wg.Wait()

	var totalScore float64
	var avg runResult
	var bestSeed *game.Agent
	for _, r := range results {
		totalScore += r.score()
		avg.avgPopulation += r.avgPopulation
		avg.bestFitness += r.bestFitness
		avg.floorReseeds += r.floorReseeds
		if r.bestAgent != nil && (bestSeed == nil || r.bestAgent.Fitness > bestSeed.Fitness) {
			bestSeed = r.bestAgent
		}
	}

	n := float64(len(fe.seeds))
	fitness := -totalScore / n
	avg.avgPopulation /= n
	avg.bestFitness /= n
	avg.floorReseeds /= len(fe.seeds)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestAgent = bestSeed
	}
	fe.lastResult = avg
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run for maxTicks ticks.
func runSimulation(sim config.SimulationConfig, seed int64, maxTicks int) runResult {
	collector := telemetry.NewCollector(maxTicks)
	engine := game.NewEngine(game.Options{
		Config:    sim,
		Seed:      seed,
		Collector: collector,
	})

	var popSum float64
	for i := 0; i < maxTicks; i++ {
		engine.Tick()
		popSum += float64(engine.Stats().Population)
	}

	window := collector.Flush(engine.Sample())
	result := runResult{
		bestFitness:  window.BestFitness,
		floorReseeds: window.FloorReseeds,
		bestAgent:    engine.Stats().BestAgent,
	}
	if maxTicks > 0 {
		result.avgPopulation = popSum / float64(maxTicks)
	}
	return result
}
