// Package main provides CMA-ES optimization for finding simulation parameters
// that sustain an evolving population without relying on the population floor.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/neurolife/config"
	"github.com/pthm-cable/neurolife/game"
)

// EvalRecord is one row of optimize_log.csv. Parameter columns hold the
// clamped values actually simulated.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	AvgPopulation   float64 `csv:"avg_population"`
	BestFitness     float64 `csv:"best_fitness"`
	FloorReseeds    int     `csv:"floor_reseeds"`
	FoodSpawnRate   float64 `csv:"food_spawn_rate"`
	EnergyDecay     float64 `csv:"energy_decay"`
	MutationRate    float64 `csv:"mutation_rate"`
	SensorRange     float64 `csv:"sensor_range"`
	SpeedMultiplier float64 `csv:"speed_multiplier"`
}

func newEvalRecord(eval int, fitness float64, r runResult, params []float64) EvalRecord {
	return EvalRecord{
		Eval:            eval,
		Fitness:         fitness,
		AvgPopulation:   r.avgPopulation,
		BestFitness:     r.bestFitness,
		FloorReseeds:    r.floorReseeds,
		FoodSpawnRate:   params[0],
		EnergyDecay:     params[1],
		MutationRate:    params[2],
		SensorRange:     params[3],
		SpeedMultiplier: params[4],
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 5000, "Simulation length per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Engines log floor reseeds at info level; keep the console to progress lines.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	headerWritten := false
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			result := evaluator.LastResult()
			records := []EvalRecord{newEvalRecord(evalCount, fitness, result, clamped)}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(records, logFile)
			} else {
				err = gocsv.Marshal(records, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to log evaluation %d: %v", evalCount, err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: avg_pop=%.1f best_fit=%.1f reseeds=%d (best=%.2f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, result.avgPopulation, result.bestFitness, result.floorReseeds, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.2f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	if champion := evaluator.BestAgent(); champion != nil {
		if err := writeChampion(filepath.Join(*outputDir, "champion.json"), game.Summarize(champion)); err != nil {
			log.Printf("failed to write champion: %v", err)
		} else {
			fmt.Printf("Champion saved to: %s\n", filepath.Join(*outputDir, "champion.json"))
		}
	}
}

// writeChampion saves the best agent found across all evaluations.
func writeChampion(path string, champion game.AgentSummary) error {
	data, err := json.MarshalIndent(champion, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling champion: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
