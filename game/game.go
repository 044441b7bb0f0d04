// Package game implements the artificial-life simulation engine: a toroidal
// world of neural-network-driven agents that sense, move, eat, reproduce,
// and die, one discrete tick at a time.
package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/pthm-cable/neurolife/config"
	"github.com/pthm-cable/neurolife/telemetry"
)

// Options configures a new Engine.
type Options struct {
	Config config.SimulationConfig

	// Rand is the engine's only randomness source. When nil a source seeded
	// from Seed is created.
	Rand *rand.Rand
	Seed int64

	// Optional observers. Any may be nil.
	Collector *telemetry.Collector
	Perf      *telemetry.PerfCollector
	Bookmarks *telemetry.BookmarkDetector
}

// Engine holds the complete simulation state. It is not safe for concurrent
// use; callers serialize Tick, UpdateConfig, and Initialize with the readers.
type Engine struct {
	cfg config.SimulationConfig
	rng *rand.Rand

	// Insertion order is significant: agents are processed in this order,
	// ties in sensing go to the earlier entry, and food truncation keeps the
	// oldest items.
	agents []*Agent
	food   []Food

	stats Stats
	tick  int64

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
}

// NewEngine creates an engine and populates its world.
func NewEngine(opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	e := &Engine{
		cfg:       opts.Config,
		rng:       rng,
		collector: opts.Collector,
		perf:      opts.Perf,
		bookmarks: opts.Bookmarks,
	}
	e.Initialize(opts.Config)
	return e
}

// Initialize discards the world and repopulates it: InitialPopulation
// founders with random genomes and InitialFood food items. Aggregate
// statistics and the tick counter are reset.
func (e *Engine) Initialize(cfg config.SimulationConfig) {
	e.cfg = cfg
	clear(e.agents)
	e.agents = e.agents[:0]
	e.food = e.food[:0]
	e.tick = 0

	for i := 0; i < cfg.InitialPopulation; i++ {
		e.agents = append(e.agents, e.CreateAgent(nil))
	}
	for i := 0; i < InitialFood; i++ {
		e.SpawnFood()
	}

	e.stats = Stats{Generation: 1}
	e.updateStats(0, nil)
}

// UpdateConfig replaces the configuration used by subsequent ticks. Existing
// agents and food are untouched.
func (e *Engine) UpdateConfig(cfg config.SimulationConfig) {
	e.cfg = cfg
}

// Config returns the active configuration.
func (e *Engine) Config() config.SimulationConfig {
	return e.cfg
}

// TickCount returns the number of ticks since the last Initialize.
func (e *Engine) TickCount() int64 {
	return e.tick
}

// WorldState returns a deep copy of every agent and food item. Mutating the
// result never affects the engine.
func (e *Engine) WorldState() WorldState {
	ws := WorldState{
		Agents: make([]Agent, len(e.agents)),
		Food:   make([]Food, len(e.food)),
	}
	for i, a := range e.agents {
		ws.Agents[i] = *a.Clone()
	}
	copy(ws.Food, e.food)
	return ws
}

// Stats returns a copy of the aggregate statistics from the last tick.
func (e *Engine) Stats() Stats {
	return e.stats.clone()
}

// newID draws a version 4 UUID from the engine's random source so identifiers
// are reproducible under a fixed seed. Reads from a *rand.Rand never fail.
func (e *Engine) newID() string {
	return uuid.Must(uuid.NewRandomFromReader(e.rng)).String()
}
