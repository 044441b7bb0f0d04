package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/neurolife/neural"
)

// CreateAgent builds a new agent at a random position with a random heading
// and full starting energy. With a parent the genome is a mutated copy of the
// parent's and the agent inherits its lineage color one generation deeper;
// without one it is a generation 1 founder with a fresh random genome.
// The agent is not added to the world.
func (e *Engine) CreateAgent(parent *Agent) *Agent {
	x := e.rng.Float64() * WorldWidth
	y := e.rng.Float64() * WorldHeight

	generation := 1
	color := DefaultColor
	var genome *neural.Network
	if parent != nil && parent.Genome != nil {
		genome = parent.Genome.Mutate(e.rng, e.cfg.MutationRate)
		generation = parent.Generation + 1
		color = parent.Color
	} else {
		genome = neural.Random(e.rng, neural.DefaultShape)
	}

	return &Agent{
		ID:         e.newID(),
		Position:   Vector{X: x, Y: y},
		Angle:      e.rng.Float64() * 2 * math.Pi,
		Energy:     InitialEnergy,
		Genome:     genome,
		Generation: generation,
		Alive:      true,
		Color:      color,
	}
}

// SpawnFood appends one food item at a uniformly random position.
func (e *Engine) SpawnFood() {
	e.food = append(e.food, Food{
		ID:          e.newID(),
		Position:    Vector{X: e.rng.Float64() * WorldWidth, Y: e.rng.Float64() * WorldHeight},
		EnergyValue: FoodEnergy,
	})
}

// regulateFood spawns at most one food item with probability FoodSpawnRate,
// then sheds the newest items beyond MaxFood.
func (e *Engine) regulateFood() {
	if e.rng.Float64() < e.cfg.FoodSpawnRate {
		e.SpawnFood()
		e.collector.RecordFoodSpawned()
	}
	if n := len(e.food); n > MaxFood {
		clear(e.food[MaxFood:])
		e.food = e.food[:MaxFood]
		e.collector.RecordFoodShed(n - MaxFood)
	}
}

// cleanupDead removes dead agents, preserving the order of the survivors,
// then reseeds founders if the population fell below the floor.
func (e *Engine) cleanupDead() {
	alive := e.agents[:0]
	for _, a := range e.agents {
		if a.Alive {
			alive = append(alive, a)
		}
	}
	clear(e.agents[len(alive):])
	e.agents = alive

	if before := len(e.agents); before < PopulationFloor {
		for i := 0; i < FloorReseedCount; i++ {
			e.agents = append(e.agents, e.CreateAgent(nil))
		}
		e.collector.RecordFloorReseed(FloorReseedCount)

		slog.Info("population_floor_reseed",
			"tick", e.tick,
			"population_before", before,
			"reseeded_count", FloorReseedCount,
		)
	}
}
