package game

import "github.com/pthm-cable/neurolife/neural"

// World dimensions. The world is toroidal.
const (
	WorldWidth  = 800.0
	WorldHeight = 600.0
)

// Lifecycle and physics constants.
const (
	InitialEnergy = 100.0
	InitialFood   = 20
	MaxFood       = 50 // food beyond this many is shed, newest first
	FoodEnergy    = 30.0
	EatRadius     = 15.0

	TurnFactor        = 0.2  // brain turn output -> radians per tick
	MoveCostFactor    = 0.1  // energy per unit of speed
	EnergySensorScale = 200.0
	FitnessEnergyW    = 0.1

	ReproductionThreshold = 150.0
	BirthCost             = 60.0
	MaxAge                = 2000

	PopulationFloor  = 5
	FloorReseedCount = 5

	DefaultColor = "#10b981"
)

// Vector is a 2D position or velocity.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Agent is a mobile organism driven by its own neural network.
type Agent struct {
	ID         string          `json:"id"`
	Position   Vector          `json:"position"`
	Velocity   Vector          `json:"velocity"`
	Angle      float64         `json:"angle"` // heading in radians
	Energy     float64         `json:"energy"`
	Age        int             `json:"age"` // ticks
	Genome     *neural.Network `json:"genome"`
	Fitness    float64         `json:"fitness"`
	Generation int             `json:"generation"`
	Alive      bool            `json:"alive"`
	Color      string          `json:"color"`
}

// Clone returns a deep copy of the agent, genome included.
func (a *Agent) Clone() *Agent {
	c := *a
	if a.Genome != nil {
		c.Genome = a.Genome.Clone()
	}
	return &c
}

// Food is a stationary energy source.
type Food struct {
	ID          string  `json:"id"`
	Position    Vector  `json:"position"`
	EnergyValue float64 `json:"energy_value"`
}

// WorldState is a detached copy of the world for external readers.
type WorldState struct {
	Agents []Agent `json:"agents"`
	Food   []Food  `json:"food"`
}

// Stats holds aggregate statistics refreshed at the end of every tick.
type Stats struct {
	// Generation is never advanced by the engine; individual agents carry
	// their own lineage depth in Agent.Generation.
	Generation int     `json:"generation"`
	Population int     `json:"population"`
	MaxFitness float64 `json:"max_fitness"` // highest fitness seen in the last tick
	AvgEnergy  float64 `json:"avg_energy"`
	// BestAgent is a snapshot of the fittest agent seen so far. It is only
	// replaced when a tick produces a strictly fitter agent and may refer to
	// an agent that has since died.
	BestAgent *Agent `json:"best_agent,omitempty"`
}

// clone returns a copy of the stats with a detached best agent.
func (s Stats) clone() Stats {
	if s.BestAgent != nil {
		s.BestAgent = s.BestAgent.Clone()
	}
	return s
}
