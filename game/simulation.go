package game

import (
	"math"
	"slices"

	"github.com/pthm-cable/neurolife/neural"
	"github.com/pthm-cable/neurolife/telemetry"
)

// Tick advances the simulation by one step:
//  1. food regulation (spawn, then cap)
//  2. agent update, in insertion order, for every agent present at the
//     start of the tick: sense, think, act, metabolize, eat, reproduce, die
//  3. dead agent removal and population floor
//  4. aggregate statistics
//
// Agents appended during step 2 (offspring and replacements) are first
// processed on the next tick.
func (e *Engine) Tick() {
	e.perf.StartTick()
	e.tick++

	e.perf.StartPhase(telemetry.PhaseFood)
	e.regulateFood()

	e.perf.StartPhase(telemetry.PhaseAgents)
	var best *Agent
	maxFitness := 0.0
	// Forward order: when two agents can reach the same food, the earlier
	// one eats it. Iterating from the back would favor the newest agents.
	n := len(e.agents)
	for i := 0; i < n; i++ {
		a := e.agents[i]
		if !a.Alive {
			continue
		}
		e.updateAgent(a)
		if a.Fitness > maxFitness {
			maxFitness = a.Fitness
			best = a
		}
	}

	e.perf.StartPhase(telemetry.PhaseCleanup)
	e.cleanupDead()

	e.perf.StartPhase(telemetry.PhaseStats)
	e.updateStats(maxFitness, best)

	e.perf.EndTick()
}

// updateAgent runs one agent through its per-tick behavior. Fitness is fixed
// at metabolism time; eating and reproduction change energy afterwards.
func (e *Engine) updateAgent(a *Agent) {
	// Sense
	foodIdx, foodDist := e.nearestFood(a.Position)
	other, agentDist := e.nearestAgent(a)

	inputs := make([]float64, neural.NumInputs)
	inputs[0] = 1
	inputs[1] = 1
	if foodIdx >= 0 {
		inputs[1] = e.normalizeDistance(foodDist)
		f := e.food[foodIdx].Position
		inputs[2] = math.Atan2(f.Y-a.Position.Y, f.X-a.Position.X) - a.Angle
	}
	inputs[3] = a.Energy / EnergySensorScale
	inputs[4] = 1
	if other != nil {
		inputs[4] = e.normalizeDistance(agentDist)
	}
	inputs[5] = e.rng.Float64()

	// Think
	out := a.Genome.Predict(inputs)

	// Act
	speed := math.Max(0, output(out, 0)) * e.cfg.SpeedMultiplier
	if !(speed > 0) {
		speed = 0 // negative multiplier or NaN
	}
	a.Angle += output(out, 1) * TurnFactor
	a.Velocity = Vector{X: math.Cos(a.Angle) * speed, Y: math.Sin(a.Angle) * speed}
	a.Position.X = wrap(a.Position.X+a.Velocity.X, WorldWidth)
	a.Position.Y = wrap(a.Position.Y+a.Velocity.Y, WorldHeight)

	// Metabolize
	a.Energy -= e.cfg.EnergyDecay + speed*MoveCostFactor
	a.Age++
	a.Fitness = float64(a.Age) + FitnessEnergyW*a.Energy

	// Eat, using the distance sensed before moving
	if foodIdx >= 0 && foodDist < EatRadius {
		a.Energy += e.food[foodIdx].EnergyValue
		e.food = slices.Delete(e.food, foodIdx, foodIdx+1)
		e.collector.RecordFoodEaten()
	}

	// Reproduce
	if a.Energy > ReproductionThreshold {
		a.Energy -= BirthCost
		child := e.CreateAgent(a)
		child.Position = a.Position
		e.agents = append(e.agents, child)
		e.collector.RecordBirth()
	}

	// Die, and replace
	if a.Energy <= 0 || a.Age > MaxAge {
		a.Alive = false
		cause := telemetry.DeathStarved
		if a.Energy > 0 {
			cause = telemetry.DeathAged
		}
		e.collector.RecordDeath(cause)

		e.agents = append(e.agents, e.CreateAgent(e.stats.BestAgent))
		e.collector.RecordReplacement(e.stats.BestAgent != nil)
	}
}

// updateStats refreshes the aggregates over the current population. The best
// agent snapshot is replaced only by a strictly fitter candidate.
func (e *Engine) updateStats(maxFitness float64, best *Agent) {
	avgEnergy := 0.0
	if len(e.agents) > 0 {
		total := 0.0
		for _, a := range e.agents {
			total += a.Energy
		}
		avgEnergy = total / float64(len(e.agents))
	}

	bestAgent := e.stats.BestAgent
	if best != nil && (bestAgent == nil || best.Fitness > bestAgent.Fitness) {
		bestAgent = best.Clone()
	}

	e.stats = Stats{
		Generation: e.stats.Generation,
		Population: len(e.agents),
		MaxFitness: maxFitness,
		AvgEnergy:  avgEnergy,
		BestAgent:  bestAgent,
	}
}

// output returns out[i], or 0 when the network has fewer outputs.
func output(out []float64, i int) float64 {
	if i < len(out) {
		return out[i]
	}
	return 0
}
