package telemetry

// DeathCause distinguishes why an agent died.
type DeathCause uint8

const (
	DeathStarved DeathCause = iota
	DeathAged
)

// Collector accumulates events within tick windows and produces WindowStats.
// All Record methods are no-ops on a nil Collector.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	// Event counters for current window
	births               int
	deathsStarved        int
	deathsAged           int
	replacements         int
	replacementsFromBest int
	floorReseeds         int
	foodSpawned          int
	foodEaten            int
	foodShed             int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// RecordBirth records an offspring.
func (c *Collector) RecordBirth() {
	if c == nil {
		return
	}
	c.births++
}

// RecordDeath records a death.
func (c *Collector) RecordDeath(cause DeathCause) {
	if c == nil {
		return
	}
	if cause == DeathAged {
		c.deathsAged++
	} else {
		c.deathsStarved++
	}
}

// RecordReplacement records an agent created to replace a dead one.
func (c *Collector) RecordReplacement(fromBest bool) {
	if c == nil {
		return
	}
	c.replacements++
	if fromBest {
		c.replacementsFromBest++
	}
}

// RecordFloorReseed records founders added by the population floor.
func (c *Collector) RecordFloorReseed(n int) {
	if c == nil {
		return
	}
	c.floorReseeds += n
}

// RecordFoodSpawned records a food spawn.
func (c *Collector) RecordFoodSpawned() {
	if c == nil {
		return
	}
	c.foodSpawned++
}

// RecordFoodEaten records a food item consumed.
func (c *Collector) RecordFoodEaten() {
	if c == nil {
		return
	}
	c.foodEaten++
}

// RecordFoodShed records food discarded by the cap.
func (c *Collector) RecordFoodShed(n int) {
	if c == nil {
		return
	}
	c.foodShed += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	if c == nil {
		return false
	}
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Sample is the world state observed at the end of a window.
type Sample struct {
	Tick        int64
	Population  int
	FoodCount   int
	Energies    []float64
	Generations []float64
	MaxFitness  float64
	BestFitness float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s Sample) WindowStats {
	energy := ComputeDistribution(s.Energies)
	generation := ComputeDistribution(s.Generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   s.Tick,

		Population: s.Population,
		FoodCount:  s.FoodCount,

		Births:               c.births,
		DeathsStarved:        c.deathsStarved,
		DeathsAged:           c.deathsAged,
		Replacements:         c.replacements,
		ReplacementsFromBest: c.replacementsFromBest,
		FloorReseeds:         c.floorReseeds,

		FoodSpawned: c.foodSpawned,
		FoodEaten:   c.foodEaten,
		FoodShed:    c.foodShed,

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		GenerationMean: generation.Mean,
		GenerationMax:  generation.Max,

		MaxFitness:  s.MaxFitness,
		BestFitness: s.BestFitness,
	}

	// Reset for next window
	c.windowStartTick = s.Tick
	c.births = 0
	c.deathsStarved = 0
	c.deathsAged = 0
	c.replacements = 0
	c.replacementsFromBest = 0
	c.floorReseeds = 0
	c.foodSpawned = 0
	c.foodEaten = 0
	c.foodShed = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
