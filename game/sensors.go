package game

import "math"

// nearestFood returns the index of the closest food item and its distance,
// or -1 when there is no food. Ties go to the earlier item.
func (e *Engine) nearestFood(p Vector) (int, float64) {
	idx := -1
	bestSq := math.Inf(1)
	for i := range e.food {
		if d := distSq(p, e.food[i].Position); d < bestSq {
			bestSq = d
			idx = i
		}
	}
	if idx < 0 {
		return -1, math.Inf(1)
	}
	return idx, math.Sqrt(bestSq)
}

// nearestAgent returns the closest other living agent and its distance, or
// nil when there is none. Ties go to the earlier agent.
func (e *Engine) nearestAgent(self *Agent) (*Agent, float64) {
	var nearest *Agent
	bestSq := math.Inf(1)
	for _, other := range e.agents {
		if other == self || !other.Alive {
			continue
		}
		if d := distSq(self.Position, other.Position); d < bestSq {
			bestSq = d
			nearest = other
		}
	}
	if nearest == nil {
		return nil, math.Inf(1)
	}
	return nearest, math.Sqrt(bestSq)
}

// normalizeDistance scales a sensed distance by the sensor range. A
// non-positive range senses nothing and reads as the "far" value 1.
func (e *Engine) normalizeDistance(d float64) float64 {
	if !(e.cfg.SensorRange > 0) {
		return 1
	}
	return d / e.cfg.SensorRange
}

// distSq is the straight-line squared distance. Sensing does not look across
// the world edges.
func distSq(a, b Vector) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
