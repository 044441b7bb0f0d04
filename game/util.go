package game

import "math"

// wrap teleports a coordinate that left [0, size] to the opposite edge.
// Positions move at most a few units per tick so a single correction suffices.
func wrap(v, size float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return size
	case v > size:
		return 0
	}
	return v
}
