// Package main provides CMA-ES optimization for simulation parameters.
package main

import (
	"github.com/pthm-cable/neurolife/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// InitialPopulation is left to the base config.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "food_spawn_rate", Path: "simulation.food_spawn_rate", Min: 0.01, Max: 0.5, Default: 0.08},
			{Name: "energy_decay", Path: "simulation.energy_decay", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "mutation_rate", Path: "simulation.mutation_rate", Min: 0.0, Max: 0.5, Default: 0.1},
			{Name: "sensor_range", Path: "simulation.sensor_range", Min: 20, Max: 300, Default: 80},
			{Name: "speed_multiplier", Path: "simulation.speed_multiplier", Min: 0.5, Max: 6, Default: 2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		if field := simulationField(&cfg.Simulation, spec.Path); field != nil {
			*field = clamped[i]
		}
	}
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		if field := simulationField(&cfg.Simulation, spec.Path); field != nil {
			v[i] = *field
		}
	}
	return v
}

// simulationField maps a config path to the field it names.
func simulationField(sim *config.SimulationConfig, path string) *float64 {
	switch path {
	case "simulation.food_spawn_rate":
		return &sim.FoodSpawnRate
	case "simulation.energy_decay":
		return &sim.EnergyDecay
	case "simulation.mutation_rate":
		return &sim.MutationRate
	case "simulation.sensor_range":
		return &sim.SensorRange
	case "simulation.speed_multiplier":
		return &sim.SpeedMultiplier
	}
	return nil
}
