package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sim := cfg.Simulation
	if sim.InitialPopulation != 40 {
		t.Errorf("initial_population = %d, want 40", sim.InitialPopulation)
	}
	if sim.FoodSpawnRate != 0.08 {
		t.Errorf("food_spawn_rate = %v, want 0.08", sim.FoodSpawnRate)
	}
	if sim.MutationRate != 0.1 {
		t.Errorf("mutation_rate = %v, want 0.1", sim.MutationRate)
	}
	if sim.EnergyDecay != 0.3 {
		t.Errorf("energy_decay = %v, want 0.3", sim.EnergyDecay)
	}
	if sim.SensorRange != 80 {
		t.Errorf("sensor_range = %v, want 80", sim.SensorRange)
	}
	if sim.SpeedMultiplier != 2 {
		t.Errorf("speed_multiplier = %v, want 2", sim.SpeedMultiplier)
	}
	if cfg.Telemetry.StatsWindow <= 0 {
		t.Errorf("stats_window = %d, want > 0", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("simulation:\n  sensor_range: 120\n  initial_population: 12\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.SensorRange != 120 {
		t.Errorf("sensor_range = %v, want 120", cfg.Simulation.SensorRange)
	}
	if cfg.Simulation.InitialPopulation != 12 {
		t.Errorf("initial_population = %d, want 12", cfg.Simulation.InitialPopulation)
	}
	// Untouched fields keep defaults
	if cfg.Simulation.EnergyDecay != 0.3 {
		t.Errorf("energy_decay = %v, want default 0.3", cfg.Simulation.EnergyDecay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("simulation: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Simulation.SpeedMultiplier = 4.5
	cfg.Run.Seed = 99

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", *loaded, *cfg)
	}
}
