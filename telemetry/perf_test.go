package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFood)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseAgents)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseFood] <= 0 {
		t.Error("expected food phase to be tracked")
	}
	if stats.PhaseAvg[PhaseAgents] <= 0 {
		t.Error("expected agents phase to be tracked")
	}
	if stats.PhaseAvg[PhaseStats] != 0 {
		t.Error("untimed phase has a duration")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCleanup)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCleanup)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseAgents)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fastPct := stats.PhasePct[PhaseCleanup]
	slowPct := stats.PhasePct[PhaseAgents]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	for name, pc := range map[string]*PerfCollector{"empty": NewPerfCollector(10), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			pc.StartTick()
			pc.StartPhase(PhaseFood)
			if name == "nil" {
				pc.EndTick()
			}

			stats := pc.Stats()
			if stats.AvgTickDuration != 0 {
				t.Error("expected zero avg tick duration")
			}
			if stats != (PerfStats{}) {
				t.Errorf("expected zero stats, got %+v", stats)
			}
		})
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        [NumPhases]float64{PhaseAgents: 80, PhaseFood: 5, PhaseStats: 2},
		TicksPerSecond:  666,
	}

	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.AgentsPct != 80 || row.FoodPct != 5 || row.CleanupPct != 0 || row.StatsPct != 2 {
		t.Errorf("phase pct = %v/%v/%v/%v, want 80/5/0/2", row.AgentsPct, row.FoodPct, row.CleanupPct, row.StatsPct)
	}
}

func TestPerfCollector_WindowTotalsTrackRing(t *testing.T) {
	pc := NewPerfCollector(3)

	for i := 0; i < 7; i++ {
		pc.StartTick()
		pc.StartPhase(Phase(i % int(NumPhases)))
		time.Sleep(time.Duration(i+1) * 10 * time.Microsecond)
		pc.EndTick()
	}

	if pc.count != 3 {
		t.Fatalf("count = %d, want 3", pc.count)
	}
	var want tickTiming
	for _, tt := range pc.ring {
		want.add(tt, 1)
	}
	if pc.sum != want {
		t.Errorf("running totals %+v, ring totals %+v", pc.sum, want)
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseFood:    "food",
		PhaseAgents:  "agents",
		PhaseCleanup: "cleanup",
		PhaseStats:   "stats",
		NumPhases:    "unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
