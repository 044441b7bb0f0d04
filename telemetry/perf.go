package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a timed section of a simulation tick.
type Phase int

// Tick phases, in execution order.
const (
	PhaseFood Phase = iota
	PhaseAgents
	PhaseCleanup
	PhaseStats

	NumPhases
)

var phaseNames = [NumPhases]string{"food", "agents", "cleanup", "stats"}

func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickTiming is the wall time of one tick and of each of its phases.
type tickTiming struct {
	total  time.Duration
	phases [NumPhases]time.Duration
}

func (t *tickTiming) add(o tickTiming, sign time.Duration) {
	t.total += sign * o.total
	for i := range t.phases {
		t.phases[i] += sign * o.phases[i]
	}
}

// PerfCollector keeps tick timings for the last N ticks and their running
// totals. All methods are no-ops on a nil collector.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int
	sum   tickTiming

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickTiming, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.current = tickTiming{}
	p.inPhase = false
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = phase >= 0 && phase < NumPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the tick and pushes it into the window, evicting the
// oldest tick once the window is full.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	if p.count == len(p.ring) {
		p.sum.add(p.ring[p.next], -1)
	} else {
		p.count++
	}
	p.ring[p.next] = p.current
	p.sum.add(p.current, 1)
	p.next = (p.next + 1) % len(p.ring)
}

// PerfStats holds aggregated performance statistics, indexed by Phase.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of average tick time, 0-100
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p == nil || p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = p.sum.total / n
	s.MinTickDuration = p.ring[0].total
	for _, t := range p.ring[:p.count] {
		s.MinTickDuration = min(s.MinTickDuration, t.total)
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
	}

	for i, d := range p.sum.phases {
		s.PhaseAvg[i] = d / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[i] = float64(s.PhaseAvg[i]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for p := Phase(0); p < NumPhases; p++ {
		if pct := s.PhasePct[p]; pct > 0.1 {
			attrs = append(attrs, p.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FoodPct     float64 `csv:"food_pct"`
	AgentsPct   float64 `csv:"agents_pct"`
	CleanupPct  float64 `csv:"cleanup_pct"`
	StatsPct    float64 `csv:"stats_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	row := PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
	}
	columns := [NumPhases]*float64{
		PhaseFood:    &row.FoodPct,
		PhaseAgents:  &row.AgentsPct,
		PhaseCleanup: &row.CleanupPct,
		PhaseStats:   &row.StatsPct,
	}
	for p, col := range columns {
		*col = s.PhasePct[p]
	}
	return row
}
