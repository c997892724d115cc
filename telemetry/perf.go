package telemetry

import (
	"log/slog"
	"time"

	"github.com/ggielly/suicideballs/sim"
)

// Phase names for the simulation step, in pipeline order. PhaseOther
// collects time from any name the collector does not know.
const (
	PhaseIntegrate   = sim.PhaseIntegrate
	PhaseBoundary    = sim.PhaseBoundary
	PhasePopulation  = sim.PhasePopulation
	PhaseSpatialGrid = sim.PhaseSpatialGrid
	PhaseCollision   = sim.PhaseCollision
	PhaseTelemetry   = "telemetry"
	PhaseOther       = "other"
)

// Phases lists every phase slot in pipeline order.
var Phases = [...]string{
	PhaseIntegrate, PhaseBoundary, PhasePopulation,
	PhaseSpatialGrid, PhaseCollision, PhaseTelemetry, PhaseOther,
}

const numPhases = len(Phases)

var phaseSlot = func() map[string]int {
	m := make(map[string]int, numPhases)
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

func slotOf(name string) int {
	if i, ok := phaseSlot[name]; ok {
		return i
	}
	return phaseSlot[PhaseOther]
}

var _ sim.PhaseTimer = (*PerfCollector)(nil)

// tickTiming is the wall time of one tick split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
	seen   [numPhases]bool
}

// PerfCollector times ticks over a rolling window of the last N ticks.
// Phase sums are maintained incrementally as ticks enter and leave the ring.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	sum     [numPhases]time.Duration
	seen    [numPhases]int
	sumTick time.Duration

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 outside a phase

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last window ticks (60 if window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window), phase: -1}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.phase = -1
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and opens name.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = slotOf(name)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase < 0 {
		return
	}
	p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	p.cur.seen[p.phase] = true
}

// EndTick closes the tick and pushes it into the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.total = now.Sub(p.tickStart)

	if p.count == len(p.ring) {
		p.account(&p.ring[p.next], -1)
	} else {
		p.count++
	}
	p.ring[p.next] = p.cur
	p.account(&p.cur, 1)
	p.next = (p.next + 1) % len(p.ring)
}

func (p *PerfCollector) account(t *tickTiming, sign int) {
	p.sumTick += time.Duration(sign) * t.total
	for i := range t.phases {
		p.sum[i] += time.Duration(sign) * t.phases[i]
		if t.seen[i] {
			p.seen[i] += sign
		}
	}
}

// RecordFrame marks a rendered frame; the gap since the last call is the
// frame duration.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average duration and share of the average tick, keyed by
	// phase name. Phases never entered in the window are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = p.sumTick / n
	s.MinTickDuration, s.MaxTickDuration = p.ring[0].total, p.ring[0].total
	for _, t := range p.ring[1:p.count] {
		s.MinTickDuration = min(s.MinTickDuration, t.total)
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
	}

	for i, name := range Phases {
		if p.seen[i] == 0 {
			continue
		}
		avg := p.sum[i] / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the summary at info level. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, name+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	IntegratePct   float64 `csv:"integrate_pct"`
	BoundaryPct    float64 `csv:"boundary_pct"`
	PopulationPct  float64 `csv:"population_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	CollisionPct   float64 `csv:"collision_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	OtherPct       float64 `csv:"other_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		IntegratePct:   pct[PhaseIntegrate],
		BoundaryPct:    pct[PhaseBoundary],
		PopulationPct:  pct[PhasePopulation],
		SpatialGridPct: pct[PhaseSpatialGrid],
		CollisionPct:   pct[PhaseCollision],
		TelemetryPct:   pct[PhaseTelemetry],
		OtherPct:       pct[PhaseOther],
	}
}
