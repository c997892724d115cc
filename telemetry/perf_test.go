package telemetry

import (
	"testing"
	"time"
)

// runTick times one tick made of the given phases, sleeping d in each.
func runTick(pc *PerfCollector, phases []string, d time.Duration) {
	pc.StartTick()
	for _, name := range phases {
		pc.StartPhase(name)
		if d > 0 {
			time.Sleep(d)
		}
	}
	pc.EndTick()
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 4; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase(PhaseCollision)
		time.Sleep(300 * time.Microsecond)
		pc.EndTick()
	}

	s := pc.Stats()
	if s.AvgTickDuration <= 0 || s.TicksPerSecond <= 0 {
		t.Fatalf("avg %v, tps %v", s.AvgTickDuration, s.TicksPerSecond)
	}
	if len(s.PhaseAvg) != 2 {
		t.Errorf("timed phases = %v, want integrate and collision", s.PhaseAvg)
	}
	if s.PhasePct[PhaseCollision] <= s.PhasePct[PhaseIntegrate] {
		t.Errorf("collision %.1f%% should dominate integrate %.1f%%",
			s.PhasePct[PhaseCollision], s.PhasePct[PhaseIntegrate])
	}
	if s.MinTickDuration > s.AvgTickDuration || s.AvgTickDuration > s.MaxTickDuration {
		t.Errorf("min %v avg %v max %v out of order", s.MinTickDuration, s.AvgTickDuration, s.MaxTickDuration)
	}
}

func TestPerfCollectorUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(4)
	runTick(pc, []string{"warmup"}, 0)

	s := pc.Stats()
	if _, ok := s.PhaseAvg["warmup"]; ok {
		t.Error("unknown phase should not get its own slot")
	}
	if _, ok := s.PhaseAvg[PhaseOther]; !ok {
		t.Error("unknown phase should be timed as other")
	}
}

func TestPerfCollectorWindowEviction(t *testing.T) {
	pc := NewPerfCollector(3)

	// Fill the window with boundary ticks, then push them all out.
	for i := 0; i < 3; i++ {
		runTick(pc, []string{PhaseBoundary}, 0)
	}
	if _, ok := pc.Stats().PhaseAvg[PhaseBoundary]; !ok {
		t.Fatal("boundary should be timed while in the window")
	}
	for i := 0; i < 3; i++ {
		runTick(pc, []string{PhaseSpatialGrid}, 0)
	}

	s := pc.Stats()
	if _, ok := s.PhaseAvg[PhaseBoundary]; ok {
		t.Error("boundary should have left the window")
	}
	if _, ok := s.PhaseAvg[PhaseSpatialGrid]; !ok {
		t.Error("spatial grid should be timed")
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	for _, window := range []int{0, -3, 10} {
		s := NewPerfCollector(window).Stats()
		if s.AvgTickDuration != 0 || s.TicksPerSecond != 0 {
			t.Errorf("window %d: empty collector reported %+v", window, s)
		}
		if s.PhaseAvg == nil || s.PhasePct == nil {
			t.Errorf("window %d: maps should be non-nil", window)
		}
	}
}

func TestPerfCollectorFrames(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	if s := pc.Stats(); s.FPS != 0 {
		t.Errorf("single frame gave fps %v", s.FPS)
	}
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration < 15*time.Millisecond {
		t.Errorf("frame duration %v, want >= 15ms", s.FrameDuration)
	}
	if s.FPS <= 0 || s.FPS > 70 {
		t.Errorf("fps %v out of range", s.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		MaxTickDuration: 900 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseIntegrate: 10,
			PhaseCollision: 60,
			PhaseOther:     1,
		},
	}

	rec := s.ToCSV(600)
	if rec.WindowEnd != 600 || rec.AvgTickUS != 250 || rec.MaxTickUS != 900 {
		t.Errorf("timing fields: %+v", rec)
	}
	if rec.IntegratePct != 10 || rec.CollisionPct != 60 || rec.OtherPct != 1 || rec.BoundaryPct != 0 {
		t.Errorf("phase percentages: %+v", rec)
	}
}
