package sim

import (
	"math"
	"reflect"
	"testing"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/systems"
	"github.com/ggielly/suicideballs/vmath"
)

const testDT = float32(1.0 / 60)

func testConfig(t *testing.T, mutate func(c *config.Config)) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	cfg.ComputeDerived()
	return cfg
}

// clearBalls removes every ball without touching the counters.
func clearBalls(w *World) {
	w.population.RemoveEscaped(w.center, -1)
}

func addBall(w *World, pos, vel vmath.Vec2) {
	w.population.Add(systems.BallSpec{
		Kin:   components.Kinematics{Position: pos, Previous: pos, Velocity: vel},
		Body:  components.Body{Radius: float32(w.cfg.Ball.Radius)},
		Trail: components.NewTrail(w.cfg.Ball.TrailCapacity),
	})
}

func TestNew(t *testing.T) {
	cfg := testConfig(t, nil)
	w := New(cfg, 1)

	if w.BallCount() != 1 {
		t.Errorf("BallCount = %d, want 1", w.BallCount())
	}
	if w.Tick() != 0 || w.SimTime() != 0 {
		t.Errorf("tick = %d simTime = %v, want 0", w.Tick(), w.SimTime())
	}
	if w.GapAngle() != 0 {
		t.Errorf("GapAngle = %v, want 0", w.GapAngle())
	}
	if w.Gravity() != GravityVertical {
		t.Errorf("Gravity = %v, want VERTICAL", w.Gravity())
	}
	if w.Bounciness() != float32(0.9) {
		t.Errorf("Bounciness = %v, want 0.9", w.Bounciness())
	}
	if w.BallsToSpawn() != 2 {
		t.Errorf("BallsToSpawn = %d, want 2", w.BallsToSpawn())
	}

	balls := w.Balls(nil)
	if len(balls) != 1 {
		t.Fatalf("len(Balls) = %d, want 1", len(balls))
	}
	b := balls[0]
	if d := b.Position.Sub(cfg.Derived.Center).Length(); d >= cfg.Derived.SpawnDist {
		t.Errorf("seed ball %v from center, want < %v", d, cfg.Derived.SpawnDist)
	}
	if b.Radius != 15 || len(b.Trail) != 0 {
		t.Errorf("seed ball = %+v", b)
	}
}

func TestAdvanceClockAndGap(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Arena.RotationSpeed = 1.0 })
	w := New(cfg, 1)

	for i := 0; i < 10; i++ {
		w.Advance(testDT)
		if a := w.GapAngle(); a < 0 || a >= vmath.TwoPi {
			t.Fatalf("gap angle %v outside [0, 2pi)", a)
		}
	}
	if w.Tick() != 10 {
		t.Errorf("Tick = %d, want 10", w.Tick())
	}
	if math.Abs(w.SimTime()-10.0/60) > 1e-6 {
		t.Errorf("SimTime = %v, want %v", w.SimTime(), 10.0/60)
	}
	want := float32(math.Mod(10, 2*math.Pi))
	if math.Abs(float64(w.GapAngle()-want)) > 1e-4 {
		t.Errorf("GapAngle = %v, want %v", w.GapAngle(), want)
	}
}

// A ball dropped from the center falls straight down and hits the wall once.
func TestScenarioFallingBallHitsWallOnce(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Arena.RotationSpeed = 0 })
	w := New(cfg, 1)
	clearBalls(w)
	addBall(w, cfg.Derived.Center, vmath.Zero)

	for i := 0; i < 500; i++ {
		w.Advance(testDT)
		c := w.Counters()
		if c.WallTick == 0 {
			continue
		}
		if c.WallTick != 1 || c.WallTotal != 1 {
			t.Fatalf("crossing tick: WallTick = %d, WallTotal = %d, want 1 and 1", c.WallTick, c.WallTotal)
		}
		b := w.Balls(nil)[0]
		if math.Abs(float64(b.Position.X-cfg.Derived.Center.X)) > 1e-3 {
			t.Errorf("ball drifted sideways to %v", b.Position)
		}
		if b.Velocity.Y >= 0 {
			t.Errorf("ball not bouncing back: velocity %v", b.Velocity)
		}
		if d := b.Position.Sub(cfg.Derived.Center).Length(); d > 235+1e-3 {
			t.Errorf("ball left at %v from center, want <= 235", d)
		}
		return
	}
	t.Fatal("ball never reached the wall")
}

// With max_balls = 1 an escape is replaced by exactly one ball.
func TestScenarioEscapeRespectsCap(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Population.MaxBalls = 1 })
	w := New(cfg, 1)
	clearBalls(w)
	// On the gap axis, past the escape radius
	addBall(w, cfg.Derived.Center.Add(vmath.Vec2{X: 310}), vmath.Zero)

	w.Advance(testDT)

	if w.BallCount() != 1 {
		t.Errorf("BallCount = %d, want 1", w.BallCount())
	}
	c := w.Counters()
	if c.EscapeTick != 1 || c.SpawnTick != 1 {
		t.Errorf("EscapeTick = %d SpawnTick = %d, want 1 and 1", c.EscapeTick, c.SpawnTick)
	}
	if d := w.Balls(nil)[0].Position.Sub(cfg.Derived.Center).Length(); d >= cfg.Derived.SpawnDist+1 {
		t.Errorf("replacement spawned %v from center", d)
	}
}

// 40 balls, one escapes, three replacements each: 42.
func TestScenarioEscapeSpawnsReplacements(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Population.BallsToSpawn = 3 })
	w := New(cfg, 1)
	clearBalls(w)

	center := cfg.Derived.Center
	for i := 0; i < 39; i++ {
		col, row := i%7, i/7
		addBall(w, center.Add(vmath.Vec2{X: float32(col-3) * 40, Y: float32(row-3) * 40}), vmath.Zero)
	}
	addBall(w, center.Add(vmath.Vec2{X: 320}), vmath.Zero)
	if w.BallCount() != 40 {
		t.Fatalf("setup: BallCount = %d, want 40", w.BallCount())
	}

	w.Advance(testDT)

	if w.BallCount() != 42 {
		t.Errorf("BallCount = %d, want 42", w.BallCount())
	}
	c := w.Counters()
	if c.EscapeTick != 1 || c.SpawnTick != 3 || c.SpawnTotal != 3 {
		t.Errorf("counters = %+v, want 1 escape and 3 spawns", c)
	}
	if got := len(w.Balls(nil)); got != 42 {
		t.Errorf("len(Balls) = %d, want 42", got)
	}
}

func TestAdvanceKeepsSpeedCapAndPopulationCap(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) {
		c.Population.MaxBalls = 20
		c.Population.BallsToSpawn = 5
		c.Arena.GapAngle = math.Pi / 2
		c.Arena.RotationSpeed = 0.02
	})
	w := New(cfg, 99)
	w.SetBounciness(1.2)
	maxVel := float32(cfg.Physics.MaxVelocity)

	var balls []BallView
	for i := 0; i < 3000; i++ {
		if i%500 == 250 {
			w.ToggleGravity()
		}
		w.Advance(testDT)

		if n := w.BallCount(); n > cfg.Population.MaxBalls {
			t.Fatalf("tick %d: BallCount %d exceeds cap", i, n)
		}
		balls = w.Balls(balls)
		if len(balls) != w.BallCount() {
			t.Fatalf("tick %d: len(Balls) = %d, BallCount = %d", i, len(balls), w.BallCount())
		}
		for _, b := range balls {
			if s := b.Velocity.Length(); s > maxVel*(1+1e-5) {
				t.Fatalf("tick %d: speed %v exceeds %v", i, s, maxVel)
			}
			if len(b.Trail) > cfg.Ball.TrailCapacity {
				t.Fatalf("tick %d: trail length %d", i, len(b.Trail))
			}
		}
	}

	c := w.Counters()
	if c.EscapeTotal == 0 || c.WallTotal == 0 {
		t.Errorf("run exercised nothing: %+v", c)
	}
	if c.SpawnTotal+1-c.EscapeTotal != w.BallCount() {
		t.Errorf("population accounting: 1 + %d spawned - %d escaped != %d", c.SpawnTotal, c.EscapeTotal, w.BallCount())
	}
}

type worldState struct {
	Balls    []BallView
	Counters Counters
	Gap      float32
	Gravity  GravityMode
	Bounce   float32
	Spawn    int
}

func runScripted(cfg *config.Config, seed int64, ticks int) worldState {
	w := New(cfg, seed)
	for i := 0; i < ticks; i++ {
		switch i {
		case 100:
			w.ToggleGravity()
		case 200:
			w.RaiseBounciness()
			w.IncreaseSpawn()
		case 400:
			w.ToggleGravity()
			w.SetFriction(0.99)
		}
		w.Advance(testDT)
	}
	return worldState{
		Balls:    w.Balls(nil),
		Counters: w.Counters(),
		Gap:      w.GapAngle(),
		Gravity:  w.Gravity(),
		Bounce:   w.Bounciness(),
		Spawn:    w.BallsToSpawn(),
	}
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Arena.GapAngle = math.Pi / 2 })

	a := runScripted(cfg, 1234, 1500)
	b := runScripted(cfg, 1234, 1500)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed diverged:\n a counters %+v\n b counters %+v", a.Counters, b.Counters)
	}
	if a.Counters.SpawnTotal == 0 {
		t.Log("no spawns happened; determinism only covers the seed ball")
	}
}

func TestControls(t *testing.T) {
	cfg := testConfig(t, nil)
	w := New(cfg, 1)

	for i := 0; i < 20; i++ {
		w.RaiseBounciness()
	}
	if w.Bounciness() != float32(1.2) {
		t.Errorf("after raising: Bounciness = %v, want 1.2", w.Bounciness())
	}
	for i := 0; i < 40; i++ {
		w.LowerBounciness()
	}
	if w.Bounciness() != float32(0.1) {
		t.Errorf("after lowering: Bounciness = %v, want 0.1", w.Bounciness())
	}

	tests := []struct {
		in, want float32
	}{
		{0.5, 0.5},
		{5, 1.2},
		{-1, 0.1},
	}
	for _, tt := range tests {
		w.SetBounciness(tt.in)
		if w.Bounciness() != tt.want {
			t.Errorf("SetBounciness(%v) = %v, want %v", tt.in, w.Bounciness(), tt.want)
		}
	}

	w.IncreaseSpawn()
	if w.BallsToSpawn() != 3 {
		t.Errorf("BallsToSpawn = %d, want 3", w.BallsToSpawn())
	}
	for i := 0; i < 10; i++ {
		w.DecreaseSpawn()
	}
	if w.BallsToSpawn() != 1 {
		t.Errorf("BallsToSpawn = %d, want floor 1", w.BallsToSpawn())
	}

	w.ToggleGravity()
	if w.Gravity() != GravityCentripetal {
		t.Errorf("Gravity = %v, want CENTRIPETAL", w.Gravity())
	}
	w.SetGravity(GravityVertical)
	if w.Gravity() != GravityVertical {
		t.Errorf("Gravity = %v, want VERTICAL", w.Gravity())
	}

	w.SetFriction(0.9)
	if w.Friction() != 0.9 {
		t.Errorf("Friction = %v, want 0.9", w.Friction())
	}
}

type phaseRecorder struct{ names []string }

func (r *phaseRecorder) StartPhase(name string) { r.names = append(r.names, name) }

func TestPhaseTimer(t *testing.T) {
	w := New(testConfig(t, nil), 1)
	rec := &phaseRecorder{}
	w.SetPhaseTimer(rec)

	w.Advance(testDT)

	want := []string{PhaseIntegrate, PhaseBoundary, PhasePopulation, PhaseSpatialGrid, PhaseCollision}
	if !reflect.DeepEqual(rec.names, want) {
		t.Errorf("phases = %v, want %v", rec.names, want)
	}

	w.SetPhaseTimer(nil)
	w.Advance(testDT)
	if len(rec.names) != len(want) {
		t.Errorf("timer still called after removal")
	}
}

func TestBallsReusesBuffer(t *testing.T) {
	w := New(testConfig(t, nil), 1)
	for i := 0; i < 20; i++ {
		w.Advance(testDT)
	}

	first := w.Balls(nil)
	if len(first[0].Trail) == 0 {
		t.Fatal("expected a trail after 20 ticks")
	}
	trailPtr := &first[0].Trail[0]

	w.Advance(testDT)
	second := w.Balls(first)
	if &second[0] != &first[0] {
		t.Error("Balls did not reuse dst")
	}
	if &second[0].Trail[0] != trailPtr {
		t.Error("Balls did not reuse trail storage")
	}
}
