// Package sim owns the simulation world: the ball population, the rotating
// arena and the per-tick pipeline that advances them.
package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/systems"
	"github.com/ggielly/suicideballs/vmath"
)

// GravityMode selects the gravity field.
type GravityMode = systems.GravityMode

// Gravity modes.
const (
	GravityVertical    = systems.GravityVertical
	GravityCentripetal = systems.GravityCentripetal
)

// Phase names reported to a PhaseTimer during Advance.
const (
	PhaseIntegrate   = "integrate"
	PhaseBoundary    = "boundary"
	PhasePopulation  = "population"
	PhaseSpatialGrid = "spatial_grid"
	PhaseCollision   = "collision"
)

// PhaseTimer receives phase boundaries during Advance.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(name string)
}

// Counters holds collision and population event counts.
// Tick fields are reset at the start of every Advance; totals only grow.
type Counters struct {
	WallTick   int
	BallTick   int
	EscapeTick int
	SpawnTick  int

	WallTotal   int
	BallTotal   int
	EscapeTotal int
	SpawnTotal  int
}

// World is the simulation state. It is not safe for concurrent use.
type World struct {
	cfg *config.Config
	rng *rand.Rand

	ecs        *ecs.World
	integrator *systems.IntegratorSystem
	boundary   *systems.BoundarySystem
	population *systems.PopulationSystem
	collision  *systems.CollisionSystem
	views      *ballFilter
	timer      PhaseTimer

	center      vmath.Vec2
	circleAngle float32
	gravity     GravityMode
	bounciness  float32
	friction    float32
	toSpawn     int

	counters Counters
	tick     int32
	simTime  float64
}

// New creates a world from cfg with a single seed ball.
// cfg must have passed validation; it is not copied and must not be mutated
// while the world is in use.
func New(cfg *config.Config, seed int64) *World {
	w := ecs.NewWorld()

	world := &World{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		ecs:        w,
		integrator: systems.NewIntegratorSystem(w),
		boundary:   systems.NewBoundarySystem(w),
		population: systems.NewPopulationSystem(w),
		collision: systems.NewCollisionSystem(w,
			cfg.Derived.SimW32, cfg.Derived.SimH32, float32(cfg.Physics.GridCellSize)),
		views: ecs.NewFilter5[
			components.Kinematics,
			components.Body,
			components.Spin,
			components.Trail,
			components.Appearance,
		](w),

		center:     cfg.Derived.Center,
		gravity:    parseGravity(cfg.Physics.Gravity),
		bounciness: clamp(float32(cfg.Controls.Bounciness), float32(cfg.Controls.BouncinessMin), float32(cfg.Controls.BouncinessMax)),
		friction:   float32(cfg.Physics.Friction),
		toSpawn:    max(cfg.Population.BallsToSpawn, 1),
	}

	world.population.Add(systems.NewBallSpec(world.rng, world.spawnParams()))
	return world
}

// SetPhaseTimer installs t to receive phase boundaries during Advance.
// Pass nil to disable.
func (w *World) SetPhaseTimer(t PhaseTimer) {
	w.timer = t
}

func (w *World) spawnParams() systems.SpawnParams {
	c := w.cfg
	return systems.SpawnParams{
		Center:        w.center,
		MaxDist:       c.Derived.SpawnDist,
		Radius:        float32(c.Ball.Radius),
		Speed:         float32(c.Ball.SpawnSpeed),
		TrailCapacity: c.Ball.TrailCapacity,
		ColorMin:      c.Ball.ColorMin,
		ColorMax:      c.Ball.ColorMax,
	}
}

func (w *World) arena() systems.Arena {
	return systems.Arena{
		Center:   w.center,
		Radius:   float32(w.cfg.Arena.Radius),
		GapAngle: float32(w.cfg.Arena.GapAngle),
		Angle:    w.circleAngle,
	}
}

func (w *World) startPhase(name string) {
	if w.timer != nil {
		w.timer.StartPhase(name)
	}
}

func parseGravity(s string) GravityMode {
	if s == "centripetal" {
		return GravityCentripetal
	}
	return GravityVertical
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
