package sim

import (
	"math"

	"github.com/ggielly/suicideballs/systems"
	"github.com/ggielly/suicideballs/vmath"
)

// Advance runs one fixed tick.
//
// Order: rotate the gap, integrate, resolve the wall, remove escaped balls
// and respawn, rebuild the grid, resolve ball contacts, clamp speeds.
// dt only advances the simulation clock; motion is in per-tick units.
func (w *World) Advance(dt float32) {
	c := w.cfg
	w.counters.WallTick = 0
	w.counters.BallTick = 0
	w.counters.EscapeTick = 0
	w.counters.SpawnTick = 0

	w.circleAngle = vmath.WrapAngle(w.circleAngle + float32(c.Arena.RotationSpeed))

	maxVel := float32(c.Physics.MaxVelocity)

	w.startPhase(PhaseIntegrate)
	w.integrator.Update(systems.IntegrateParams{
		Gravity:            w.gravity,
		Center:             w.center,
		VerticalGravity:    float32(c.Physics.VerticalGravity),
		CentripetalGravity: float32(c.Physics.CentripetalGravity),
		Friction:           w.friction,
		MaxVelocity:        maxVel,
		AngularFriction:    float32(c.Physics.AngularFriction),
	})

	w.startPhase(PhaseBoundary)
	wall := w.boundary.Update(w.arena(), w.bounciness, float32(c.Physics.WallSpinTransfer))
	w.counters.WallTick = wall
	w.counters.WallTotal += wall

	w.startPhase(PhasePopulation)
	escaped := w.population.RemoveEscaped(w.center, c.Derived.EscapeSq)
	spawned := w.population.Replenish(w.rng, escaped, w.toSpawn, c.Population.MaxBalls, w.spawnParams())
	w.counters.EscapeTick = escaped
	w.counters.EscapeTotal += escaped
	w.counters.SpawnTick = spawned
	w.counters.SpawnTotal += spawned

	w.startPhase(PhaseSpatialGrid)
	w.collision.Rebuild()

	w.startPhase(PhaseCollision)
	hits := w.collision.Resolve(systems.ResponseParams{
		Restitution:  float32(math.Sqrt(float64(w.bounciness))),
		SpinTransfer: float32(c.Physics.ContactSpinTransfer),
	})
	w.counters.BallTick = hits
	w.counters.BallTotal += hits
	w.collision.ClampSpeeds(maxVel)

	w.tick++
	w.simTime += float64(dt)
}
