package systems

import (
	"image/color"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

// SpawnParams holds the inputs for creating a ball.
type SpawnParams struct {
	Center        vmath.Vec2
	MaxDist       float32 // spawn radius around Center
	Radius        float32
	Speed         float32 // initial velocity components in [-Speed, Speed)
	TrailCapacity int
	ColorMin      int // inclusive
	ColorMax      int // exclusive
}

// BallSpec is the full initial state of a ball.
type BallSpec struct {
	Kin   components.Kinematics
	Body  components.Body
	Spin  components.Spin
	Trail components.Trail
	Look  components.Appearance
}

// NewBallSpec draws a random ball inside the arena.
// Draw order is fixed (angle, distance, vx, vy, rotation, r, g, b) so runs are reproducible.
func NewBallSpec(rng *rand.Rand, p SpawnParams) BallSpec {
	angle := rng.Float32() * vmath.TwoPi
	dist := rng.Float32() * p.MaxDist
	pos := p.Center.Add(vmath.FromAngle(angle, dist))

	vel := vmath.Vec2{
		X: (rng.Float32()*2 - 1) * p.Speed,
		Y: (rng.Float32()*2 - 1) * p.Speed,
	}
	rotation := vmath.WrapAngle(rng.Float32() * vmath.TwoPi)

	span := p.ColorMax - p.ColorMin
	col := color.RGBA{
		R: uint8(p.ColorMin + rng.Intn(span)),
		G: uint8(p.ColorMin + rng.Intn(span)),
		B: uint8(p.ColorMin + rng.Intn(span)),
		A: 255,
	}

	return BallSpec{
		Kin:   components.Kinematics{Position: pos, Previous: pos, Velocity: vel},
		Body:  components.Body{Radius: p.Radius},
		Spin:  components.Spin{Rotation: rotation},
		Trail: components.NewTrail(p.TrailCapacity),
		Look:  components.Appearance{Color: col},
	}
}

// PopulationSystem owns ball creation and removal.
type PopulationSystem struct {
	world  *ecs.World
	mapper *ecs.Map5[
		components.Kinematics,
		components.Body,
		components.Spin,
		components.Trail,
		components.Appearance,
	]
	filter *ecs.Filter1[components.Kinematics]

	count  int
	doomed []ecs.Entity // reused between ticks
}

// NewPopulationSystem creates a new population system.
func NewPopulationSystem(w *ecs.World) *PopulationSystem {
	return &PopulationSystem{
		world: w,
		mapper: ecs.NewMap5[
			components.Kinematics,
			components.Body,
			components.Spin,
			components.Trail,
			components.Appearance,
		](w),
		filter: ecs.NewFilter1[components.Kinematics](w),
	}
}

// Count returns the number of live balls.
func (s *PopulationSystem) Count() int {
	return s.count
}

// Add creates a ball entity from spec.
func (s *PopulationSystem) Add(spec BallSpec) ecs.Entity {
	e := s.mapper.NewEntity(&spec.Kin, &spec.Body, &spec.Spin, &spec.Trail, &spec.Look)
	s.count++
	return e
}

// RemoveEscaped deletes every ball farther than sqrt(escapeSq) from center.
// Returns the number removed.
func (s *PopulationSystem) RemoveEscaped(center vmath.Vec2, escapeSq float32) int {
	// Collect first: the world is locked while a query is open
	s.doomed = s.doomed[:0]
	query := s.filter.Query()
	for query.Next() {
		kin := query.Get()
		if kin.Position.Sub(center).LengthSq() > escapeSq {
			s.doomed = append(s.doomed, query.Entity())
		}
	}

	for _, e := range s.doomed {
		s.world.RemoveEntity(e)
		s.count--
	}
	return len(s.doomed)
}

// Replenish spawns perRemoval balls for each removed one, never exceeding maxBalls.
// Spawns past the cap are dropped, not deferred. Returns the number spawned.
func (s *PopulationSystem) Replenish(rng *rand.Rand, removed, perRemoval, maxBalls int, p SpawnParams) int {
	spawned := 0
	for i := 0; i < removed*perRemoval; i++ {
		if s.count >= maxBalls {
			break
		}
		s.Add(NewBallSpec(rng, p))
		spawned++
	}
	return spawned
}
