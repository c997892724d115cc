package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

// Contact describes an overlap between two balls.
type Contact struct {
	Normal  vmath.Vec2 // unit vector from B to A
	Overlap float32    // half the penetration depth
}

// CheckCollision is the narrow-phase test between two circles.
// Exactly coincident centers are not a collision (no usable normal).
func CheckCollision(pa vmath.Vec2, ra float32, pb vmath.Vec2, rb float32) (Contact, bool) {
	axis := pa.Sub(pb)
	distSq := axis.LengthSq()
	total := ra + rb

	if distSq >= total*total || distSq <= 0 {
		return Contact{}, false
	}

	dist := float32(math.Sqrt(float64(distSq)))
	return Contact{
		Normal:  axis.Div(dist),
		Overlap: 0.5 * (total - dist),
	}, true
}

// BallRef gives indexed access to one ball's components for pairwise updates.
// Pointers stay valid until the next structural change of the ECS world.
type BallRef struct {
	Kin  *components.Kinematics
	Body *components.Body
	Spin *components.Spin
}

// ResponseParams holds the collision response coefficients.
type ResponseParams struct {
	Restitution  float32 // sqrt(bounciness), applied to both balls
	SpinTransfer float32 // tangential contact velocity -> spin
}

// ResolveCollision separates balls i and j and exchanges momentum along the contact normal.
func ResolveCollision(balls []BallRef, i, j int, c Contact, p ResponseParams) {
	if i == j {
		return
	}
	a, b := balls[i], balls[j]
	n := c.Normal

	a.Kin.Position = a.Kin.Position.Add(n.Scale(c.Overlap))
	b.Kin.Position = b.Kin.Position.Sub(n.Scale(c.Overlap))

	v1 := a.Kin.Velocity
	v2 := b.Kin.Velocity
	m1 := a.Body.Mass()
	m2 := b.Body.Mass()

	// Friction at the contact point spins the balls in opposite directions.
	// Uses the approach velocities, before the bounciness scaling below.
	tangent := n.Perp()
	relTangential := v1.Sub(v2).Dot(tangent)
	a.Spin.AngularVelocity += relTangential * p.SpinTransfer / a.Body.Radius
	b.Spin.AngularVelocity -= relTangential * p.SpinTransfer / b.Body.Radius

	// 1-D elastic collision along the normal
	v1n := v1.Dot(n)
	v2n := v2.Dot(n)
	v1nAfter := (v1n*(m1-m2) + 2*m2*v2n) / (m1 + m2)
	v2nAfter := (v2n*(m2-m1) + 2*m1*v1n) / (m1 + m2)

	a.Kin.Velocity = v1.Sub(n.Scale(v1n - v1nAfter)).Scale(p.Restitution)
	b.Kin.Velocity = v2.Sub(n.Scale(v2n - v2nAfter)).Scale(p.Restitution)
}

// CollisionSystem runs the grid broad-phase and resolves ball-ball contacts.
type CollisionSystem struct {
	filter *ecs.Filter3[components.Kinematics, components.Body, components.Spin]
	grid   *SpatialGrid
	balls  []BallRef // reused between ticks
}

// NewCollisionSystem creates a collision system over an area of the given size.
func NewCollisionSystem(w *ecs.World, width, height, cellSize float32) *CollisionSystem {
	return &CollisionSystem{
		filter: ecs.NewFilter3[components.Kinematics, components.Body, components.Spin](w),
		grid:   NewSpatialGrid(width, height, cellSize),
	}
}

// Rebuild snapshots the current balls and rebuckets them into the grid.
// Must run after any entity creation or removal in the tick.
func (s *CollisionSystem) Rebuild() {
	s.balls = s.balls[:0]
	s.grid.Clear()

	query := s.filter.Query()
	for query.Next() {
		kin, body, spin := query.Get()
		s.grid.Insert(len(s.balls), kin.Position)
		s.balls = append(s.balls, BallRef{Kin: kin, Body: body, Spin: spin})
	}
}

// Resolve tests every grid-adjacent pair and resolves the colliding ones.
// Returns the number of colliding pairs.
func (s *CollisionSystem) Resolve(p ResponseParams) int {
	hits := 0
	s.grid.ForEachPair(func(i, j int) {
		a, b := s.balls[i], s.balls[j]
		c, ok := CheckCollision(a.Kin.Position, a.Body.Radius, b.Kin.Position, b.Body.Radius)
		if !ok {
			return
		}
		hits++
		ResolveCollision(s.balls, i, j, c, p)
	})
	return hits
}

// ClampSpeeds rescales any ball faster than maxVelocity.
// Collision response can push a ball past the integrator's cap.
func (s *CollisionSystem) ClampSpeeds(maxVelocity float32) {
	for _, b := range s.balls {
		b.Kin.Velocity = b.Kin.Velocity.ClampLength(maxVelocity)
	}
}
