package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

// Arena is the rotating ring the balls live in.
type Arena struct {
	Center   vmath.Vec2
	Radius   float32
	GapAngle float32 // angular width of the opening
	Angle    float32 // current gap direction, in [0, 2pi)
}

// InGap reports whether p lies strictly inside the gap window, seen from the center.
func (a Arena) InGap(p vmath.Vec2) bool {
	return vmath.InArc(p.Sub(a.Center).Angle(), a.Angle, a.GapAngle)
}

// ResolveWall keeps a ball inside the ring unless it is passing through the gap.
// It reports whether the ball hit the wall.
func ResolveWall(k *components.Kinematics, b components.Body, s *components.Spin, a Arena, bounciness, spinTransfer float32) bool {
	inner := a.Radius - b.Radius
	toBall := k.Position.Sub(a.Center)
	if toBall.LengthSq() <= inner*inner {
		return false
	}
	if a.InGap(k.Position) {
		return false
	}

	normal := toBall.Normalized()
	k.Position = a.Center.Add(normal.Scale(inner))

	dot := k.Velocity.Dot(normal)
	k.Velocity = k.Velocity.Sub(normal.Scale(2 * dot * bounciness))

	// Sliding along the wall spins the ball
	tangential := k.Velocity.Dot(normal.Perp())
	s.AngularVelocity += tangential * spinTransfer / b.Radius

	return true
}

// BoundarySystem resolves wall collisions for every ball.
type BoundarySystem struct {
	filter *ecs.Filter3[components.Kinematics, components.Body, components.Spin]
}

// NewBoundarySystem creates a new boundary system.
func NewBoundarySystem(w *ecs.World) *BoundarySystem {
	return &BoundarySystem{
		filter: ecs.NewFilter3[components.Kinematics, components.Body, components.Spin](w),
	}
}

// Update resolves all wall collisions and returns how many occurred.
func (s *BoundarySystem) Update(a Arena, bounciness, spinTransfer float32) int {
	hits := 0
	query := s.filter.Query()
	for query.Next() {
		kin, body, spin := query.Get()
		if ResolveWall(kin, *body, spin, a, bounciness, spinTransfer) {
			hits++
		}
	}
	return hits
}
