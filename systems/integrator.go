// Package systems contains the per-tick ECS systems of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

// GravityMode selects the gravity field applied by the integrator.
type GravityMode uint8

const (
	GravityVertical    GravityMode = iota // constant pull toward +Y
	GravityCentripetal                    // pull toward the arena center
)

// String returns the HUD label of the mode.
func (m GravityMode) String() string {
	switch m {
	case GravityCentripetal:
		return "CENTRIPETAL"
	default:
		return "VERTICAL"
	}
}

// Toggle returns the other mode.
func (m GravityMode) Toggle() GravityMode {
	if m == GravityVertical {
		return GravityCentripetal
	}
	return GravityVertical
}

// IntegrateParams holds the per-tick inputs of the integrator.
type IntegrateParams struct {
	Gravity            GravityMode
	Center             vmath.Vec2
	VerticalGravity    float32
	CentripetalGravity float32
	Friction           float32
	MaxVelocity        float32
	AngularFriction    float32
}

// Integrate advances one ball by one fixed tick.
func Integrate(k *components.Kinematics, s *components.Spin, tr *components.Trail, p IntegrateParams) {
	switch p.Gravity {
	case GravityCentripetal:
		toCenter := p.Center.Sub(k.Position)
		k.Acceleration = k.Acceleration.Add(toCenter.Normalized().Scale(p.CentripetalGravity))
	default:
		k.Acceleration = k.Acceleration.Add(vmath.Vec2{Y: p.VerticalGravity})
	}

	k.Velocity = k.Velocity.Add(k.Acceleration).Scale(p.Friction)

	// Cap speed so a ball can never step through the ring in one tick
	k.Velocity = k.Velocity.ClampLength(p.MaxVelocity)

	k.Previous = k.Position
	k.Position = k.Position.Add(k.Velocity)
	k.Acceleration = vmath.Zero

	tr.Push(k.Previous)

	s.Rotation = vmath.WrapAngle(s.Rotation + s.AngularVelocity)
	s.AngularVelocity *= p.AngularFriction
}

// IntegratorSystem applies Integrate to every ball.
type IntegratorSystem struct {
	filter *ecs.Filter3[components.Kinematics, components.Spin, components.Trail]
}

// NewIntegratorSystem creates a new integrator system.
func NewIntegratorSystem(w *ecs.World) *IntegratorSystem {
	return &IntegratorSystem{
		filter: ecs.NewFilter3[components.Kinematics, components.Spin, components.Trail](w),
	}
}

// Update runs the integrator over all balls.
func (s *IntegratorSystem) Update(p IntegrateParams) {
	query := s.filter.Query()
	for query.Next() {
		kin, spin, trail := query.Get()
		Integrate(kin, spin, trail, p)
	}
}
