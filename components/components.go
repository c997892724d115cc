// Package components defines ECS components for the simulation.
package components

import (
	"image/color"

	"github.com/ggielly/suicideballs/vmath"
)

// Kinematics holds a ball's linear motion state.
type Kinematics struct {
	Position     vmath.Vec2
	Previous     vmath.Vec2 // Position at the start of the current tick
	Velocity     vmath.Vec2 // Units per tick
	Acceleration vmath.Vec2 // Accumulated this tick, consumed and cleared by the integrator
}

// Body holds physical properties of a ball.
type Body struct {
	Radius float32
}

// Mass returns the 2-D mass proxy radius^2.
func (b Body) Mass() float32 {
	return b.Radius * b.Radius
}

// Spin represents a ball's rotation and angular velocity.
type Spin struct {
	Rotation        float32 // radians, kept in [0, 2pi)
	AngularVelocity float32 // radians per tick
}

// Appearance holds cosmetic state the physics never reads.
type Appearance struct {
	Color color.RGBA
}
