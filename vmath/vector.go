// Package vmath provides the 2-D vector and angle helpers used by the simulation.
package vmath

import "math"

// Vec2 is a 2-D vector value.
type Vec2 struct {
	X, Y float32
}

// Zero is the zero vector.
var Zero = Vec2{}

// UnitX is returned by Normalized for a zero-length vector.
var UnitX = Vec2{X: 1, Y: 0}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns v / s.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// LengthSq returns the squared length (avoid sqrt in hot paths).
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the Euclidean length.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// Normalized returns the unit vector in the direction of v.
// A zero-length vector normalizes to UnitX.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l > 0 {
		return v.Div(l)
	}
	return UnitX
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns atan2(y, x) in (-pi, pi].
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// FromAngle returns the vector of length r at angle a.
func FromAngle(a, r float32) Vec2 {
	s, c := math.Sincos(float64(a))
	return Vec2{X: float32(c) * r, Y: float32(s) * r}
}

// ClampLength rescales v to exactly max when its length exceeds max.
func (v Vec2) ClampLength(max float32) Vec2 {
	lsq := v.LengthSq()
	if lsq > max*max {
		return v.Scale(max / float32(math.Sqrt(float64(lsq))))
	}
	return v
}
