package vmath

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// WrapAngle maps a into [0, 2pi).
func WrapAngle(a float32) float32 {
	w := float32(math.Mod(float64(a), TwoPi))
	if w < 0 {
		w += TwoPi
	}
	// float32 rounding of a value just below 2pi can land on 2pi itself
	if w >= TwoPi {
		w = 0
	}
	return w
}

// InArc reports whether angle a lies strictly inside the arc [center-width/2, center+width/2].
// All angles are wrapped into [0, 2pi) first; an arc that straddles 0 is handled
// by the disjunction of the two halves.
func InArc(a, center, width float32) bool {
	start := WrapAngle(center - width/2)
	end := WrapAngle(center + width/2)
	a = WrapAngle(a)
	if start < end {
		return a > start && a < end
	}
	return a > start || a < end
}
