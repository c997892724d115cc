package sim

import (
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

// BallView is a read-only copy of one ball for renderers and telemetry.
type BallView struct {
	Position        vmath.Vec2
	Velocity        vmath.Vec2
	Radius          float32
	Rotation        float32
	AngularVelocity float32
	Color           color.RGBA
	Trail           []vmath.Vec2 // oldest first
}

// ArenaView describes the ring as drawn.
type ArenaView struct {
	Center    vmath.Vec2
	Radius    float32
	Thickness float32
	GapWidth  float32
	GapAngle  float32
}

type ballFilter = ecs.Filter5[
	components.Kinematics,
	components.Body,
	components.Spin,
	components.Trail,
	components.Appearance,
]

// Balls appends a view of every ball to dst[:0] and returns it.
// Trail slices already backing dst are reused.
func (w *World) Balls(dst []BallView) []BallView {
	dst = dst[:0]
	query := w.views.Query()
	for query.Next() {
		kin, body, spin, trail, look := query.Get()

		n := len(dst)
		if n < cap(dst) {
			dst = dst[:n+1]
		} else {
			dst = append(dst, BallView{})
		}
		v := &dst[n]
		v.Position = kin.Position
		v.Velocity = kin.Velocity
		v.Radius = body.Radius
		v.Rotation = spin.Rotation
		v.AngularVelocity = spin.AngularVelocity
		v.Color = look.Color
		v.Trail = trail.AppendTo(v.Trail[:0])
	}
	return dst
}

// BallCount returns the number of live balls.
func (w *World) BallCount() int {
	return w.population.Count()
}

// Arena returns the current ring geometry.
func (w *World) Arena() ArenaView {
	a := w.cfg.Arena
	return ArenaView{
		Center:    w.center,
		Radius:    float32(a.Radius),
		Thickness: float32(a.Thickness),
		GapWidth:  float32(a.GapAngle),
		GapAngle:  w.circleAngle,
	}
}

// GapAngle returns the current direction of the gap in [0, 2pi).
func (w *World) GapAngle() float32 { return w.circleAngle }

// Gravity returns the current gravity mode.
func (w *World) Gravity() GravityMode { return w.gravity }

// Counters returns the collision and population counters.
func (w *World) Counters() Counters { return w.counters }

// Bounciness returns the current wall and contact restitution.
func (w *World) Bounciness() float32 { return w.bounciness }

// Friction returns the current per-tick velocity damping.
func (w *World) Friction() float32 { return w.friction }

// BallsToSpawn returns how many balls replace each escaped one.
func (w *World) BallsToSpawn() int { return w.toSpawn }

// Tick returns the number of completed Advance calls.
func (w *World) Tick() int32 { return w.tick }

// SimTime returns the accumulated dt in seconds.
func (w *World) SimTime() float64 { return w.simTime }
