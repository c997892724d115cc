package game

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ggielly/suicideballs/sim"
	"github.com/ggielly/suicideballs/vmath"
)

var (
	backgroundColor = rl.NewColor(20, 20, 30, 255)
	ringColor       = rl.NewColor(200, 200, 220, 255)
)

// arcDegrees returns the start and end angles, in degrees, of the solid part
// of a ring whose gap of width gapWidth is centered on gapAngle.
func arcDegrees(gapAngle, gapWidth float32) (start, end float32) {
	start = gapAngle + gapWidth/2
	end = gapAngle - gapWidth/2 + 2*math.Pi
	const toDeg = 180 / math.Pi
	return start * toDeg, end * toDeg
}

// shade adds delta to each channel of c, clamped to [0, 255].
func shade(c color.RGBA, delta int) color.RGBA {
	ch := func(v uint8) uint8 {
		return uint8(max(0, min(255, int(v)+delta)))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

// trailStyle returns the stroke width and color of trail segment i of n
// (1 <= i < n). Segments widen and brighten toward the ball.
func trailStyle(i, n int, diameter float32, base color.RGBA) (float32, color.RGBA) {
	progress := float32(i) / float32(n)
	brightness := 0.2 + 0.8*progress
	scale := func(v uint8) uint8 {
		return uint8(min(255, float32(v)*brightness))
	}
	return progress * diameter, color.RGBA{
		R: scale(base.R),
		G: scale(base.G),
		B: scale(base.B),
		A: uint8(progress * 220),
	}
}

func vec(p vmath.Vec2) rl.Vector2 {
	return rl.Vector2{X: p.X, Y: p.Y}
}

func toRL(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// drawArena draws the rotating ring with its gap.
func drawArena(a sim.ArenaView) {
	start, end := arcDegrees(a.GapAngle, a.GapWidth)
	half := a.Thickness / 2
	rl.DrawRing(vec(a.Center), a.Radius-half, a.Radius+half, start, end, 128, ringColor)
}

// drawTrail draws the tapered trail of b, joined to its current position.
func drawTrail(b *sim.BallView) {
	n := len(b.Trail)
	if n < 2 {
		return
	}
	diameter := b.Radius * 2

	for i := 1; i < n; i++ {
		p1, p2 := b.Trail[i-1], b.Trail[i]
		if p2.Sub(p1).LengthSq() < 0.25 {
			continue
		}
		width, c := trailStyle(i, n, diameter, b.Color)
		rl.DrawLineEx(vec(p1), vec(p2), width, toRL(c))
	}

	last := b.Trail[n-1]
	if b.Position.Sub(last).LengthSq() >= 0.25 {
		c := b.Color
		c.A = 240
		rl.DrawLineEx(vec(last), vec(b.Position), diameter*0.5, toRL(c))
	}
}

// drawBall draws a ball with two diameters and a highlight that turn with its spin.
func drawBall(b *sim.BallView) {
	center := vec(b.Position)
	base := b.Color
	base.A = 255

	rl.DrawCircleV(center, b.Radius, toRL(base))
	rl.DrawCircleLines(int32(center.X), int32(center.Y), b.Radius, toRL(shade(base, -40)))

	inner := b.Radius * 0.7
	sin, cos := math.Sincos(float64(b.Rotation))
	dx, dy := float32(cos)*inner, float32(sin)*inner
	line := toRL(shade(base, -60))
	rl.DrawLineV(rl.Vector2{X: center.X + dx, Y: center.Y + dy}, rl.Vector2{X: center.X - dx, Y: center.Y - dy}, line)
	rl.DrawLineV(rl.Vector2{X: center.X - dy, Y: center.Y + dx}, rl.Vector2{X: center.X + dy, Y: center.Y - dx}, line)

	hs, hc := math.Sincos(float64(b.Rotation) + 0.5)
	highlight := rl.Vector2{
		X: center.X + float32(hc)*b.Radius*0.6,
		Y: center.Y + float32(hs)*b.Radius*0.6,
	}
	rl.DrawCircleV(highlight, 2, toRL(shade(base, 60)))
}
