package telemetry

import (
	"math"

	"github.com/ggielly/suicideballs/sim"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	wallCollisions int
	ballCollisions int
	escapes        int
	spawns         int

	// Population samples, one per tick
	ballSum     int
	ballMax     int
	tickSamples int

	// Scratch buffer for speeds at flush
	speeds []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick adds one tick's counters and population to the window.
func (c *Collector) RecordTick(counters sim.Counters, ballCount int) {
	c.wallCollisions += counters.WallTick
	c.ballCollisions += counters.BallTick
	c.escapes += counters.EscapeTick
	c.spawns += counters.SpawnTick

	c.ballSum += ballCount
	if ballCount > c.ballMax {
		c.ballMax = ballCount
	}
	c.tickSamples++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window's events and the balls at
// window end, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, balls []sim.BallView, bounciness float32, gravity sim.GravityMode) WindowStats {
	c.speeds = c.speeds[:0]
	var spinSum float64
	for _, b := range balls {
		c.speeds = append(c.speeds, float64(b.Velocity.Length()))
		spinSum += math.Abs(float64(b.AngularVelocity))
	}
	speed := ComputeSpeedStats(c.speeds)

	var ballsMean, spinMean float64
	if c.tickSamples > 0 {
		ballsMean = float64(c.ballSum) / float64(c.tickSamples)
	}
	if len(balls) > 0 {
		spinMean = spinSum / float64(len(balls))
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Balls:     len(balls),
		BallsMean: ballsMean,
		BallsMax:  c.ballMax,

		WallCollisions: c.wallCollisions,
		BallCollisions: c.ballCollisions,
		Escapes:        c.escapes,
		Spawns:         c.spawns,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,
		SpinMean:  spinMean,

		Bounciness: float64(bounciness),
		Gravity:    gravity.String(),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.wallCollisions = 0
	c.ballCollisions = 0
	c.escapes = 0
	c.spawns = 0
	c.ballSum = 0
	c.ballMax = 0
	c.tickSamples = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
