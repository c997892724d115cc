// Package clock decouples fixed simulation ticks from variable frame times.
package clock

import (
	"gonum.org/v1/gonum/floats"
)

// Accumulator converts elapsed wall time into a number of fixed ticks.
type Accumulator struct {
	step     float64 // seconds per tick
	maxSteps int     // per frame at speed 1
	acc      float64
	dropped  int
}

// NewAccumulator creates an accumulator for ticks of step seconds.
// maxSteps bounds the ticks returned per frame so a slow frame cannot
// snowball into ever longer catch-up frames.
func NewAccumulator(step float64, maxSteps int) *Accumulator {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Accumulator{step: step, maxSteps: maxSteps}
}

// Step returns the tick length in seconds.
func (a *Accumulator) Step() float64 {
	return a.step
}

// Advance adds elapsed seconds of wall time, scaled by speed, and returns how
// many ticks to run now. Backlog beyond the per-frame limit is discarded.
func (a *Accumulator) Advance(elapsed float64, speed int) int {
	if speed < 1 {
		speed = 1
	}
	if elapsed < 0 {
		elapsed = 0
	}
	a.acc += elapsed * float64(speed)

	n := int(a.acc / a.step)
	limit := a.maxSteps * speed
	if n > limit {
		a.dropped += n - limit
		a.acc = 0
		return limit
	}
	a.acc -= float64(n) * a.step
	return n
}

// Dropped returns the total number of ticks discarded by the per-frame limit.
func (a *Accumulator) Dropped() int {
	return a.dropped
}

// FrameMeter averages recent frame durations into a frame rate.
type FrameMeter struct {
	durations []float64
	next      int
	count     int
}

// NewFrameMeter creates a meter over the last window frames.
func NewFrameMeter(window int) *FrameMeter {
	if window < 1 {
		window = 60
	}
	return &FrameMeter{durations: make([]float64, window)}
}

// Record adds one frame duration in seconds.
func (m *FrameMeter) Record(seconds float64) {
	m.durations[m.next] = seconds
	m.next = (m.next + 1) % len(m.durations)
	if m.count < len(m.durations) {
		m.count++
	}
}

// FPS returns frames per second over the recorded window, or 0 before any
// frame has been recorded.
func (m *FrameMeter) FPS() float64 {
	if m.count == 0 {
		return 0
	}
	total := floats.Sum(m.durations[:m.count])
	if total <= 0 {
		return 0
	}
	return float64(m.count) / total
}

// Count returns the number of frames in the window.
func (m *FrameMeter) Count() int {
	return m.count
}
