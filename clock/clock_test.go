package clock

import (
	"math"
	"testing"
)

func TestAccumulatorAdvance(t *testing.T) {
	const step = 1.0 / 60

	tests := []struct {
		name     string
		frames   []float64
		speed    int
		maxSteps int
		want     []int
	}{
		{"exact ticks", []float64{step, step, 2 * step}, 1, 5, []int{1, 1, 2}},
		{"carry remainder", []float64{step / 2, step / 2, step / 2, step / 2}, 1, 5, []int{0, 1, 0, 1}},
		{"speed multiplier", []float64{step, step}, 3, 5, []int{3, 3}},
		{"limit per frame", []float64{10 * step, step}, 1, 4, []int{4, 1}},
		{"limit scales with speed", []float64{100 * step}, 2, 4, []int{8}},
		{"negative elapsed", []float64{-1, step}, 1, 5, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Nudge frame times up so float rounding cannot lose a tick
			a := NewAccumulator(step, tt.maxSteps)
			for i, f := range tt.frames {
				if f > 0 {
					f += 1e-12
				}
				if got := a.Advance(f, tt.speed); got != tt.want[i] {
					t.Errorf("frame %d: Advance = %d, want %d", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestAccumulatorDropped(t *testing.T) {
	a := NewAccumulator(0.1, 2)
	if n := a.Advance(1.05, 1); n != 2 {
		t.Fatalf("Advance = %d, want 2", n)
	}
	if a.Dropped() != 8 {
		t.Errorf("Dropped = %d, want 8", a.Dropped())
	}
	// The backlog is discarded, not carried into the next frame.
	if n := a.Advance(0.05, 1); n != 0 {
		t.Errorf("Advance after drop = %d, want 0", n)
	}
	if n := a.Advance(0.05+1e-9, 1); n != 1 {
		t.Errorf("Advance = %d, want 1", n)
	}
}

func TestAccumulatorCarry(t *testing.T) {
	a := NewAccumulator(0.1, 5)
	if n := a.Advance(0.25, 1); n != 2 {
		t.Fatalf("Advance = %d, want 2", n)
	}
	// 0.05 left over plus 0.06 makes one more tick.
	if n := a.Advance(0.06, 1); n != 1 {
		t.Errorf("Advance with carry = %d, want 1", n)
	}
	if a.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0", a.Dropped())
	}
}

func TestFrameMeter(t *testing.T) {
	m := NewFrameMeter(4)
	if m.FPS() != 0 {
		t.Errorf("empty meter FPS = %v, want 0", m.FPS())
	}

	m.Record(0.5)
	m.Record(0.5)
	if math.Abs(m.FPS()-2) > 1e-9 {
		t.Errorf("FPS = %v, want 2", m.FPS())
	}

	// Window of 4: the slow frames roll out
	for i := 0; i < 4; i++ {
		m.Record(0.01)
	}
	if m.Count() != 4 {
		t.Errorf("Count = %d, want 4", m.Count())
	}
	if math.Abs(m.FPS()-100) > 1e-6 {
		t.Errorf("FPS = %v, want 100", m.FPS())
	}
}
