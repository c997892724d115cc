package components

import (
	"testing"

	"github.com/ggielly/suicideballs/vmath"
)

func pt(i int) vmath.Vec2 {
	return vmath.Vec2{X: float32(i), Y: float32(-i)}
}

func TestTrailFIFO(t *testing.T) {
	tr := NewTrail(4)

	for i := 0; i < 10; i++ {
		tr.Push(pt(i))

		if tr.Len() > tr.Cap() {
			t.Fatalf("after %d pushes Len() = %d exceeds Cap() = %d", i+1, tr.Len(), tr.Cap())
		}

		// Oldest retained point is max(0, i-3); order is ascending
		first := i - tr.Cap() + 1
		if first < 0 {
			first = 0
		}
		for j := 0; j < tr.Len(); j++ {
			if got, want := tr.At(j), pt(first+j); got != want {
				t.Fatalf("after %d pushes At(%d) = %v, want %v", i+1, j, got, want)
			}
		}
	}

	last, ok := tr.Last()
	if !ok || last != pt(9) {
		t.Errorf("Last() = %v, %v; want %v, true", last, ok, pt(9))
	}
}

func TestTrailAppendTo(t *testing.T) {
	tr := NewTrail(3)
	for i := 0; i < 5; i++ {
		tr.Push(pt(i))
	}

	got := tr.AppendTo(nil)
	want := []vmath.Vec2{pt(2), pt(3), pt(4)}
	if len(got) != len(want) {
		t.Fatalf("AppendTo len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AppendTo[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
