package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/ggielly/suicideballs/components"
	"github.com/ggielly/suicideballs/vmath"
)

func testSpawnParams() SpawnParams {
	return SpawnParams{
		Center:        vmath.Vec2{X: 300, Y: 400},
		MaxDist:       230,
		Radius:        15,
		Speed:         2,
		TrailCapacity: 15,
		ColorMin:      100,
		ColorMax:      255,
	}
}

func TestNewBallSpecRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := testSpawnParams()

	for i := 0; i < 500; i++ {
		s := NewBallSpec(rng, p)

		if d := s.Kin.Position.Sub(p.Center).Length(); d >= p.MaxDist+1e-3 {
			t.Fatalf("spawn distance %v >= %v", d, p.MaxDist)
		}
		if s.Kin.Previous != s.Kin.Position {
			t.Fatal("previous position should start at position")
		}
		v := s.Kin.Velocity
		if v.X < -p.Speed || v.X >= p.Speed || v.Y < -p.Speed || v.Y >= p.Speed {
			t.Fatalf("velocity %v outside [-%v, %v)", v, p.Speed, p.Speed)
		}
		if s.Spin.Rotation < 0 || s.Spin.Rotation >= vmath.TwoPi || s.Spin.AngularVelocity != 0 {
			t.Fatalf("bad spin %+v", s.Spin)
		}
		c := s.Look.Color
		for _, ch := range []uint8{c.R, c.G, c.B} {
			if int(ch) < p.ColorMin || int(ch) >= p.ColorMax {
				t.Fatalf("color channel %d outside [%d, %d)", ch, p.ColorMin, p.ColorMax)
			}
		}
		if s.Trail.Len() != 0 || s.Trail.Cap() != p.TrailCapacity {
			t.Fatalf("trail len=%d cap=%d", s.Trail.Len(), s.Trail.Cap())
		}
		if s.Body.Radius != p.Radius {
			t.Fatalf("radius %v", s.Body.Radius)
		}
	}
}

func TestNewBallSpecDeterministic(t *testing.T) {
	p := testSpawnParams()
	a := NewBallSpec(rand.New(rand.NewSource(9)), p)
	b := NewBallSpec(rand.New(rand.NewSource(9)), p)

	if a.Kin != b.Kin || a.Spin != b.Spin || a.Look != b.Look {
		t.Errorf("same seed produced different balls: %+v vs %+v", a, b)
	}
}

func addAt(ps *PopulationSystem, pos vmath.Vec2) {
	ps.Add(BallSpec{
		Kin:   components.Kinematics{Position: pos, Previous: pos},
		Body:  components.Body{Radius: 15},
		Trail: components.NewTrail(2),
	})
}

func TestRemoveEscaped(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPopulationSystem(w)
	center := vmath.Vec2{X: 300, Y: 400}

	addAt(ps, vmath.Vec2{X: 300, Y: 400})
	addAt(ps, vmath.Vec2{X: 300, Y: 699})  // 299 away, stays
	addAt(ps, vmath.Vec2{X: 601, Y: 400})  // 301 away, removed
	addAt(ps, vmath.Vec2{X: -100, Y: 400}) // removed
	addAt(ps, vmath.Vec2{X: 300, Y: 100})  // exactly 300, stays

	removed := ps.RemoveEscaped(center, 300*300)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if ps.Count() != 3 {
		t.Errorf("count = %d, want 3", ps.Count())
	}

	filter := ecs.NewFilter1[components.Kinematics](w)
	query := filter.Query()
	n := 0
	for query.Next() {
		if query.Get().Position.Sub(center).LengthSq() > 300*300 {
			t.Errorf("escaped ball still present at %v", query.Get().Position)
		}
		n++
	}
	if n != 3 {
		t.Errorf("world holds %d balls, want 3", n)
	}
}

func TestReplenish(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		removed     int
		perRemoval  int
		maxBalls    int
		wantSpawned int
	}{
		{"room for all", 39, 1, 3, 50, 3},
		{"capped", 48, 1, 3, 50, 2},
		{"already full", 50, 2, 2, 50, 0},
		{"nothing removed", 10, 0, 5, 50, 0},
		{"multiple removals", 5, 3, 2, 50, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ps := NewPopulationSystem(w)
			for i := 0; i < tt.start; i++ {
				addAt(ps, vmath.Vec2{X: 300, Y: 400})
			}

			rng := rand.New(rand.NewSource(1))
			got := ps.Replenish(rng, tt.removed, tt.perRemoval, tt.maxBalls, testSpawnParams())
			if got != tt.wantSpawned {
				t.Errorf("spawned = %d, want %d", got, tt.wantSpawned)
			}
			if ps.Count() != tt.start+tt.wantSpawned {
				t.Errorf("count = %d, want %d", ps.Count(), tt.start+tt.wantSpawned)
			}
		})
	}
}
