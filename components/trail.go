package components

import "github.com/ggielly/suicideballs/vmath"

// Trail is a fixed-capacity ring of past positions, oldest first.
// Pushing onto a full trail overwrites the oldest point in O(1).
type Trail struct {
	points []vmath.Vec2
	start  int // index of the oldest point
	count  int
}

// NewTrail creates an empty trail holding up to capacity points.
func NewTrail(capacity int) Trail {
	if capacity < 1 {
		capacity = 1
	}
	return Trail{points: make([]vmath.Vec2, capacity)}
}

// Push appends p, evicting the oldest point when full.
func (t *Trail) Push(p vmath.Vec2) {
	capacity := len(t.points)
	if capacity == 0 {
		return
	}
	if t.count < capacity {
		t.points[(t.start+t.count)%capacity] = p
		t.count++
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % capacity
}

// Len returns the number of stored points.
func (t *Trail) Len() int {
	return t.count
}

// Cap returns the trail capacity.
func (t *Trail) Cap() int {
	return len(t.points)
}

// At returns the i-th point, 0 being the oldest.
func (t *Trail) At(i int) vmath.Vec2 {
	return t.points[(t.start+i)%len(t.points)]
}

// Last returns the most recent point and false if the trail is empty.
func (t *Trail) Last() (vmath.Vec2, bool) {
	if t.count == 0 {
		return vmath.Vec2{}, false
	}
	return t.At(t.count - 1), true
}

// AppendTo appends the points oldest-first to dst and returns it.
// Reuse dst across calls to avoid allocations.
func (t *Trail) AppendTo(dst []vmath.Vec2) []vmath.Vec2 {
	for i := 0; i < t.count; i++ {
		dst = append(dst, t.At(i))
	}
	return dst
}

