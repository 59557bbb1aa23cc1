package locomotion

import (
	"math"
	"testing"
)

type fakeBody struct {
	pos      Vec2
	vel      Vec2
	mass     float64
	impulses []Vec2
	forces   []Vec2
}

func newFakeBody() *fakeBody { return &fakeBody{mass: 1} }

func (b *fakeBody) Position() Vec2 { return b.pos }
func (b *fakeBody) Velocity() Vec2 { return b.vel }
func (b *fakeBody) SetVelocity(v Vec2) { b.vel = v }
func (b *fakeBody) SetPosition(p Vec2) { b.pos = p }
func (b *fakeBody) Mass() float64 { return b.mass }
func (b *fakeBody) ApplyForce(f Vec2) { b.forces = append(b.forces, f) }
func (b *fakeBody) ApplyImpulse(i Vec2) {
	b.impulses = append(b.impulses, i)
	b.vel = b.vel.Add(i.Scale(1 / b.mass))
}

// fakeQuerier answers downward probes with ground and sideways probes with
// the configured wall.
type fakeQuerier struct {
	ground bool
	wall   WallSide
	calls  int
}

func (q *fakeQuerier) RaycastFirst(from, to Vec2, mask Layer) (RayHit, bool) {
	q.calls++
	switch {
	case to.Y < from.Y:
		return RayHit{Point: to}, q.ground
	case to.X < from.X:
		return RayHit{Point: to, Fraction: 0.5}, q.wall == WallLeft
	case to.X > from.X:
		return RayHit{Point: to, Fraction: 0.5}, q.wall == WallRight
	}
	return RayHit{}, false
}

type box struct {
	min, max Vec2
	layer    Layer
}

// boxWorld is a querier over axis-aligned boxes.
type boxWorld struct {
	boxes []box
}

func (w *boxWorld) RaycastFirst(from, to Vec2, mask Layer) (RayHit, bool) {
	best := math.Inf(1)
	for _, b := range w.boxes {
		if b.layer&mask == 0 {
			continue
		}
		if t, ok := segmentBoxHit(from, to, b.min, b.max); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return RayHit{}, false
	}
	d := Vec2{X: to.X - from.X, Y: to.Y - from.Y}
	return RayHit{Point: from.Add(d.Scale(best)), Fraction: best}, true
}

func segmentBoxHit(from, to, min, max Vec2) (float64, bool) {
	tmin, tmax := 0.0, 1.0
	d := [2]float64{to.X - from.X, to.Y - from.Y}
	o := [2]float64{from.X, from.Y}
	lo := [2]float64{min.X, min.Y}
	hi := [2]float64{max.X, max.Y}
	for i := 0; i < 2; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var testExtents = Vec2{X: 0.25, Y: 0.5}

func newTestCharacter(t *testing.T, cfg MotionConfig, ground bool) (*Character, *fakeBody, *fakeQuerier) {
	t.Helper()
	body := newFakeBody()
	q := &fakeQuerier{ground: ground}
	c, err := New(cfg, body, q, testExtents)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, body, q
}

func eventKinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func indexOf(kinds []EventKind, k EventKind) int {
	for i, v := range kinds {
		if v == k {
			return i
		}
	}
	return -1
}
