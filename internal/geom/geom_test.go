package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatePoint(t *testing.T) {
	p := RotatePoint(Pt(10, 0), Pt(0, 0), 90)
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 10, p.Y, 1e-4)

	// Zero rotation is the identity, bit for bit.
	q := Pt(3.25, -7.5)
	assert.Equal(t, q, RotatePoint(q, Pt(100, 100), 0))

	// A full turn comes back to the start.
	r := RotatePoint(RotatePoint(q, Pt(1, 2), 180), Pt(1, 2), 180)
	assert.InDelta(t, q.X, r.X, 1e-3)
	assert.InDelta(t, q.Y, r.Y, 1e-3)
}

func TestRotatedBounds(t *testing.T) {
	r := R(0, 0, 100, 50)

	assert.Equal(t, r, RotatedBounds(r, 0))

	// 90 degrees swaps width and height about the same center.
	b := RotatedBounds(r, 90)
	assert.InDelta(t, 50, b.W, 1e-3)
	assert.InDelta(t, 100, b.H, 1e-3)
	assert.InDelta(t, r.Center().X, b.Center().X, 1e-3)
	assert.InDelta(t, r.Center().Y, b.Center().Y, 1e-3)

	// Any rotation keeps all rotated corners inside the reported bounds.
	for _, deg := range []float32{45, 137, -30, 15} {
		b := RotatedBounds(r, deg)
		for _, corner := range r.Corners() {
			p := RotatePoint(corner, r.Center(), deg)
			assert.True(t, b.Contains(Point{p.X, p.Y}), "deg=%v corner=%v", deg, p)
		}
	}
}

func TestRectOps(t *testing.T) {
	r := R(10, 10, 20, 20)
	assert.True(t, r.Contains(Pt(10, 10)))
	assert.True(t, r.Contains(Pt(30, 30)))
	assert.False(t, r.Contains(Pt(31, 30)))

	assert.True(t, r.ContainsRect(R(12, 12, 5, 5)))
	assert.False(t, r.ContainsRect(R(12, 12, 25, 5)))

	assert.True(t, r.Intersects(R(25, 25, 50, 50)))
	assert.False(t, r.Intersects(R(50, 50, 5, 5)))

	u := r.Union(R(0, 0, 5, 5))
	assert.Equal(t, R(0, 0, 30, 30), u)

	n := R(10, 10, -4, -6).Normalized()
	assert.Equal(t, R(6, 4, 4, 6), n)
}

func TestBoundsOf(t *testing.T) {
	assert.Equal(t, Rect{}, BoundsOf(nil))
	b := BoundsOf([]Point{{5, 7}, {1, 9}, {3, 2}})
	assert.Equal(t, R(1, 2, 4, 7), b)
}

func TestPointInPolygon(t *testing.T) {
	tri := []Point{{0, 0}, {10, 0}, {5, 10}}
	assert.True(t, PointInPolygon(Pt(5, 3), tri))
	assert.False(t, PointInPolygon(Pt(0, 9), tri))
	assert.False(t, PointInPolygon(Pt(5, 3), tri[:2]))
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	panX, panY, zoom := float32(120), float32(-40), float32(1.5)
	p := Pt(33, 77)
	s := CanvasToScreen(p, panX, panY, zoom)
	back := ScreenToCanvas(s, panX, panY, zoom)
	assert.InDelta(t, p.X, back.X, 1e-3)
	assert.InDelta(t, p.Y, back.Y, 1e-3)

	// Zoom 1, pan 0 is the identity.
	assert.Equal(t, p, ScreenToCanvas(p, 0, 0, 1))
}

func TestAngleDeg(t *testing.T) {
	assert.InDelta(t, 0, AngleDeg(Pt(10, 0), Pt(0, 0)), 1e-3)
	assert.InDelta(t, 90, AngleDeg(Pt(0, 10), Pt(0, 0)), 1e-3)
	assert.InDelta(t, 180, AngleDeg(Pt(-10, 0), Pt(0, 0)), 1e-3)
}
