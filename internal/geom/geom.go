package geom

import (
	"github.com/chewxy/math32"
)

// Point is a position in canvas space.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Rect is an axis-aligned rectangle (min corner + size).
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Dist(q Point) float32 {
	return math32.Hypot(p.X-q.X, p.Y-q.Y)
}

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Area() float32 { return r.W * r.H }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.W < o.X || o.X+o.W < r.X || r.Y+r.H < o.Y || o.Y+o.H < r.Y)
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math32.Min(r.X, o.X)
	minY := math32.Min(r.Y, o.Y)
	maxX := math32.Max(r.X+r.W, o.X+o.W)
	maxY := math32.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Normalized flips negative width/height so the min corner is X,Y.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Corners returns the four corners clockwise from the min corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// BoundsOf returns the axis-aligned bounding box of a point list.
// Returns a zero rect for an empty list.
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math32.Min(minX, p.X)
		minY = math32.Min(minY, p.Y)
		maxX = math32.Max(maxX, p.X)
		maxY = math32.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RotatePoint rotates p around pivot by deg degrees (clockwise in screen
// coordinates, where y grows downward).
func RotatePoint(p, pivot Point, deg float32) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math32.Pi / 180
	sin, cos := math32.Sincos(rad)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}

// RotatedBounds returns the axis-aligned bounding box of r after rotating its
// corners by deg degrees around r's center.
func RotatedBounds(r Rect, deg float32) Rect {
	if deg == 0 {
		return r
	}
	c := r.Center()
	corners := r.Corners()
	pts := make([]Point, 0, 4)
	for _, p := range corners {
		pts = append(pts, RotatePoint(p, c, deg))
	}
	return BoundsOf(pts)
}

// AngleDeg returns the angle in degrees of the ray pivot->p, measured from the
// positive x axis.
func AngleDeg(p, pivot Point) float32 {
	return math32.Atan2(p.Y-pivot.Y, p.X-pivot.X) * 180 / math32.Pi
}

// PointInPolygon reports whether p is inside poly using the even-odd ray
// casting rule.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ScreenToCanvas maps a screen position to canvas space given the board's pan
// offset and zoom factor.
func ScreenToCanvas(screen Point, panX, panY, zoom float32) Point {
	return Point{
		X: (screen.X - panX) / zoom,
		Y: (screen.Y - panY) / zoom,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(canvas Point, panX, panY, zoom float32) Point {
	return Point{
		X: canvas.X*zoom + panX,
		Y: canvas.Y*zoom + panY,
	}
}
