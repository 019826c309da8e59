package game

import "math"

// Play field, in screen pixels. Entity positions are relative to the field
// origin; FieldX/FieldY are added when drawing.
const (
	FieldX      = 50
	FieldY      = 20
	FieldWidth  = 550
	FieldHeight = 675

	ScreenWidth  = 960
	ScreenHeight = 720
)

// Point is a position in field coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. Screen or field coordinates depending
// on context.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// OnScreen converts a field rectangle to screen coordinates.
func (r Rect) OnScreen() Rect {
	return r.Offset(FieldX, FieldY)
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sinDeg(deg float64) float64 {
	return round2(math.Sin(deg * math.Pi / 180))
}

func cosDeg(deg float64) float64 {
	return round2(math.Cos(deg * math.Pi / 180))
}

// atanDeg is atan(x/y) in degrees rounded to two places. The caller handles
// y == 0.
func atanDeg(x, y float64) float64 {
	return round2(math.Atan(x/y) * 180 / math.Pi)
}

// Decompose splits a speed along a direction (0° = +y) into x and y parts
// using the two-decimal sine/cosine convention every kinematic calculation
// shares.
func Decompose(speed, direction float64) (x, y float64) {
	return sinDeg(direction) * speed, cosDeg(direction) * speed
}
