// Package geom holds the small amount of plane geometry the drawing surface
// needs: points, distances, interpolation and circle overlap.
package geom

import "math"

// Point is a position in world units. Points are values and are never
// mutated once recorded.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both coordinates multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Lerp returns the point at t along the segment a->b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Interpolate returns evenly spaced points after a, ending exactly at b.
// The number of points is floor(dist/step); when that is at most one, or
// step is not positive, the result is just b.
func Interpolate(a, b Point, step float64) []Point {
	if step <= 0 {
		return []Point{b}
	}
	steps := int(math.Floor(Dist(a, b) / step))
	if steps <= 1 {
		return []Point{b}
	}
	points := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		points = append(points, Lerp(a, b, float64(i)/float64(steps)))
	}
	return points
}

// Circle is a circular region.
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return DistSq(c.Center, p) <= c.Radius*c.Radius
}

// Overlaps reports whether two circular regions touch or intersect.
func (c Circle) Overlaps(o Circle) bool {
	r := c.Radius + o.Radius
	return DistSq(c.Center, o.Center) <= r*r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
