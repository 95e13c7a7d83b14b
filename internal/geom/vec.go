package geom

import "math"

// Vec2 is a 2D vector in screen coordinates (y grows downward).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector, or zero for a zero-length input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Reflect mirrors v across the plane with unit normal n and scales the
// result by e (restitution): v' = (v - 2(v.n)n) * e.
func (v Vec2) Reflect(n Vec2, e float64) Vec2 {
	d := v.Dot(n)
	return Vec2{(v.X - 2*d*n.X) * e, (v.Y - 2*d*n.Y) * e}
}

// Rect is an axis-aligned screen rectangle anchored at the origin.
type Rect struct {
	W, H float64
}
