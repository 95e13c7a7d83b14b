package geom

import "math"

// SegmentCircleHit finds the first intersection of the segment from a to b
// with the circle (center, radius). It solves the quadratic form of the
// parametric line vs circle and returns the smallest root t in [0,1] along
// with the intersection point. ok is false when the segment misses the
// circle or has zero length.
func SegmentCircleHit(a, b, center Vec2, radius float64) (point Vec2, t float64, ok bool) {
	move := b.Sub(a)
	if move.LenSq() == 0 {
		return Vec2{}, 0, false
	}

	toStart := a.Sub(center)
	qa := move.Dot(move)
	qb := 2 * toStart.Dot(move)
	qc := toStart.Dot(toStart) - radius*radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return Vec2{}, 0, false
	}
	sq := math.Sqrt(disc)

	for _, root := range [2]float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if root >= 0 && root <= 1 {
			return a.Add(move.Scale(root)), root, true
		}
	}
	return Vec2{}, 0, false
}

// ScreenAngle returns the angle of v in degrees, measured counter-clockwise
// in [0,360). Screen y grows downward, hence the sign flip.
func ScreenAngle(v Vec2) float64 {
	return math.Mod(-math.Atan2(v.Y, v.X)*180/math.Pi+360, 360)
}

// AngleInArc reports whether angle a lies inside the arc starting at start
// spanning width degrees, all mod 360. Handles the 0/360 wraparound.
func AngleInArc(start, width, a float64) bool {
	if width <= 0 {
		return false
	}
	if width >= 360 {
		return true
	}
	s := norm360(start)
	e := norm360(start + width)
	a = norm360(a)
	if s <= e {
		return a >= s && a <= e
	}
	return a >= s || a <= e
}

func norm360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
