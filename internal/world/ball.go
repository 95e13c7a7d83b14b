package world

import (
	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

const (
	// MaxSpeed is the hard velocity clamp; together with the substep length
	// it bounds how far a ball can travel between intersection tests.
	MaxSpeed = 4000.0

	maxTrail   = 15
	substepLen = 5.0 // px of travel per CCD substep

	noteSpeedBand   = 150.0
	octaveSpeedBand = 300.0
	maxNoteIndex    = 6
	maxOctave       = 2

	hitFlashDuration = 0.1
)

// Ball is a point-mass disc. All transient per-step outcomes are returned
// from Update as a StepResult; the only decaying visual state kept on the
// ball itself is the hit flash timer and the trail.
type Ball struct {
	Pos        geom.Vec2
	Vel        geom.Vec2
	Radius     float64
	Elasticity float64
	Color      palette.RGB
	Label      string
	Trail      []geom.Vec2
	HitFlash   float64
}

func NewBall(pos, vel geom.Vec2, radius, elasticity float64, color palette.RGB) *Ball {
	return &Ball{
		Pos:        pos,
		Vel:        vel,
		Radius:     radius,
		Elasticity: elasticity,
		Color:      color,
		Trail:      make([]geom.Vec2, 0, maxTrail),
	}
}

// Impact records one bounce resolved during a step. Gate is nil for screen
// boundary hits. Speed is the pre-reflection speed.
type Impact struct {
	Point  geom.Vec2
	Normal geom.Vec2
	Speed  float64
	Gate   Gate
}

// Crossing records a suppressed collision: the motion segment intersected a
// gate boundary circle inside the open gap and passed through.
type Crossing struct {
	Gate   Gate
	Point  geom.Vec2
	Inner  bool // true when the inner boundary circle was crossed
	Inward bool // true when the ball was moving toward the gate center
}

// StepResult is the explicit per-step event list consumed once by the
// world; nothing in it persists on the ball between frames.
type StepResult struct {
	Impacts   []Impact
	Crossings []Crossing
}

// Update integrates one fixed timestep. The motion is subdivided so that no
// substep travels further than a few pixels, and each substep segment is
// tested for continuous intersection against the screen bounds and every
// collidable gate's inner and outer boundary circles. A fast ball therefore
// cannot tunnel through a thin gate inside a single frame.
func (b *Ball) Update(dt float64, gravity geom.Vec2, bounds geom.Rect, gates []Gate, now float64, emit events.EmitFunc) StepResult {
	var res StepResult

	b.Vel = b.Vel.Add(gravity.Scale(dt))
	if speed := b.Vel.Len(); speed > MaxSpeed {
		b.Vel = b.Vel.Scale(MaxSpeed / speed)
	}

	steps := int(b.Vel.Len() * dt / substepLen)
	if steps < 1 {
		steps = 1
	}
	dtStep := dt / float64(steps)

	for i := 0; i < steps; i++ {
		oldPos := b.Pos
		newPos := oldPos.Add(b.Vel.Scale(dtStep))

		if imp, hit := b.collideWalls(&newPos, bounds, now, emit); hit {
			res.Impacts = append(res.Impacts, imp)
			b.Pos = newPos
			continue
		}

		if b.collideGates(oldPos, newPos, gates, dtStep, now, emit, &res) {
			continue
		}

		b.Pos = newPos
	}

	b.Trail = append(b.Trail, b.Pos)
	if len(b.Trail) > maxTrail {
		b.Trail = b.Trail[1:]
	}
	if b.HitFlash > 0 {
		b.HitFlash -= dt
	}

	return res
}

// collideWalls clamps the position against the screen rectangle and
// reflects the velocity component-wise. The substep length keeps the
// positional error of the clamp within a few pixels.
func (b *Ball) collideWalls(pos *geom.Vec2, bounds geom.Rect, now float64, emit events.EmitFunc) (Impact, bool) {
	var normal geom.Vec2
	speed := b.Vel.Len() // band the note on the pre-reflection speed
	hit := false

	if pos.X-b.Radius <= 0 {
		pos.X = b.Radius + 1
		b.Vel.X = -b.Vel.X * b.Elasticity
		normal = normal.Add(geom.V(1, 0))
		hit = true
	} else if pos.X+b.Radius >= bounds.W {
		pos.X = bounds.W - b.Radius - 1
		b.Vel.X = -b.Vel.X * b.Elasticity
		normal = normal.Add(geom.V(-1, 0))
		hit = true
	}

	if pos.Y-b.Radius <= 0 {
		pos.Y = b.Radius + 1
		b.Vel.Y = -b.Vel.Y * b.Elasticity
		normal = normal.Add(geom.V(0, 1))
		hit = true
	} else if pos.Y+b.Radius >= bounds.H {
		pos.Y = bounds.H - b.Radius - 1
		b.Vel.Y = -b.Vel.Y * b.Elasticity
		normal = normal.Add(geom.V(0, -1))
		hit = true
	}

	if !hit {
		return Impact{}, false
	}

	b.HitFlash = hitFlashDuration
	b.emitNote(now, speed, emit)
	return Impact{Point: *pos, Normal: normal.Normalize(), Speed: speed}, true
}

// collideGates resolves the substep segment against every collidable gate.
// Returns true when the substep is fully consumed (bounce or recorded
// crossing); the caller must not apply newPos in that case.
func (b *Ball) collideGates(oldPos, newPos geom.Vec2, gates []Gate, dtStep, now float64, emit events.EmitFunc, res *StepResult) bool {
	for _, g := range gates {
		if !g.Collidable() {
			continue
		}

		center := g.Center()
		oldDist := oldPos.Sub(center).Len()
		newDist := newPos.Sub(center).Len()
		inward := newDist < oldDist

		// Inner boundary, shrunk by the ball radius so the disc surface
		// touches the band.
		inner := g.InnerRadius() - b.Radius
		if inner > 0 && crossed(oldDist, newDist, inner) {
			if b.resolveBoundary(oldPos, newPos, g, inner, true, inward, dtStep, now, emit, res) {
				return true
			}
		}

		// Outer boundary, grown by the ball radius.
		outer := g.OuterRadius() + b.Radius
		if crossed(oldDist, newDist, outer) {
			if b.resolveBoundary(oldPos, newPos, g, outer, false, inward, dtStep, now, emit, res) {
				return true
			}
		}
	}
	return false
}

func crossed(oldDist, newDist, r float64) bool {
	return (oldDist <= r && newDist > r) || (oldDist > r && newDist <= r)
}

// resolveBoundary runs the continuous segment-circle test against one
// boundary circle. Inside the open gap the hit is suppressed and recorded
// as a Crossing; otherwise the ball reflects at the exact impact point and
// the remaining substep time is consumed with the reflected velocity, so a
// single frame can contain several bounces.
func (b *Ball) resolveBoundary(oldPos, newPos geom.Vec2, g Gate, radius float64, innerSide, inward bool, dtStep, now float64, emit events.EmitFunc, res *StepResult) bool {
	point, t, ok := geom.SegmentCircleHit(oldPos, newPos, g.Center(), radius)
	if !ok {
		return false
	}

	angle := geom.ScreenAngle(point.Sub(g.Center()))
	if g.InGap(angle) {
		res.Crossings = append(res.Crossings, Crossing{Gate: g, Point: point, Inner: innerSide, Inward: inward})
		b.Pos = newPos
		return true
	}

	normal := point.Sub(g.Center()).Normalize().Scale(-1)
	speed := b.Vel.Len()

	b.Pos = point
	b.Vel = b.Vel.Reflect(normal, b.Elasticity)
	if remaining := (1 - t) * dtStep; remaining > 0 {
		b.Pos = b.Pos.Add(b.Vel.Scale(remaining))
	}

	b.HitFlash = hitFlashDuration
	b.emitNote(now, speed, emit)
	res.Impacts = append(res.Impacts, Impact{Point: point, Normal: normal, Speed: speed, Gate: g})
	return true
}

// emitNote maps impact speed into discrete note/octave bands.
func (b *Ball) emitNote(now, speed float64, emit events.EmitFunc) {
	if emit == nil {
		return
	}
	note := int(speed / noteSpeedBand)
	if note > maxNoteIndex {
		note = maxNoteIndex
	}
	octave := int(speed / octaveSpeedBand)
	if octave > maxOctave {
		octave = maxOctave
	}
	pos := b.Pos
	emit(events.Event{
		Type:   events.Note,
		Time:   now,
		Pos:    &pos,
		Params: map[string]any{"note": note, "octave": octave},
	})
}
