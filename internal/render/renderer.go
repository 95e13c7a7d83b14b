package render

import (
	"math"

	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
	"github.com/san-kum/ringfall/internal/world"
)

// Background is the near-black blue tint behind everything.
var Background = palette.RGB{R: 15, G: 15, B: 25}

const (
	edgeSoftness = 1.5 // px of antialias falloff on circle edges
	glowReach    = 12.0
	trailMaxSize = 0.8 // fraction of the ball radius for the newest segment
)

// Renderer draws one world snapshot into a frame. It holds no per-frame
// state, so a single renderer serves the whole run.
type Renderer struct {
	Glow bool
}

func New() *Renderer {
	return &Renderer{Glow: true}
}

// Draw rasterizes the full scene. The screen-shake offset translates every
// element; the background is unaffected.
func (r *Renderer) Draw(f *Frame, s *world.State) {
	f.Clear(Background)
	off := s.ShakeOffset()

	for _, g := range s.Gates {
		r.drawGate(f, g, off)
	}
	for i := range s.Particles() {
		r.drawParticle(f, &s.Particles()[i], off)
	}
	for _, b := range s.Balls {
		r.drawTrail(f, b, off)
		r.drawBall(f, b, off)
	}
}

// drawGate rasterizes the annulus band, skipping the gap arc when it is
// open. Scans only the band's bounding box.
func (r *Renderer) drawGate(f *Frame, g world.Gate, off geom.Vec2) {
	opacity := g.Opacity()
	if opacity <= 0 {
		return
	}
	c := g.Center().Add(off)
	outer := g.OuterRadius()
	inner := g.InnerRadius()
	col := g.AnimatedColor()
	gapOpen := g.GapOpen()
	glow := g.Glow()

	reach := edgeSoftness
	if r.Glow && glow > 0 {
		reach = glowReach
	}
	x0 := int(c.X - outer - reach)
	x1 := int(c.X + outer + reach)
	y0 := int(c.Y - outer - reach)
	y1 := int(c.Y + outer + reach)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := geom.V(float64(x), float64(y)).Sub(c)
			dist := d.Len()
			if dist > outer+reach || dist < inner-reach {
				continue
			}
			if gapOpen && g.InGap(geom.ScreenAngle(d)) {
				continue
			}

			a := coverage(dist, inner, outer) * opacity
			if a > 0 {
				f.blend(x, y, col, a)
			}
			if r.Glow && glow > 0 {
				h := halo(dist, inner, outer, glow)
				if h > 0 {
					f.blend(x, y, col, h*opacity)
				}
			}
		}
	}
}

// coverage is 1 inside the band and falls off linearly over the antialias
// margin on both edges.
func coverage(dist, inner, outer float64) float64 {
	switch {
	case dist >= inner && dist <= outer:
		return 1
	case dist > outer:
		return clamp01(1 - (dist-outer)/edgeSoftness)
	default:
		return clamp01(1 - (inner-dist)/edgeSoftness)
	}
}

func halo(dist, inner, outer, glow float64) float64 {
	var d float64
	switch {
	case dist > outer:
		d = dist - outer
	case dist < inner:
		d = inner - dist
	default:
		return 0
	}
	return clamp01(1-d/glowReach) * glow * 0.4
}

func (r *Renderer) drawBall(f *Frame, b *world.Ball, off geom.Vec2) {
	c := b.Pos.Add(off)
	col := b.Color
	if b.HitFlash > 0 {
		// Flash toward white right after an impact.
		t := clamp01(b.HitFlash / 0.1)
		col = lerpRGB(col, palette.RGB{R: 255, G: 255, B: 255}, t*0.8)
	}
	fillCircle(f, c, b.Radius, col, 1)

	// Specular highlight offset to the upper left.
	hl := c.Add(geom.V(-b.Radius*0.3, -b.Radius*0.3))
	fillCircle(f, hl, b.Radius*0.35, palette.RGB{R: 255, G: 255, B: 255}, 0.6)
}

func (r *Renderer) drawTrail(f *Frame, b *world.Ball, off geom.Vec2) {
	n := len(b.Trail)
	for i, p := range b.Trail {
		t := float64(i+1) / float64(n)
		size := b.Radius * trailMaxSize * t
		if size < 0.5 {
			continue
		}
		fillCircle(f, p.Add(off), size, b.Color, 0.35*t)
	}
}

func (r *Renderer) drawParticle(f *Frame, p *world.Particle, off geom.Vec2) {
	a := p.Alpha()
	if a <= 0 {
		return
	}
	size := p.Size * a
	fillCircle(f, p.Pos.Add(off), size, p.Color, a)
	if r.Glow && p.Glow {
		fillCircle(f, p.Pos.Add(off), size*2, p.Color, a*0.25)
	}
}

// fillCircle blends an antialiased disc.
func fillCircle(f *Frame, c geom.Vec2, radius float64, col palette.RGB, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	x0 := int(c.X - radius - 1)
	x1 := int(math.Ceil(c.X + radius + 1))
	y0 := int(c.Y - radius - 1)
	y1 := int(math.Ceil(c.Y + radius + 1))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dist := geom.V(float64(x), float64(y)).Sub(c).Len()
			if dist > radius+edgeSoftness {
				continue
			}
			a := alpha
			if dist > radius {
				a *= clamp01(1 - (dist-radius)/edgeSoftness)
			}
			f.blend(x, y, col, a)
		}
	}
}

func lerpRGB(a, b palette.RGB, t float64) palette.RGB {
	return palette.RGB{
		R: mix(a.R, b.R, t),
		G: mix(a.G, b.G, t),
		B: mix(a.B, b.B, t),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
