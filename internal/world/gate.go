package world

import (
	"math"
	"math/rand"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

// Gate is a rotating annulus with an angular gap. Two implementations exist:
// ExplosiveGate runs a terminal Circle/Arc/Disappearing/Gone lifecycle,
// RecyclingGate shrinks and respawns indefinitely.
type Gate interface {
	Center() geom.Vec2
	InnerRadius() float64
	OuterRadius() float64

	// Collidable reports whether the gate's boundary circles take part in
	// collision tests this step.
	Collidable() bool

	// GapOpen reports whether the angular gap currently admits pass-through.
	GapOpen() bool

	// InGap tests a screen angle (degrees, counter-clockwise) against the
	// current gap arc, wraparound included.
	InGap(angle float64) bool

	GapStart() float64
	GapWidth() float64

	// Opacity is 1 for a solid gate and falls toward 0 while it fades.
	Opacity() float64

	// AnimatedColor is the gate's draw color for this frame, with the pulse
	// and hue drift applied.
	AnimatedColor() palette.RGB

	// Glow is the halo strength in [0,1] driven by ball proximity and hits.
	Glow() float64

	Update(dt, now float64, emit events.EmitFunc, spawn SpawnFunc)
}

const (
	pulsePeriod = 1.5
	pulseAmount = 0.2
	hueDriftDeg = 15.0 // deg/s while the gap is open
)

// ring carries the geometry and animation state shared by both gate
// variants.
type ring struct {
	center    geom.Vec2
	outer     float64
	thickness float64
	gapStart  float64
	gapWidth  float64
	rotSpeed  float64 // deg/s
	color     palette.RGB
	pulseT    float64
	hueShift  float64
	glow      float64
	rng       *rand.Rand
}

func (r *ring) Center() geom.Vec2    { return r.center }
func (r *ring) OuterRadius() float64 { return r.outer }
func (r *ring) InnerRadius() float64 { return r.outer - r.thickness }
func (r *ring) GapStart() float64    { return r.gapStart }
func (r *ring) GapWidth() float64    { return r.gapWidth }
func (r *ring) Glow() float64        { return r.glow }

func (r *ring) InGap(angle float64) bool {
	return geom.AngleInArc(r.gapStart, r.gapWidth, angle)
}

func (r *ring) AnimatedColor() palette.RGB {
	return palette.Animate(r.color, r.pulseT, pulsePeriod, pulseAmount, r.hueShift)
}

func (r *ring) animate(dt float64, open bool) {
	r.pulseT = math.Mod(r.pulseT+dt, pulsePeriod)
	if open {
		r.hueShift = math.Mod(r.hueShift+hueDriftDeg*dt, 360)
		r.gapStart = math.Mod(r.gapStart+r.rotSpeed*dt+360, 360)
	}
	if r.glow > 0 {
		r.glow = math.Max(0, r.glow-dt)
	}
}

// markHit raises the glow halo after a ball strikes the band.
func (r *ring) markHit() {
	if r.glow < 0.5 {
		r.glow = 0.5
	}
}

// burst scatters particles across the annulus band.
func (r *ring) burst(n int, spawn SpawnFunc) {
	if spawn == nil {
		return
	}
	for i := 0; i < n; i++ {
		ang := r.rng.Float64() * 2 * math.Pi
		rad := r.InnerRadius() + r.rng.Float64()*r.thickness
		dir := geom.V(math.Cos(ang), math.Sin(ang))
		life := 0.5 + r.rng.Float64()
		spawn(Particle{
			Pos:     r.center.Add(dir.Scale(rad)),
			Vel:     dir.Scale(100 + r.rng.Float64()*200),
			Color:   palette.Jitter(r.AnimatedColor(), 50, 0, r.rng),
			Size:    3 + r.rng.Float64()*5,
			Life:    life,
			MaxLife: life,
			Glow:    true,
		})
	}
}
