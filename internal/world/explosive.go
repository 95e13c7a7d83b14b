package world

import (
	"math/rand"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

// ExplosiveState is the terminal gate lifecycle:
// Circle -> Arc -> Disappearing -> Gone.
type ExplosiveState int

const (
	StateCircle ExplosiveState = iota
	StateArc
	StateDisappearing
	StateGone
)

func (s ExplosiveState) String() string {
	switch s {
	case StateCircle:
		return "circle"
	case StateArc:
		return "arc"
	case StateDisappearing:
		return "disappearing"
	default:
		return "gone"
	}
}

const disappearDuration = 1.0

type ExplosiveGate struct {
	ring
	state     ExplosiveState
	fadeTimer float64
}

func NewExplosiveGate(center geom.Vec2, outer, thickness, gapStart, gapWidth, rotSpeed float64, color palette.RGB, rng *rand.Rand) *ExplosiveGate {
	return &ExplosiveGate{
		ring: ring{
			center:    center,
			outer:     outer,
			thickness: thickness,
			gapStart:  gapStart,
			gapWidth:  gapWidth,
			rotSpeed:  rotSpeed,
			color:     color,
			rng:       rng,
		},
		state: StateCircle,
	}
}

func (g *ExplosiveGate) State() ExplosiveState { return g.state }

func (g *ExplosiveGate) Collidable() bool {
	return g.state == StateCircle || g.state == StateArc
}

func (g *ExplosiveGate) GapOpen() bool {
	return g.state == StateArc && g.gapWidth > 0
}

// InGap is only meaningful while the gap is open; a closed circle has no
// pass-through arc.
func (g *ExplosiveGate) InGap(angle float64) bool {
	return g.GapOpen() && g.ring.InGap(angle)
}

func (g *ExplosiveGate) Opacity() float64 {
	switch g.state {
	case StateDisappearing:
		if g.fadeTimer < 0 {
			return 0
		}
		return g.fadeTimer / disappearDuration
	case StateGone:
		return 0
	default:
		return 1
	}
}

// Activate opens the gap, turning the full circle into an arc. A no-op from
// any state other than Circle, so repeated calls cannot duplicate events or
// particle bursts.
func (g *ExplosiveGate) Activate(now float64, emit events.EmitFunc, spawn SpawnFunc) {
	if g.state != StateCircle {
		return
	}
	g.state = StateArc
	if emit != nil {
		pos := g.center
		emit(events.Event{Type: events.Activation, Time: now, Pos: &pos})
	}
	g.burst(30, spawn)
}

// TriggerDisappear starts the fade-out after a successful pass-through.
// Idempotent: only an open arc can disappear.
func (g *ExplosiveGate) TriggerDisappear(now float64, emit events.EmitFunc, spawn SpawnFunc) {
	if g.state != StateArc {
		return
	}
	g.state = StateDisappearing
	g.fadeTimer = disappearDuration
	if emit != nil {
		pos := g.center
		emit(events.Event{
			Type:   events.Explosion,
			Time:   now,
			Pos:    &pos,
			Params: map[string]any{"size": "large"},
		})
	}
	g.burst(150, spawn)
}

func (g *ExplosiveGate) Update(dt, now float64, emit events.EmitFunc, spawn SpawnFunc) {
	g.animate(dt, g.state == StateArc)

	if g.state == StateDisappearing {
		g.fadeTimer -= dt
		if g.fadeTimer <= 0 {
			g.state = StateGone
			return
		}
		// Decorative sparks while fading, roughly 20 per second.
		if g.rng.Float64() < 20*dt {
			g.burst(1, spawn)
		}
	}
}
