package world

import (
	"math/rand"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
)

// RecyclingState is the non-terminal lifecycle: Active -> Recycling ->
// Active, shrinking on every cycle.
type RecyclingState int

const (
	StateActive RecyclingState = iota
	StateRecycling
)

func (s RecyclingState) String() string {
	if s == StateActive {
		return "active"
	}
	return "recycling"
}

const recycleDuration = 0.6

type RecyclingGate struct {
	ring
	state        RecyclingState
	recycleTimer float64
	shrinkFactor float64
	minOuter     float64
	cycles       int
}

func NewRecyclingGate(center geom.Vec2, outer, thickness, gapStart, gapWidth, rotSpeed float64, color palette.RGB, shrinkFactor, minOuter float64, rng *rand.Rand) *RecyclingGate {
	return &RecyclingGate{
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
		state:        StateActive,
		shrinkFactor: shrinkFactor,
		minOuter:     minOuter,
	}
}

func (g *RecyclingGate) State() RecyclingState { return g.state }
func (g *RecyclingGate) Cycles() int           { return g.cycles }

func (g *RecyclingGate) Collidable() bool { return g.state == StateActive }

func (g *RecyclingGate) GapOpen() bool {
	return g.state == StateActive && g.gapWidth > 0
}

func (g *RecyclingGate) InGap(angle float64) bool {
	return g.GapOpen() && g.ring.InGap(angle)
}

func (g *RecyclingGate) Opacity() float64 {
	if g.state != StateRecycling {
		return 1
	}
	// Fade back in as the recycle animation runs down.
	frac := g.recycleTimer / recycleDuration
	if frac < 0 {
		frac = 0
	}
	return 1 - 0.7*frac
}

// Recycle shrinks the gate by its shrink factor (floored at the minimum
// radius), rolls a fresh gap angle, and parks it in the Recycling state for
// the animation. Returns false without side effects when the gate is
// already mid-recycle.
func (g *RecyclingGate) Recycle(now float64, emit events.EmitFunc, spawn SpawnFunc) bool {
	if g.state != StateActive {
		return false
	}
	g.state = StateRecycling
	g.recycleTimer = recycleDuration
	g.cycles++

	next := g.outer * g.shrinkFactor
	if next < g.minOuter {
		next = g.minOuter
	}
	// Keep the band a sane shape even at the floor.
	if next < g.thickness*2 {
		next = g.thickness * 2
	}
	g.outer = next
	g.gapStart = g.rng.Float64() * 360

	g.burst(40, spawn)
	return true
}

func (g *RecyclingGate) Update(dt, now float64, emit events.EmitFunc, spawn SpawnFunc) {
	g.animate(dt, g.state == StateActive)

	if g.state == StateRecycling {
		g.recycleTimer -= dt
		if g.recycleTimer <= 0 {
			g.state = StateActive
		}
	}
}
