package world_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
	"github.com/san-kum/ringfall/internal/world"
)

const dt60 = 1.0 / 60.0

func closedGate(outer, thickness float64) *world.ExplosiveGate {
	rng := rand.New(rand.NewSource(1))
	return world.NewExplosiveGate(geom.V(500, 500), outer, thickness, 0, 60, 0, palette.RGB{R: 255}, rng)
}

// A ball moving fast enough to jump the whole band in one frame must still
// bounce off it.
func TestBallDoesNotTunnelThroughThinGate(t *testing.T) {
	gate := closedGate(200, 15) // inner boundary at 185
	ball := world.NewBall(geom.V(500+170, 500), geom.V(3900, 0), 10, 1.0, palette.RGB{B: 255})
	gates := []world.Gate{gate}
	bounds := geom.Rect{W: 1000, H: 1000}

	var impacts int
	for i := 0; i < 60; i++ {
		res := ball.Update(dt60, geom.Vec2{}, bounds, gates, float64(i)*dt60, nil)
		for _, imp := range res.Impacts {
			if imp.Gate != nil {
				impacts++
			}
		}
		dist := ball.Pos.Sub(gate.Center()).Len()
		if dist > gate.InnerRadius()-ball.Radius+1 {
			t.Fatalf("frame %d: ball escaped the closed gate, dist=%.1f", i, dist)
		}
	}
	if impacts == 0 {
		t.Fatal("expected at least one gate impact")
	}
}

func TestBallSpeedClamp(t *testing.T) {
	ball := world.NewBall(geom.V(500, 500), geom.V(10000, 0), 10, 1.0, palette.RGB{})
	ball.Update(dt60, geom.Vec2{}, geom.Rect{W: 10000, H: 10000}, nil, 0, nil)
	if speed := ball.Vel.Len(); speed > world.MaxSpeed+1e-6 {
		t.Errorf("speed %.1f exceeds clamp %v", speed, world.MaxSpeed)
	}
}

// With elasticity 1.0 and no gravity, bouncing must conserve speed exactly.
func TestBallEnergyConservedAtUnitElasticity(t *testing.T) {
	ball := world.NewBall(geom.V(100, 100), geom.V(537, -291), 10, 1.0, palette.RGB{})
	bounds := geom.Rect{W: 400, H: 400}
	want := ball.Vel.Len()

	for i := 0; i < 600; i++ {
		ball.Update(dt60, geom.Vec2{}, bounds, nil, float64(i)*dt60, nil)
		if got := ball.Vel.Len(); math.Abs(got-want) > 1e-6 {
			t.Fatalf("frame %d: speed drifted from %.6f to %.6f", i, want, got)
		}
	}
}

func TestBallWallBounceEmitsBandedNote(t *testing.T) {
	tests := []struct {
		name       string
		speed      float64
		wantNote   int
		wantOctave int
	}{
		{"slow", 100, 0, 0},
		{"mid", 450, 3, 1},
		{"fast", 2000, 6, 2}, // both bands saturate
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := events.NewEmitter()
			ball := world.NewBall(geom.V(10.5, 500), geom.V(-tt.speed, 0), 10, 1.0, palette.RGB{})
			ball.Update(dt60, geom.Vec2{}, geom.Rect{W: 1000, H: 1000}, nil, 0, em.Emit)

			if em.Count(events.Note) == 0 {
				t.Fatal("expected a note event from the wall bounce")
			}
			ev := em.Events()[0]
			if got := ev.Params["note"].(int); got != tt.wantNote {
				t.Errorf("note = %d, want %d", got, tt.wantNote)
			}
			if got := ev.Params["octave"].(int); got != tt.wantOctave {
				t.Errorf("octave = %d, want %d", got, tt.wantOctave)
			}
		})
	}
}

// The note must band the speed the ball arrived with, not the speed it
// leaves with, so wall and gate bounces agree at any elasticity.
func TestBallWallNoteUsesPreImpactSpeed(t *testing.T) {
	em := events.NewEmitter()
	ball := world.NewBall(geom.V(10.5, 500), geom.V(-450, 0), 10, 0.5, palette.RGB{})
	ball.Update(dt60, geom.Vec2{}, geom.Rect{W: 1000, H: 1000}, nil, 0, em.Emit)

	if em.Count(events.Note) == 0 {
		t.Fatal("expected a note event from the wall bounce")
	}
	ev := em.Events()[0]
	if got := ev.Params["note"].(int); got != 3 {
		t.Errorf("note = %d, want 3 (450 / 150)", got)
	}
	if got := ev.Params["octave"].(int); got != 1 {
		t.Errorf("octave = %d, want 1 (450 / 300)", got)
	}
}

func TestBallTrailBounded(t *testing.T) {
	ball := world.NewBall(geom.V(500, 500), geom.V(200, 100), 10, 1.0, palette.RGB{})
	for i := 0; i < 100; i++ {
		ball.Update(dt60, geom.V(0, 400), geom.Rect{W: 1000, H: 1000}, nil, float64(i)*dt60, nil)
	}
	if len(ball.Trail) > 15 {
		t.Errorf("trail length %d exceeds cap", len(ball.Trail))
	}
	if len(ball.Trail) == 0 {
		t.Error("trail never populated")
	}
}

// An open gap aligned with the motion must record a crossing, not a bounce.
func TestBallPassesThroughOpenGap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Full-circle gap: every angle is open.
	full := world.NewExplosiveGate(geom.V(500, 500), 200, 15, 0, 360, 0, palette.RGB{}, rng)
	full.Activate(0, nil, nil)

	ball := world.NewBall(geom.V(500, 500), geom.V(600, 0), 10, 1.0, palette.RGB{})
	var crossings, impacts int
	for i := 0; i < 60; i++ {
		res := ball.Update(dt60, geom.Vec2{}, geom.Rect{W: 2000, H: 2000}, []world.Gate{full}, float64(i)*dt60, nil)
		crossings += len(res.Crossings)
		impacts += len(res.Impacts)
	}
	if crossings == 0 {
		t.Fatal("expected a gap crossing")
	}
	if impacts != 0 {
		t.Errorf("expected no impacts through a fully open gap, got %d", impacts)
	}
}
