package render

import (
	"math"
	"testing"

	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
	"github.com/san-kum/ringfall/internal/world"
)

func testState() *world.State {
	return world.New(world.Options{
		Bounds:        geom.Rect{W: 200, H: 200},
		Gravity:       geom.V(0, 400),
		Mode:          world.ModeCascade,
		GateCount:     1,
		MinRadius:     80,
		Thickness:     10,
		GapWidth:      60,
		RotationSpeed: 60,
		BallCount:     1,
		BallRadius:    8,
		Elasticity:    1.0,
		Palette:       palette.Default(),
		Seed:          1,
	}, events.NewEmitter(), 1.0/60.0)
}

func TestFrameBufferShape(t *testing.T) {
	f := NewFrame(64, 48)
	if len(f.Pix) != 64*48*3 {
		t.Fatalf("pixel buffer length %d, want %d", len(f.Pix), 64*48*3)
	}
}

func TestDrawFillsBackground(t *testing.T) {
	f := NewFrame(200, 200)
	New().Draw(f, testState())

	// Corner pixels sit outside every scene element.
	if got := f.At(0, 0); got != Background {
		t.Errorf("corner pixel %v, want background %v", got, Background)
	}
	if got := f.At(199, 199); got != Background {
		t.Errorf("corner pixel %v, want background %v", got, Background)
	}
}

func TestDrawPaintsBall(t *testing.T) {
	s := testState()
	f := NewFrame(200, 200)
	New().Draw(f, s)

	b := s.Balls[0]
	got := f.At(int(b.Pos.X), int(b.Pos.Y))
	if got == Background {
		t.Errorf("pixel under the ball still background at %v", b.Pos)
	}
}

func TestDrawPaintsGateBand(t *testing.T) {
	s := testState()
	f := NewFrame(200, 200)
	New().Draw(f, s)

	g := s.Gates[0]
	mid := (g.InnerRadius() + g.OuterRadius()) / 2
	// Walk the band and require at least one painted sample; the gap arc
	// may cover any single probe angle.
	painted := 0
	for deg := 0; deg < 360; deg += 15 {
		a := float64(deg) * math.Pi / 180
		x := int(g.Center().X + mid*math.Cos(a))
		y := int(g.Center().Y + mid*math.Sin(a))
		if f.At(x, y) != Background {
			painted++
		}
	}
	if painted < 12 {
		t.Errorf("only %d of 24 band samples painted", painted)
	}
}

func TestBlendClampsAlpha(t *testing.T) {
	f := NewFrame(4, 4)
	f.blend(1, 1, palette.RGB{R: 200}, 2.0)
	if got := f.At(1, 1); got.R != 200 {
		t.Errorf("alpha above 1 should saturate, got R=%d", got.R)
	}
	f.blend(-1, 0, palette.RGB{R: 200}, 1.0) // must not panic
}
