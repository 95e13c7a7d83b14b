package palette

import (
	"math/rand"
	"testing"
)

func TestParse(t *testing.T) {
	p, err := Parse([]string{"#FF0050", "#00F2EA"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 colors, got %d", p.Len())
	}
	if c := p.At(0); c != (RGB{0xFF, 0x00, 0x50}) {
		t.Errorf("At(0) = %+v", c)
	}
	// Wraps around.
	if p.At(2) != p.At(0) || p.At(-1) != p.At(1) {
		t.Error("palette indexing should wrap")
	}
}

func TestParseDefaultsAndErrors(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatalf("default palette failed: %v", err)
	}
	if p.Len() != len(DefaultHexes) {
		t.Errorf("expected %d defaults, got %d", len(DefaultHexes), p.Len())
	}
	if Default().Len() != len(DefaultHexes) {
		t.Error("Default() should parse the stock hexes")
	}

	if _, err := Parse([]string{"not-a-color"}); err == nil {
		t.Error("expected error for malformed hex")
	}
}

func TestAnimateIdentityAtPhaseZero(t *testing.T) {
	// At pulse phase 0 with no hue shift the color passes through unchanged
	// (sin(0) = 0, so the value channel keeps its original level).
	base := RGB{0xFE, 0x2C, 0x55}
	got := Animate(base, 0, 1.5, 0.2, 0)
	if delta(got.R, base.R) > 1 || delta(got.G, base.G) > 1 || delta(got.B, base.B) > 1 {
		t.Errorf("Animate changed color at phase zero: %+v -> %+v", base, got)
	}
}

func TestJitterDeterministicWithSeed(t *testing.T) {
	a := Jitter(RGB{128, 128, 128}, 30, 50, rand.New(rand.NewSource(7)))
	b := Jitter(RGB{128, 128, 128}, 30, 50, rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("same seed produced %+v and %+v", a, b)
	}
}

func delta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
