package palette

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultHexes is the stock palette used when no trend data supplies one.
var DefaultHexes = []string{"#FF0050", "#00F2EA", "#FFFFFF", "#FE2C55", "#25F4EE"}

// Default returns the parsed stock palette.
func Default() *Palette {
	p, err := Parse(DefaultHexes)
	if err != nil {
		panic(err) // the stock hexes are compile-time constants
	}
	return p
}

// RGB is an 8-bit color as written into raw rgb24 frames.
type RGB struct {
	R, G, B uint8
}

// Palette is a parsed, cyclic color list.
type Palette struct {
	colors []colorful.Color
}

func Parse(hexes []string) (*Palette, error) {
	if len(hexes) == 0 {
		hexes = DefaultHexes
	}
	p := &Palette{colors: make([]colorful.Color, 0, len(hexes))}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette: bad color %q: %w", h, err)
		}
		p.colors = append(p.colors, c)
	}
	return p, nil
}

func (p *Palette) Len() int { return len(p.colors) }

// At returns the i-th color, wrapping around the palette.
func (p *Palette) At(i int) RGB {
	c := p.colors[((i%len(p.colors))+len(p.colors))%len(p.colors)]
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}

// Animate pulses the value channel on the given period and drifts the hue,
// reproducing the glow the gates have while their gap is open.
func Animate(base RGB, pulseT, pulsePeriod, pulseAmount, hueShift float64) RGB {
	c := colorful.Color{R: float64(base.R) / 255, G: float64(base.G) / 255, B: float64(base.B) / 255}
	h, s, v := c.Hsv()
	h = math.Mod(h+hueShift, 360)
	v *= 1 + math.Sin(2*math.Pi*pulseT/pulsePeriod)*pulseAmount
	v = math.Min(1.0, math.Max(0.3, v))
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return RGB{r, g, b}
}

// Jitter shifts each channel by up to ±spread plus a fixed brighten offset,
// for impact particle colors.
func Jitter(base RGB, spread, brighten int, rng *rand.Rand) RGB {
	d := rng.Intn(2*spread+1) - spread
	return RGB{
		clamp8(int(base.R) + d + brighten),
		clamp8(int(base.G) + d + brighten),
		clamp8(int(base.B) + d + brighten),
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
