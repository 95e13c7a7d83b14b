// Package render rasterizes world state into packed RGB24 frames, the format
// the encoder pipes to ffmpeg. Everything is software: no GPU, no external
// imaging dependency on the hot path.
package render

import (
	"image"
	"image/color"

	"github.com/san-kum/ringfall/internal/palette"
)

// Frame is a packed 24-bit RGB pixel buffer, row-major, 3 bytes per pixel.
// The layout matches ffmpeg's rawvideo rgb24 input exactly, so the buffer is
// written to the pipe as-is.
type Frame struct {
	W, H int
	Pix  []byte
}

func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]byte, w*h*3)}
}

// Clear fills the frame with a solid color.
func (f *Frame) Clear(c palette.RGB) {
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = c.R
		f.Pix[i+1] = c.G
		f.Pix[i+2] = c.B
	}
}

// At returns the pixel color, zero outside the frame.
func (f *Frame) At(x, y int) palette.RGB {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return palette.RGB{}
	}
	i := (y*f.W + x) * 3
	return palette.RGB{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

// blend mixes c into the pixel with the given alpha. Out-of-bounds writes
// are dropped.
func (f *Frame) blend(x, y int, c palette.RGB, a float64) {
	if x < 0 || y < 0 || x >= f.W || y >= f.H || a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	i := (y*f.W + x) * 3
	f.Pix[i] = mix(f.Pix[i], c.R, a)
	f.Pix[i+1] = mix(f.Pix[i+1], c.G, a)
	f.Pix[i+2] = mix(f.Pix[i+2], c.B, a)
}

func mix(dst, src byte, a float64) byte {
	return byte(float64(dst)*(1-a) + float64(src)*a)
}

// Image copies the frame into an image.RGBA, used by the PNG fallback path.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := (y*f.W + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: 255})
		}
	}
	return img
}
