package encoder

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// FrameDir is the fallback encode path: frames land on disk as PNGs and are
// stitched into a video in a second pass. Slower than the pipe, but immune
// to broken-pipe failures mid-run.
type FrameDir struct {
	dir   string
	count int
}

func NewFrameDir(dir string) (*FrameDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("encoder: creating frame dir: %w", err)
	}
	return &FrameDir{dir: dir}, nil
}

// WriteFrame stores the next frame as frame_NNNNNN.png.
func (d *FrameDir) WriteFrame(img image.Image) error {
	name := filepath.Join(d.dir, fmt.Sprintf("frame_%06d.png", d.count))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("encoder: creating %s: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoder: encoding %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("encoder: closing %s: %w", name, err)
	}
	d.count++
	return nil
}

func (d *FrameDir) Count() int { return d.count }

// Encode stitches the stored frames into a video and removes the frame
// directory on success.
func (d *FrameDir) Encode(ctx context.Context, fps int, codec, bitrate, output string) error {
	if d.count == 0 {
		return fmt.Errorf("encoder: no frames to encode")
	}
	args := []string{
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-i", filepath.Join(d.dir, "frame_%06d.png"),
		"-c:v", codec,
	}
	if codec == "libx264" {
		args = append(args, "-preset", "fast")
	}
	args = append(args, "-b:v", bitrate, "-pix_fmt", "yuv420p", output)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("encoder: frame encode: %w", err)
	}
	return os.RemoveAll(d.dir)
}
