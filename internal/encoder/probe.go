// Package encoder turns rendered frames into an H.264 video by piping raw
// RGB24 bytes into an ffmpeg subprocess. A bounded queue decouples the
// simulation loop from encoder throughput.
package encoder

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Preference order: hardware encoders first, software x264 as the safety
// net present in every ffmpeg build worth using.
var codecPreference = []string{"h264_nvenc", "h264_amf", "h264_qsv", "libx264"}

// Probe locates ffmpeg and picks the best available H.264 encoder. The
// result is safe to cache for the life of the process.
func Probe(ctx context.Context) (codec string, err error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return "", fmt.Errorf("%w: ffmpeg not on PATH: %v", ErrUnavailable, err)
	}

	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return "", fmt.Errorf("encoder: probing encoders: %w", err)
	}

	listing := string(out)
	for _, c := range codecPreference {
		if strings.Contains(listing, " "+c+" ") || strings.Contains(listing, " "+c+"\n") {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: no supported h264 encoder in ffmpeg build", ErrUnavailable)
}
