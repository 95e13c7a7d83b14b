package encoder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// waitTimeout bounds how long we give ffmpeg to flush and exit after its
// stdin closes before killing it.
const waitTimeout = 30 * time.Second

// Options describes one encode job.
type Options struct {
	Width   int
	Height  int
	FPS     int
	Codec   string // from Probe
	Bitrate string // e.g. "8000k"
	Output  string
}

// Process wraps a running ffmpeg reading rawvideo rgb24 from stdin.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Start launches ffmpeg. The returned process accepts exactly
// Width*Height*3 bytes per frame on Stdin.
func Start(ctx context.Context, opts Options) (*Process, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-pix_fmt", "rgb24",
		"-r", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-c:v", opts.Codec,
	}
	if opts.Codec == "libx264" {
		args = append(args, "-preset", "fast")
	}
	args = append(args,
		"-b:v", opts.Bitrate,
		"-pix_fmt", "yuv420p",
		opts.Output,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("encoder: starting ffmpeg: %w", err)
	}
	return &Process{cmd: cmd, stdin: stdin}, nil
}

// Stdin is the raw frame pipe.
func (p *Process) Stdin() io.WriteCloser { return p.stdin }

// Finish closes stdin and waits for ffmpeg to flush the container. A stuck
// process is killed after the wait timeout.
func (p *Process) Finish() error {
	_ = p.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("encoder: ffmpeg exited: %w", err)
		}
		return nil
	case <-time.After(waitTimeout):
		log.Printf("encoder: ffmpeg did not exit within %s, killing", waitTimeout)
		_ = p.cmd.Process.Kill()
		<-done
		return fmt.Errorf("encoder: ffmpeg killed after %s timeout", waitTimeout)
	}
}

// Kill tears the process down without waiting for a clean flush.
func (p *Process) Kill() {
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
}
