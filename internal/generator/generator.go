// Package generator wires the whole job together: config in, video file plus
// event timeline out. One Generator runs one job.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/ringfall/internal/config"
	"github.com/san-kum/ringfall/internal/encoder"
	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/export"
	"github.com/san-kum/ringfall/internal/geom"
	"github.com/san-kum/ringfall/internal/palette"
	"github.com/san-kum/ringfall/internal/render"
	"github.com/san-kum/ringfall/internal/world"
)

// minOutputSize is the sanity floor for a finished video file. Anything
// smaller is a container header with no frames.
const minOutputSize = 1024

// Snapshot feeds progress observers once per frame.
type Snapshot struct {
	Frame     int
	Total     int
	Time      float64
	EventRate float64 // events per second over the last second
	Stats     encoder.Stats
}

// Observer receives frame snapshots during Generate. Called from the
// producer goroutine; keep it cheap.
type Observer func(Snapshot)

type Generator struct {
	output   string
	cfg      *config.Config
	pal      *palette.Palette
	observer Observer

	emitter *events.Emitter
	meta    export.Metadata
}

func New(output string) *Generator {
	return &Generator{output: output}
}

func (g *Generator) SetObserver(fn Observer) { g.observer = fn }

// Configure validates the config and resolves the palette. Must be called
// before Generate.
func (g *Generator) Configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	pal := palette.Default()
	if len(cfg.Colors) > 0 {
		var err error
		pal, err = palette.Parse(cfg.Colors)
		if err != nil {
			return &config.ConfigurationError{Field: "colors", Reason: err.Error()}
		}
	}
	g.cfg = cfg
	g.pal = pal
	return nil
}

// AudioEvents returns the timeline of the last Generate call.
func (g *Generator) AudioEvents() []events.Event {
	if g.emitter == nil {
		return nil
	}
	return g.emitter.Events()
}

// Metadata describes the last finished job.
func (g *Generator) Metadata() export.Metadata { return g.meta }

func (g *Generator) worldOptions() world.Options {
	cfg := g.cfg
	mode := world.ModeCascade
	if cfg.Gates.Mode == "infinite" {
		mode = world.ModeInfinite
	}
	return world.Options{
		Bounds:        geom.Rect{W: float64(cfg.Video.Width), H: float64(cfg.Video.Height)},
		Gravity:       geom.V(0, cfg.Physics.Gravity),
		Mode:          mode,
		GateCount:     cfg.Gates.Count,
		MinRadius:     cfg.Gates.MinRadius,
		Spacing:       cfg.Gates.Spacing,
		Thickness:     cfg.Gates.Thickness,
		GapWidth:      cfg.Gates.GapWidth,
		RotationSpeed: cfg.Gates.RotationSpeed,
		GapSpeedStep:  cfg.Gates.GapSpeedStep,
		StartAngle:    cfg.Gates.StartAngle,
		RandomGap:     cfg.Gates.RandomGap,
		AllOpen:       cfg.Gates.AllOpen,
		BallCount:     cfg.Balls.Count,
		BallRadius:    cfg.Balls.Radius,
		Elasticity:    cfg.Balls.Elasticity,
		ShrinkFactor:  cfg.Gates.ShrinkFactor,
		MinGateRadius: cfg.Gates.MinGateRadius,
		MaxPassages:   cfg.Gates.MaxPassages,
		Palette:       g.pal,
		Seed:          cfg.Seed,
	}
}

// Generate runs the full pipeline and returns the output path. Cancelling
// the context stops the simulation early but still finalizes the file with
// the frames produced so far. A broken encoder pipe triggers one retry via
// the PNG fallback path; the seeded world makes the re-run identical.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	if g.cfg == nil {
		return "", errors.New("generator: not configured")
	}

	codec, err := encoder.Probe(ctx)
	if err != nil {
		return "", err
	}
	log.Printf("generator: using codec %s", codec)

	pipeErr := g.streamRun(ctx, codec)
	if pipeErr != nil {
		if !errors.Is(pipeErr, encoder.ErrWriteFailed) {
			return "", pipeErr
		}
		log.Printf("generator: pipe run failed (%v), retrying via frame directory", pipeErr)
		if err := g.fallbackRun(ctx, codec); err != nil {
			return "", fmt.Errorf("generator: fallback after %v: %w", pipeErr, err)
		}
	}

	if err := checkOutput(g.output); err != nil {
		return "", err
	}
	if err := export.WriteArtifacts(g.output, g.meta, g.AudioEvents()); err != nil {
		return "", err
	}
	return g.output, nil
}

// streamRun is the primary path: rendered frames go straight down the
// ffmpeg stdin pipe through the bounded sink.
func (g *Generator) streamRun(ctx context.Context, codec string) error {
	cfg := g.cfg
	w, h := cfg.Video.Width, cfg.Video.Height
	dt := 1.0 / float64(cfg.Video.FPS)
	total := int(float64(cfg.Video.FPS) * cfg.Video.Duration)

	g.emitter = events.NewEmitter()
	state := world.New(g.worldOptions(), g.emitter, dt)

	proc, err := encoder.Start(ctx, encoder.Options{
		Width: w, Height: h, FPS: cfg.Video.FPS,
		Codec: codec, Bitrate: cfg.Video.Bitrate, Output: g.output,
	})
	if err != nil {
		return err
	}

	policy := encoder.DropOldest
	if cfg.Pipeline.OnFull == "block" {
		policy = encoder.Block
	}
	pool := encoder.NewFramePool(w, h)
	sink := encoder.NewSink(proc.Stdin(), cfg.Pipeline.QueueSize, policy, pool)

	renderer := render.New()
	renderer.Glow = cfg.Pipeline.Glow

	produced := 0
	rateWindow := 0
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			log.Printf("generator: canceled after %d/%d frames", i, total)
			i = total
			continue
		default:
		}

		state.Step()

		frame := render.Frame{W: w, H: h, Pix: pool.Get()}
		renderer.Draw(&frame, state)
		if err := sink.Push(frame.Pix); err != nil && !errors.Is(err, encoder.ErrWriteFailed) {
			proc.Kill()
			return err
		}
		produced++

		if g.observer != nil {
			if i%cfg.Video.FPS == 0 {
				rateWindow = g.emitter.Len()
			}
			g.observer(Snapshot{
				Frame:     i + 1,
				Total:     total,
				Time:      state.Time(),
				EventRate: float64(g.emitter.Len() - rateWindow),
				Stats:     sink.Stats(),
			})
		}
	}

	sinkErr := sink.Close()
	finishErr := proc.Finish()

	g.captureMetadata(codec, produced, sink.Stats().Dropped)

	if sinkErr != nil && !errors.Is(sinkErr, encoder.ErrSinkClosed) {
		return sinkErr
	}
	if finishErr != nil {
		return fmt.Errorf("%w: %v", encoder.ErrWriteFailed, finishErr)
	}
	return nil
}

// fallbackRun re-renders the whole job into numbered PNGs and encodes them
// in one pass. Same config, same seed, same frames.
func (g *Generator) fallbackRun(ctx context.Context, codec string) error {
	cfg := g.cfg
	dt := 1.0 / float64(cfg.Video.FPS)
	total := int(float64(cfg.Video.FPS) * cfg.Video.Duration)

	g.emitter = events.NewEmitter()
	state := world.New(g.worldOptions(), g.emitter, dt)

	dir, err := encoder.NewFrameDir(framesDir(g.output))
	if err != nil {
		return err
	}

	renderer := render.New()
	renderer.Glow = cfg.Pipeline.Glow
	frame := render.NewFrame(cfg.Video.Width, cfg.Video.Height)

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			log.Printf("generator: canceled after %d/%d frames", i, total)
			i = total
			continue
		default:
		}
		state.Step()
		renderer.Draw(frame, state)
		if err := dir.WriteFrame(frame.Image()); err != nil {
			return err
		}
	}

	if err := dir.Encode(ctx, cfg.Video.FPS, codec, cfg.Video.Bitrate, g.output); err != nil {
		return err
	}
	g.captureMetadata(codec, dir.Count(), 0)
	return nil
}

func (g *Generator) captureMetadata(codec string, frames int, dropped int64) {
	g.meta = export.Metadata{
		Path:       g.output,
		Width:      g.cfg.Video.Width,
		Height:     g.cfg.Video.Height,
		FPS:        g.cfg.Video.FPS,
		Duration:   float64(frames) / float64(g.cfg.Video.FPS),
		FrameCount: frames,
		Codec:      codec,
		Seed:       g.cfg.Seed,
		Mode:       g.cfg.Gates.Mode,
		Events:     g.emitter.Len(),
		Dropped:    dropped,
		CreatedAt:  time.Now(),
	}
}

func framesDir(output string) string {
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	return filepath.Join(dir, "."+base+".frames")
}

func checkOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("generator: output missing: %w", err)
	}
	if info.Size() <= minOutputSize {
		return fmt.Errorf("generator: output %s suspiciously small (%d bytes)", path, info.Size())
	}
	return nil
}
