package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ringfall/internal/config"
	"github.com/san-kum/ringfall/internal/encoder"
	"github.com/san-kum/ringfall/internal/events"
	"github.com/san-kum/ringfall/internal/export"
	"github.com/san-kum/ringfall/internal/generator"
	"github.com/san-kum/ringfall/internal/progress"
	"github.com/san-kum/ringfall/internal/trend"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	trendFile  string
	duration   float64
	fps        int
	width      int
	height     int
	mode       string
	gates      int
	gapWidth   float64
	balls      int
	seed       int64
	bitrate    string
	policy     string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ringfall",
		Short: "bouncing-ball gate videos rendered through ffmpeg",
	}

	generateCmd := &cobra.Command{
		Use:   "generate [output.mp4]",
		Short: "simulate and encode one video",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	generateCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	generateCmd.Flags().StringVar(&trendFile, "trend", "", "trend hand-off file (json)")
	generateCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "video duration in seconds")
	generateCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	generateCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "frame width")
	generateCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "frame height")
	generateCmd.Flags().StringVar(&mode, "mode", "", "gate mode: cascade or infinite")
	generateCmd.Flags().IntVar(&gates, "gates", config.DefaultGates, "number of gates")
	generateCmd.Flags().Float64Var(&gapWidth, "gap", config.DefaultGapWidth, "gap width in degrees")
	generateCmd.Flags().IntVar(&balls, "balls", 1, "number of balls")
	generateCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	generateCmd.Flags().StringVar(&bitrate, "bitrate", config.DefaultBitrate, "video bitrate")
	generateCmd.Flags().StringVar(&policy, "on-full", "", "queue policy: drop_oldest or block")
	generateCmd.Flags().BoolVar(&quiet, "quiet", false, "log lines instead of the live view")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "report the h264 encoder ffmpeg would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := encoder.Probe(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(codec)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPresets,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [output.mp4]",
		Short: "summarize the artifacts of a finished render",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(generateCmd, probeCmd, presetsCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildConfig layers preset, config file and explicit flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if trendFile != "" {
		td, err := trend.Load(trendFile)
		if err != nil {
			return nil, err
		}
		td.Apply(cfg)
	}

	// Explicit flags win over everything.
	if cmd.Flags().Changed("time") {
		cfg.Video.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		cfg.Video.FPS = fps
	}
	if cmd.Flags().Changed("width") {
		cfg.Video.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Video.Height = height
	}
	if cmd.Flags().Changed("mode") {
		cfg.Gates.Mode = mode
	}
	if cmd.Flags().Changed("gates") {
		cfg.Gates.Count = gates
	}
	if cmd.Flags().Changed("gap") {
		cfg.Gates.GapWidth = gapWidth
	}
	if cmd.Flags().Changed("balls") {
		cfg.Balls.Count = balls
	}
	if cmd.Flags().Changed("bitrate") {
		cfg.Video.Bitrate = bitrate
	}
	if cmd.Flags().Changed("on-full") {
		cfg.Pipeline.OnFull = policy
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	gen := generator.New(args[0])
	if err := gen.Configure(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	var path string

	if quiet {
		rep := progress.NewLogReporter(2 * time.Second)
		gen.SetObserver(rep.Observe)
		path, err = gen.Generate(ctx)
	} else {
		snaps := make(chan generator.Snapshot, 16)
		gen.SetObserver(func(s generator.Snapshot) {
			select {
			case snaps <- s:
			default: // UI behind, skip the snapshot
			}
		})

		done := make(chan struct{})
		go func() {
			path, err = gen.Generate(ctx)
			close(snaps)
			close(done)
		}()

		p := tea.NewProgram(progress.NewModel(snaps))
		if _, uiErr := p.Run(); uiErr != nil {
			fmt.Fprintln(os.Stderr, "progress view failed:", uiErr)
		}
		<-done
	}
	if err != nil {
		return err
	}

	meta := gen.Metadata()
	fmt.Printf("wrote %s (%d frames, %s, %v)\n",
		path, meta.FrameCount, meta.Codec, time.Since(start).Truncate(time.Millisecond))
	fmt.Printf("events: %d, dropped frames: %d\n", meta.Events, meta.Dropped)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	meta, err := export.LoadMetadata(args[0])
	if err != nil {
		return fmt.Errorf("no metadata next to %s: %w", args[0], err)
	}
	evs, err := export.LoadEvents(args[0])
	if err != nil {
		return fmt.Errorf("no event timeline next to %s: %w", args[0], err)
	}

	fmt.Printf("%s: %dx%d @ %d fps, %.1fs, %d frames, %s, mode %s, seed %d\n",
		meta.Path, meta.Width, meta.Height, meta.FPS, meta.Duration,
		meta.FrameCount, meta.Codec, meta.Mode, meta.Seed)
	if meta.Dropped > 0 {
		fmt.Printf("dropped frames: %d\n", meta.Dropped)
	}

	counts := map[events.Type]int{}
	for _, ev := range evs {
		counts[ev.Type]++
	}
	fmt.Printf("events: %d total\n", len(evs))
	for _, t := range []events.Type{events.Note, events.Explosion, events.Activation, events.Passage, events.Victory} {
		if counts[t] > 0 {
			fmt.Printf("  %-10s %d\n", t, counts[t])
		}
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
