package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ggielly/suicideballs/audio"
	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/game"
	"github.com/ggielly/suicideballs/headless"
	"github.com/ggielly/suicideballs/tui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headlessMode := flag.Bool("headless", false, "Run without graphics")
	terminal := flag.Bool("terminal", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	audioOn := flag.Bool("audio", false, "Play collision clicks (overrides audio.enabled)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := headless.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	var err error
	switch {
	case *headlessMode:
		err = runHeadless(cfg, opts, *maxTicks)
	case *terminal:
		err = runTerminal(cfg, opts, *maxTicks, *audioOn)
	default:
		err = runWindow(cfg, opts, *maxTicks, *audioOn)
	}
	// Every run function has released its resources by now.
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(cfg *config.Config, opts headless.Options, maxTicks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := headless.NewRunner(cfg, opts)
	if err != nil {
		return fmt.Errorf("starting simulation: %w", err)
	}
	defer closeRunner(r)

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)
	r.Run(maxTicks, func() bool { return ctx.Err() != nil })
	return nil
}

func runTerminal(cfg *config.Config, opts headless.Options, maxTicks int, audioFlag bool) error {
	r, err := headless.NewRunner(cfg, opts)
	if err != nil {
		return fmt.Errorf("starting simulation: %w", err)
	}
	defer closeRunner(r)

	// The runner has created the output dir. Logs move to run.log once the
	// terminal is up; until then they still reach stdout.
	var logOut io.Writer
	if opts.OutputDir != "" {
		f, err := os.Create(filepath.Join(opts.OutputDir, "run.log"))
		if err != nil {
			return fmt.Errorf("creating run log: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	clicker := openAudio(cfg, audioFlag)
	defer clicker.Close()

	v, err := tui.NewViewer(cfg, r, clicker, logOut)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer v.Close()

	v.Run(maxTicks)
	return nil
}

func runWindow(cfg *config.Config, opts headless.Options, maxTicks int, audioFlag bool) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Suicide Balls")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	clicker := openAudio(cfg, audioFlag)
	g, err := game.NewGame(cfg, game.Options{
		Headless: opts,
		Audio:    clicker,
	})
	if err != nil {
		clicker.Close()
		return fmt.Errorf("starting game: %w", err)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && !g.ShouldQuit() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	return nil
}
// openAudio returns an open clicker, or nil when audio is off or unavailable.
func openAudio(cfg *config.Config, force bool) *audio.Clicker {
	if !cfg.Audio.Enabled && !force {
		return nil
	}
	c := audio.New(cfg.Audio)
	if err := c.Open(); err != nil {
		slog.Warn("audio unavailable", "error", err)
		return nil
	}
	return c
}

func closeRunner(r *headless.Runner) {
	if err := r.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
