// Package headless drives a simulation world with telemetry but no graphics.
// The windowed and terminal drivers reuse Runner for stepping.
package headless

import (
	"fmt"
	"log/slog"

	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/sim"
	"github.com/ggielly/suicideballs/telemetry"
)

// Options configures a Runner.
type Options struct {
	Seed           int64
	LogStats       bool    // log each stats window via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	StepsPerUpdate int     // ticks per Update call
}

// Runner owns a world plus its telemetry.
type Runner struct {
	cfg   *config.Config
	world *sim.World
	dt    float32

	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	steps         int
	statsCallback func(telemetry.WindowStats)

	balls []sim.BallView // scratch for flushes
}

// NewRunner creates a runner over a fresh world built from cfg.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	r := &Runner{
		cfg:       cfg,
		world:     sim.New(cfg, opts.Seed),
		dt:        cfg.Derived.DT32,
		collector: telemetry.NewCollector(window, cfg.Derived.DT32),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:    output,
		logStats:  opts.LogStats,
		steps:     steps,
	}
	r.world.SetPhaseTimer(r.perf)
	if dir := output.Dir(); dir != "" {
		slog.Info("writing run output", "dir", dir)
	}
	return r, nil
}

// SetStatsCallback registers fn to receive every flushed window.
func (r *Runner) SetStatsCallback(fn func(telemetry.WindowStats)) {
	r.statsCallback = fn
}

// World returns the simulated world.
func (r *Runner) World() *sim.World {
	return r.world
}

// Perf returns the perf collector, for frame timing by graphical drivers.
func (r *Runner) Perf() *telemetry.PerfCollector {
	return r.perf
}

// Tick returns the number of completed ticks.
func (r *Runner) Tick() int32 {
	return r.world.Tick()
}

// Update runs the configured number of ticks per call.
func (r *Runner) Update() {
	for i := 0; i < r.steps; i++ {
		r.Step()
	}
}

// Step runs exactly one tick and flushes telemetry when a window closes.
func (r *Runner) Step() {
	r.perf.StartTick()
	r.world.Advance(r.dt)

	r.perf.StartPhase(telemetry.PhaseTelemetry)
	r.collector.RecordTick(r.world.Counters(), r.world.BallCount())
	r.flushTelemetry()
	r.perf.EndTick()
}

// flushTelemetry checks if the stats window should be flushed.
func (r *Runner) flushTelemetry() {
	tick := r.world.Tick()
	if !r.collector.ShouldFlush(tick) {
		return
	}

	r.balls = r.world.Balls(r.balls)
	stats := r.collector.Flush(tick, r.balls, r.world.Bounciness(), r.world.Gravity())
	perfStats := r.perf.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Run steps until maxTicks is reached (0 = forever) or stop returns true.
// stop may be nil.
func (r *Runner) Run(maxTicks int, stop func() bool) {
	for {
		r.Update()

		if maxTicks > 0 && int(r.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", r.Tick())
			return
		}
		if stop != nil && stop() {
			return
		}
	}
}

// Close flushes and closes output files.
func (r *Runner) Close() error {
	return r.output.Close()
}
