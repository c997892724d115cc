// Package game is the windowed raylib driver: fixed-step simulation,
// collision clicks and the side panel.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ggielly/suicideballs/audio"
	"github.com/ggielly/suicideballs/clock"
	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/headless"
	"github.com/ggielly/suicideballs/input"
	"github.com/ggielly/suicideballs/sim"
	"github.com/ggielly/suicideballs/ui"
)

// maxFrameSteps bounds the catch-up work after a stalled frame, per speed step.
const maxFrameSteps = 5

// Options configures a windowed game.
type Options struct {
	Headless headless.Options
	Audio    *audio.Clicker // nil = silent
}

// Game holds the complete windowed state.
type Game struct {
	cfg    *config.Config
	runner *headless.Runner
	world  *sim.World

	acc     *clock.Accumulator
	dropped int
	frames  *clock.FrameMeter
	speed   input.Speed
	quit    bool

	clicker *audio.Clicker
	hud     *ui.HUD
	perf    *ui.PerfPanel
	hudData ui.HUDData

	showPerf bool
	balls    []sim.BallView
}

// NewGame creates a game. The raylib window must already be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	runner, err := headless.NewRunner(cfg, opts.Headless)
	if err != nil {
		return nil, err
	}

	simW := int32(cfg.Arena.SimWidth)
	g := &Game{
		cfg:     cfg,
		runner:  runner,
		world:   runner.World(),
		acc:     clock.NewAccumulator(cfg.Physics.DT, maxFrameSteps),
		frames:  clock.NewFrameMeter(cfg.Telemetry.FrameWindow),
		speed:   input.Speed{Steps: 1, Max: cfg.Controls.MaxSpeed},
		clicker: opts.Audio,
		hud:     ui.NewHUD(simW, int32(cfg.Derived.HUDWidth), int32(cfg.Screen.Height)),
		perf:    ui.NewPerfPanel(10, 10),
	}
	if s := opts.Headless.StepsPerUpdate; s > 1 {
		g.speed.Steps = min(s, g.speed.Max)
	}
	return g, nil
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int32 {
	return g.runner.Tick()
}

// ShouldQuit reports whether the user asked to leave.
func (g *Game) ShouldQuit() bool {
	return g.quit
}

// Update handles input and advances the simulation by the real frame time.
func (g *Game) Update() {
	g.runner.Perf().RecordFrame()
	elapsed := float64(rl.GetFrameTime())
	g.frames.Record(elapsed)

	for _, cmd := range g.handleInput() {
		g.apply(cmd)
	}

	if g.speed.Paused {
		return
	}

	steps := g.acc.Advance(elapsed, g.speed.Steps)
	if d := g.acc.Dropped(); d > g.dropped {
		slog.Debug("ticks dropped", "frame_s", elapsed, "dropped", d-g.dropped, "total", d)
		g.dropped = d
	}
	wallHits, ballHits := 0, 0
	for i := 0; i < steps; i++ {
		g.runner.Step()
		c := g.world.Counters()
		wallHits += c.WallTick
		ballHits += c.BallTick
	}
	g.clicker.Collisions(wallHits, ballHits)
}

func (g *Game) apply(cmd input.Command) {
	if input.Apply(g.world, cmd) {
		slog.Debug("control", "command", cmd.String(),
			"bounciness", g.world.Bounciness(),
			"gravity", g.world.Gravity().String(),
			"spawn", g.world.BallsToSpawn(),
		)
		return
	}
	if g.speed.Handle(cmd) {
		g.quit = true
	}
}

// applyHUD applies the panel widget changes of the last frame.
func (g *Game) applyHUD(act ui.HUDActions) {
	if act.SetBounciness {
		g.world.SetBounciness(act.Bounciness)
	}
	if act.ToggleGravity {
		g.apply(input.ToggleGravity)
	}
	if act.SpawnUp {
		g.apply(input.SpawnUp)
	}
	if act.SpawnDown {
		g.apply(input.SpawnDown)
	}
}

// Unload releases audio and flushes telemetry output.
func (g *Game) Unload() {
	g.clicker.Close()
	if err := g.runner.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
