package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ggielly/suicideballs/input"
	"github.com/ggielly/suicideballs/ui"
)

// Draw renders the arena, the balls and the side panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	drawArena(g.world.Arena())

	g.balls = g.world.Balls(g.balls)
	for i := range g.balls {
		drawTrail(&g.balls[i])
		drawBall(&g.balls[i])
	}

	g.fillHUD()
	act := g.hud.Draw(&g.hudData)
	g.hud.DrawControls(input.Legend)

	if g.showPerf {
		g.drawPerf()
	}

	rl.EndDrawing()

	g.applyHUD(act)
}

func (g *Game) fillHUD() {
	c := g.world.Counters()
	d := &g.hudData
	d.FPS = int(math.Round(g.frames.FPS()))
	d.Balls = g.world.BallCount()
	d.MaxBalls = g.cfg.Population.MaxBalls
	d.WallTotal = c.WallTotal
	d.BallTotal = c.BallTotal
	d.Bounciness = g.world.Bounciness()
	d.BouncinessMin = float32(g.cfg.Controls.BouncinessMin)
	d.BouncinessMax = float32(g.cfg.Controls.BouncinessMax)
	d.Gravity = g.world.Gravity().String()
	d.Spawn = g.world.BallsToSpawn()
	d.Tick = g.world.Tick()
	d.SimTime = g.world.SimTime()
	d.Speed = g.speed.Steps
	d.Paused = g.speed.Paused
	d.AudioOn = g.clicker != nil
}

func (g *Game) drawPerf() {
	stats := g.runner.Perf().Stats()
	rl.DrawRectangle(5, 5, 260, 140, rl.NewColor(0, 0, 0, 180))
	g.perf.Draw(ui.PerfPanelData{
		PhaseTimes:     stats.PhaseAvg,
		Total:          stats.AvgTickDuration,
		TicksPerSecond: stats.TicksPerSecond,
	})
}
