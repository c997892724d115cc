// Package tui is a terminal driver that renders the arena with tcell.
package tui

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ggielly/suicideballs/audio"
	"github.com/ggielly/suicideballs/clock"
	"github.com/ggielly/suicideballs/config"
	"github.com/ggielly/suicideballs/headless"
	"github.com/ggielly/suicideballs/input"
	"github.com/ggielly/suicideballs/sim"
)

const maxFrameSteps = 5

var hudColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Viewer steps a runner in real time and draws it to the terminal.
type Viewer struct {
	cfg     *config.Config
	screen  tcell.Screen
	runner  *headless.Runner
	acc     *clock.Accumulator
	dropped int
	speed   input.Speed
	click   *audio.Clicker

	polling sync.WaitGroup
	prevLog *slog.Logger

	frame Frame
	balls []sim.BallView
}

// NewViewer opens the process terminal; see Attach.
func NewViewer(cfg *config.Config, runner *headless.Runner, clicker *audio.Clicker, logOut io.Writer) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return Attach(cfg, screen, runner, clicker, logOut)
}

// Attach initializes screen and builds a viewer on it. Call Close to
// restore it. clicker may be nil.
//
// The screen owns stdout, so once it is up the default logger writes to
// logOut (nil discards) until Close. If the screen fails to start the
// logger is left as it was.
func Attach(cfg *config.Config, screen tcell.Screen, runner *headless.Runner, clicker *audio.Clicker, logOut io.Writer) (*Viewer, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	if logOut == nil {
		logOut = io.Discard
	}
	v := &Viewer{
		cfg:     cfg,
		screen:  screen,
		runner:  runner,
		acc:     clock.NewAccumulator(cfg.Physics.DT, maxFrameSteps),
		speed:   input.Speed{Steps: 1, Max: cfg.Controls.MaxSpeed},
		click:   clicker,
		prevLog: slog.Default(),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))
	return v, nil
}

// Close restores the terminal and the logger. It waits for the event
// reader started by Run to exit.
func (v *Viewer) Close() {
	v.screen.Fini()
	v.polling.Wait()
	slog.SetDefault(v.prevLog)
}

// Run loops until the user quits or maxTicks is reached (0 = unlimited).
func (v *Viewer) Run(maxTicks int) {
	ticker := time.NewTicker(time.Duration(v.cfg.Terminal.FrameMs) * time.Millisecond)
	defer ticker.Stop()

	// The reader outlives Run until Close makes PollEvent return nil.
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	v.polling.Add(1)
	go func() {
		defer v.polling.Done()
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if v.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if !v.speed.Paused {
				v.step(elapsed)
			}
			v.draw()

			if maxTicks > 0 && int(v.runner.Tick()) >= maxTicks {
				slog.Info("max ticks reached", "tick", v.runner.Tick())
				return
			}
		}
	}
}

// step runs the ticks owed for elapsed seconds and plays their collision clicks.
func (v *Viewer) step(elapsed float64) {
	n := v.acc.Advance(elapsed, v.speed.Steps)
	if d := v.acc.Dropped(); d > v.dropped {
		slog.Debug("ticks dropped", "frame_s", elapsed, "dropped", d-v.dropped, "total", d)
		v.dropped = d
	}

	wallHits, ballHits := 0, 0
	for ; n > 0; n-- {
		v.runner.Step()
		c := v.runner.World().Counters()
		wallHits += c.WallTick
		ballHits += c.BallTick
	}
	v.click.Collisions(wallHits, ballHits)
}

// handleEvent applies a terminal event and reports whether to quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd := keyCommand(ev.Key(), ev.Rune())
		if input.Apply(v.runner.World(), cmd) {
			return false
		}
		return v.speed.Handle(cmd)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

// keyCommand maps a tcell key to a command.
func keyCommand(k tcell.Key, r rune) input.Command {
	switch k {
	case tcell.KeyUp:
		return input.BounceUp
	case tcell.KeyDown:
		return input.BounceDown
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.Quit
	case tcell.KeyRune:
		return input.FromRune(r)
	}
	return input.None
}

func (v *Viewer) draw() {
	cols, rows := v.screen.Size()
	if cols < 1 || rows < 2 {
		return
	}
	w := v.runner.World()

	v.frame.Reset(cols, rows)
	proj := NewProjection(cols, rows-1, v.cfg.Derived.SimW32, v.cfg.Derived.SimH32, float32(v.cfg.Terminal.CellAspect))
	v.balls = w.Balls(v.balls)
	Compose(&v.frame, proj, w.Arena(), v.balls, v.cfg.Terminal.TrailStride)
	v.frame.Text(rows-1, HUDLine(w, v.speed), hudColor)

	v.screen.Clear()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := v.frame.At(col, row)
			if c.Rune == 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
			v.screen.SetContent(col, row, c.Rune, nil, style)
		}
	}
	v.screen.Show()
}

// HUDLine formats the status line shown under the arena.
func HUDLine(w *sim.World, s input.Speed) string {
	c := w.Counters()
	line := fmt.Sprintf("BALLS %d  WALL %d  BALL %d  BOUNCE %.2f  GRAVITY %s  SPAWN %d  SPEED %dx",
		w.BallCount(), c.WallTotal, c.BallTotal, w.Bounciness(), w.Gravity(), w.BallsToSpawn(), s.Steps)
	if s.Paused {
		line += "  PAUSED"
	}
	return line
}
