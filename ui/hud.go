package ui

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the side panel.
type HUDData struct {
	FPS           int
	Balls         int
	MaxBalls      int
	WallTotal     int
	BallTotal     int
	Bounciness    float32
	BouncinessMin float32
	BouncinessMax float32
	Gravity       string
	Spawn         int
	Tick          int32
	SimTime       float64
	Speed         int
	Paused        bool
	AudioOn       bool
}

// HUDActions reports the panel widgets the user touched this frame.
type HUDActions struct {
	Bounciness    float32
	SetBounciness bool
	ToggleGravity bool
	SpawnUp       bool
	SpawnDown     bool
}

// Any reports whether any widget was used.
func (a HUDActions) Any() bool {
	return a.SetBounciness || a.ToggleGravity || a.SpawnUp || a.SpawnDown
}

func itoa(n int) string { return strconv.Itoa(n) }

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// HUDSections describes the panel contents.
func HUDSections() []Section {
	return []Section{
		{
			Title: "Arena",
			Rows: []Row{
				{ID: "fps", Label: "FPS", Text: func(d *HUDData) string { return itoa(d.FPS) }},
				{ID: "balls", Label: "BALLS",
					Text: func(d *HUDData) string { return fmt.Sprintf("%d/%d", d.Balls, d.MaxBalls) },
					Gauge: func(d *HUDData) Gauge {
						return Gauge{Value: float32(d.Balls), Hi: float32(d.MaxBalls)}
					}},
				{ID: "wall", Label: "WALL", Text: func(d *HUDData) string { return itoa(d.WallTotal) }},
				{ID: "ball", Label: "BALL", Text: func(d *HUDData) string { return itoa(d.BallTotal) }},
				{ID: "bounce", Label: "BOUNCE",
					Text: func(d *HUDData) string { return fmt.Sprintf("%.2f", d.Bounciness) },
					Gauge: func(d *HUDData) Gauge {
						return Gauge{Value: d.Bounciness, Lo: d.BouncinessMin, Hi: d.BouncinessMax}
					}},
				{ID: "gravity", Label: "GRAVITY", Text: func(d *HUDData) string { return d.Gravity }},
				{ID: "spawn", Label: "SPAWN", Text: func(d *HUDData) string { return itoa(d.Spawn) }},
			},
		},
		{
			Title: "Run",
			Rows: []Row{
				{ID: "tick", Label: "Tick", Text: func(d *HUDData) string { return itoa(int(d.Tick)) }},
				{ID: "time", Label: "Time", Text: func(d *HUDData) string { return fmt.Sprintf("%.1fs", d.SimTime) }},
				{ID: "speed", Label: "Speed", Text: func(d *HUDData) string { return fmt.Sprintf("%dx", d.Speed) }},
				{ID: "status", Label: "Status",
					Text: func(d *HUDData) string {
						if d.Paused {
							return "PAUSED"
						}
						return "running"
					},
					Tint: func(d *HUDData) rl.Color {
						if d.Paused {
							return rl.Yellow
						}
						return rl.White
					}},
				{ID: "audio", Label: "Audio", Text: func(d *HUDData) string { return onOff(d.AudioOn) }},
			},
		},
	}
}

// HUD renders the side panel to the right of the arena.
type HUD struct {
	renderer *Renderer
	sections []Section
	x, width int32
	height   int32
}

// NewHUD creates a panel occupying [x, x+width) across the full height.
func NewHUD(x, width, height int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		sections: HUDSections(),
		x:        x,
		width:    width,
		height:   height,
	}
}

// Draw renders the panel and its widgets, returning what the user changed.
func (h *HUD) Draw(data *HUDData) HUDActions {
	r := h.renderer
	r.Panel(h.x, 0, h.width, h.height)

	x := h.x + 20
	inner := h.width - 40
	y := int32(20)
	for _, s := range h.sections {
		y = r.Section(x, y, s, data)
	}

	return h.drawControls(x, y+8, inner, data)
}

func (h *HUD) drawControls(x, y, width int32, data *HUDData) HUDActions {
	var act HUDActions
	fx, fw := float32(x), float32(width)

	y = h.renderer.Header(x, y, "Controls")
	bounce := gui.SliderBar(
		rl.Rectangle{X: fx, Y: float32(y), Width: fw - 40, Height: 18},
		"", fmt.Sprintf("%.2f", data.Bounciness),
		data.Bounciness, data.BouncinessMin, data.BouncinessMax,
	)
	if bounce != data.Bounciness {
		act.Bounciness = bounce
		act.SetBounciness = true
	}
	y += 28

	half := (fw - 10) / 2
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: fw, Height: 26}, "Toggle gravity") {
		act.ToggleGravity = true
	}
	y += 34
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: half, Height: 26}, "Spawn -") {
		act.SpawnDown = true
	}
	if gui.Button(rl.Rectangle{X: fx + half + 10, Y: float32(y), Width: half, Height: 26}, "Spawn +") {
		act.SpawnUp = true
	}
	return act
}

// DrawControls renders the key legend at the bottom of the panel.
func (h *HUD) DrawControls(controls []string) {
	y := h.height - int32(len(controls))*16 - 10
	for _, line := range controls {
		rl.DrawText(line, h.x+20, y, 12, rl.Gray)
		y += 16
	}
}

// PerfPanelData holds per-phase tick timings for display.
type PerfPanelData struct {
	PhaseTimes     map[string]time.Duration
	Total          time.Duration
	TicksPerSecond float64
}

// SortedPhases returns phase names by descending average duration.
func (d PerfPanelData) SortedPhases() []string {
	names := make([]string, 0, len(d.PhaseTimes))
	for name := range d.PhaseTimes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if d.PhaseTimes[names[i]] == d.PhaseTimes[names[j]] {
			return names[i] < names[j]
		}
		return d.PhaseTimes[names[i]] > d.PhaseTimes[names[j]]
	})
	return names
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Tick phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s  TPS: %.0f", data.Total.Round(time.Microsecond), data.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16

	for _, name := range data.SortedPhases() {
		avg := data.PhaseTimes[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %7s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
