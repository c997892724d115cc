// Package ui draws the side panel of the windowed driver.
// Panel contents are tables of rows rather than hard-coded layouts.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Gauge places a row's value within [Lo, Hi] for drawing as a bar.
type Gauge struct {
	Value, Lo, Hi float32
}

// Fraction returns where Value sits in [Lo, Hi], clamped to [0, 1].
// A degenerate range reads as empty.
func (g Gauge) Fraction() float32 {
	if g.Hi <= g.Lo {
		return 0
	}
	return max(0, min((g.Value-g.Lo)/(g.Hi-g.Lo), 1))
}

// Row is one labelled line of the panel.
type Row struct {
	ID    string
	Label string
	Text  func(*HUDData) string
	Gauge func(*HUDData) Gauge    // optional; draws a bar before the text
	Tint  func(*HUDData) rl.Color // optional value colour
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// Theme holds panel colours and metrics.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Header      rl.Color
	Label       rl.Color
	Value       rl.Color
	BarBg       rl.Color
	BarFill     rl.Color
	BarFull     rl.Color // fill once a gauge passes FullAt

	FullAt     float32
	Line       int32
	LabelWidth int32
	BarWidth   int32
	BarHeight  int32
	Font       int32
	HeaderFont int32
}

// DefaultTheme returns the panel theme used by the game.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.NewColor(30, 30, 40, 255),
		PanelBorder: rl.NewColor(100, 100, 120, 255),
		Header:      rl.Yellow,
		Label:       rl.LightGray,
		Value:       rl.White,
		BarBg:       rl.NewColor(45, 45, 55, 255),
		BarFill:     rl.NewColor(100, 150, 200, 255),
		BarFull:     rl.NewColor(210, 80, 70, 255),
		FullAt:      0.9,
		Line:        22,
		LabelWidth:  90,
		BarWidth:    70,
		BarHeight:   12,
		Font:        16,
		HeaderFont:  18,
	}
}
