package tui

import (
	"image/color"
	"math"

	"github.com/ggielly/suicideballs/sim"
	"github.com/ggielly/suicideballs/vmath"
)

// Cell glyphs.
const (
	RuneRing  = '#'
	RuneTrail = '.'
	RuneBall  = 'O'
)

var ringColor = color.RGBA{R: 200, G: 200, B: 220, A: 255}

// Projection maps simulation coordinates onto a grid of terminal cells.
// Cells are Aspect times taller than wide, so rows get fewer sim units.
type Projection struct {
	Scale  float32 // columns per sim unit
	Aspect float32 // cell height / cell width
	OffX   float32 // column of sim x = 0
	OffY   float32 // row of sim y = 0
}

// NewProjection fits a simW x simH area into cols x rows cells, centered.
func NewProjection(cols, rows int, simW, simH, aspect float32) Projection {
	if aspect <= 0 {
		aspect = 1
	}
	scale := min(float32(cols)/simW, float32(rows)*aspect/simH)
	return Projection{
		Scale:  scale,
		Aspect: aspect,
		OffX:   (float32(cols) - simW*scale) / 2,
		OffY:   (float32(rows) - simH*scale/aspect) / 2,
	}
}

// Cell returns the column and row containing p.
func (p Projection) Cell(v vmath.Vec2) (col, row int) {
	col = int(math.Floor(float64(p.OffX + v.X*p.Scale)))
	row = int(math.Floor(float64(p.OffY + v.Y*p.Scale/p.Aspect)))
	return col, row
}

// Cell is one character of a frame. A zero Rune is blank.
type Cell struct {
	Rune  rune
	Color color.RGBA
}

// Frame is a row-major character buffer.
type Frame struct {
	Cols, Rows int
	Cells      []Cell
}

// Reset resizes f to cols x rows and blanks it, reusing storage.
func (f *Frame) Reset(cols, rows int) {
	n := cols * rows
	if cap(f.Cells) < n {
		f.Cells = make([]Cell, n)
	}
	f.Cells = f.Cells[:n]
	clear(f.Cells)
	f.Cols, f.Rows = cols, rows
}

// At returns the cell at col, row. Out of range returns a blank cell.
func (f *Frame) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= f.Cols || row >= f.Rows {
		return Cell{}
	}
	return f.Cells[row*f.Cols+col]
}

// Set writes a cell, ignoring out-of-range positions.
func (f *Frame) Set(col, row int, r rune, c color.RGBA) {
	if col < 0 || row < 0 || col >= f.Cols || row >= f.Rows {
		return
	}
	f.Cells[row*f.Cols+col] = Cell{Rune: r, Color: c}
}

// Text writes s left-aligned on row, truncated to the frame width.
func (f *Frame) Text(row int, s string, c color.RGBA) {
	col := 0
	for _, r := range s {
		if col >= f.Cols {
			return
		}
		f.Set(col, row, r, c)
		col++
	}
}

// Compose draws the ring, the trails and the balls of one frame.
// Only every stride-th trail point is drawn; balls overwrite trails.
func Compose(f *Frame, p Projection, arena sim.ArenaView, balls []sim.BallView, stride int) {
	drawRing(f, p, arena)

	if stride < 1 {
		stride = 1
	}
	for i := range balls {
		b := &balls[i]
		for j := len(b.Trail) - 1; j >= 0; j -= stride {
			col, row := p.Cell(b.Trail[j])
			if f.At(col, row).Rune == 0 {
				f.Set(col, row, RuneTrail, b.Color)
			}
		}
	}
	for i := range balls {
		col, row := p.Cell(balls[i].Position)
		f.Set(col, row, RuneBall, balls[i].Color)
	}
}

// drawRing samples the ring at roughly one point per column of arc and
// skips samples inside the gap.
func drawRing(f *Frame, p Projection, a sim.ArenaView) {
	circumference := float64(a.Radius*p.Scale) * vmath.TwoPi
	n := max(32, int(circumference*2))
	for i := 0; i < n; i++ {
		theta := float32(float64(i) / float64(n) * vmath.TwoPi)
		if vmath.InArc(theta, a.GapAngle, a.GapWidth) {
			continue
		}
		col, row := p.Cell(a.Center.Add(vmath.FromAngle(theta, a.Radius)))
		f.Set(col, row, RuneRing, ringColor)
	}
}
