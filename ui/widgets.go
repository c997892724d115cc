package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Renderer draws panel pieces with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// Panel fills and outlines the panel rectangle.
func (r *Renderer) Panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// Header draws a section title and returns the next line's y.
func (r *Renderer) Header(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFont, r.Theme.Header)
	return y + r.Theme.Line
}

// RowText returns the value text of row for d.
func RowText(row Row, d *HUDData) string {
	if row.Text == nil {
		return ""
	}
	return row.Text(d)
}

// Row draws one row and returns the next line's y.
func (r *Renderer) Row(x, y int32, row Row, d *HUDData) int32 {
	th := r.Theme
	rl.DrawText(row.Label, x, y, th.Font, th.Label)

	vx := x + th.LabelWidth
	if row.Gauge != nil {
		r.bar(vx, y+2, row.Gauge(d).Fraction())
		vx += th.BarWidth + 6
	}

	col := th.Value
	if row.Tint != nil {
		col = row.Tint(d)
	}
	rl.DrawText(RowText(row, d), vx, y, th.Font, col)
	return y + th.Line
}

func (r *Renderer) bar(x, y int32, frac float32) {
	th := r.Theme
	fill := th.BarFill
	if frac >= th.FullAt {
		fill = th.BarFull
	}
	rl.DrawRectangle(x, y, th.BarWidth, th.BarHeight, th.BarBg)
	rl.DrawRectangle(x, y, int32(float32(th.BarWidth)*frac), th.BarHeight, fill)
}

// Section draws a titled group and returns the y below it.
func (r *Renderer) Section(x, y int32, s Section, d *HUDData) int32 {
	if s.Title != "" {
		y = r.Header(x, y, s.Title)
	}
	for _, row := range s.Rows {
		y = r.Row(x, y, row, d)
	}
	return y + 4
}
