package systems

import (
	"math"

	"github.com/ggielly/suicideballs/vmath"
)

// SpatialGrid buckets ball indices into uniform cells for the collision broad-phase.
// It is rebuilt from scratch every tick; only the cell storage is reused.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int // flat grid of ball index lists
}

// forwardNeighbors are the cell offsets visited from each cell.
// Together with the cell itself they cover every adjacent pair exactly once.
var forwardNeighbors = [4][2]int{
	{1, 0},  // right
	{0, 1},  // down
	{1, 1},  // down-right
	{-1, 1}, // down-left
}

// NewSpatialGrid creates a spatial grid covering the given area.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(math.Ceil(float64(width/cellSize))) + 1
	rows := int(math.Ceil(float64(height/cellSize))) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all indices from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds ball index i at position p.
func (g *SpatialGrid) Insert(i int, p vmath.Vec2) {
	col, row := g.CellOf(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// Cell returns the indices bucketed in the given cell.
func (g *SpatialGrid) Cell(col, row int) []int {
	return g.cells[row*g.cols+col]
}

// CellOf returns the cell containing p.
// Clamps to valid range to absorb floating point drift past the edges.
func (g *SpatialGrid) CellOf(p vmath.Vec2) (col, row int) {
	col = int(p.X / g.cellSize)
	row = int(p.Y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

// ForEachPair calls fn once for every unordered pair of indices that share a
// cell or sit in adjacent cells. The first index always comes from the cell
// being scanned, the second from the same cell or a forward neighbor.
func (g *SpatialGrid) ForEachPair(fn func(a, b int)) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			if len(cell) == 0 {
				continue
			}

			for i := 0; i < len(cell); i++ {
				for j := i + 1; j < len(cell); j++ {
					fn(cell[i], cell[j])
				}
			}

			for _, off := range forwardNeighbors {
				nc, nr := col+off[0], row+off[1]
				if nc < 0 || nc >= g.cols || nr >= g.rows {
					continue
				}
				neighbor := g.cells[nr*g.cols+nc]
				for _, a := range cell {
					for _, b := range neighbor {
						fn(a, b)
					}
				}
			}
		}
	}
}
