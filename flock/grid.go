package flock

import (
	"math"
	"slices"

	"github.com/dgravesa/go-parallel/parallel"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// SpatialGrid bins bird indices into square cells for neighbor lookups.
// Queries do not wrap across the box edges, matching the alignment metric.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int32 // flat grid of index lists
}

// maxCellsPerSide bounds the grid for radii much smaller than the box.
// Cells grow past the query radius instead; QueryRadiusInto still searches
// enough rings to cover the radius.
const maxCellsPerSide = 256

// NewSpatialGrid creates a spatial grid covering the given box size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cellSize = max(cellSize, width/maxCellsPerSide, height/maxCellsPerSide)
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	// Cell slices are allocated on first insert
	cells := make([][]int32, cols*rows)

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Dims returns the number of grid columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds bird idx to the grid at the given position.
func (g *SpatialGrid) Insert(idx int, x, y float64) {
	col, row := g.cellCoords(x, y)
	c := row*g.cols + col
	g.cells[c] = append(g.cells[c], int32(idx))
}

// QueryRadiusInto appends to dst every indexed bird j with
// (xs[j]-x)^2 + (ys[j]-y)^2 < radius^2 and returns the updated slice.
// Order follows cell traversal, not index order.
func (g *SpatialGrid) QueryRadiusInto(dst []int, x, y, radius float64, xs, ys []float64) []int {
	// One extra ring absorbs rounding in the cell coordinate division
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellCoords(x, y)
	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, j := range g.cells[row*g.cols+col] {
				if within(xs[j]-x, ys[j]-y, radiusSq) {
					dst = append(dst, int(j))
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped cell column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float64) (col, row int) {
	col = clampInt(int(math.Floor(x/g.cellSize)), 0, g.cols-1)
	row = clampInt(int(math.Floor(y/g.cellSize)), 0, g.rows-1)
	return col, row
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gridAligner finds neighbors through a SpatialGrid with cell size R.
// Neighbor indices are sorted before summation, so results are bit-identical
// to scalarAligner.
type gridAligner struct {
	grid    *SpatialGrid
	radius  float64
	workers int
	scratch [][]int // per-goroutine neighbor buffers
}

func newGridAligner(boxSize, radius float64, workers int) *gridAligner {
	if workers < 1 {
		workers = 1
	}
	scratch := make([][]int, workers)
	for i := range scratch {
		scratch[i] = make([]int, 0, 64)
	}
	return &gridAligner{
		grid:    NewSpatialGrid(boxSize, boxSize, radius),
		radius:  radius,
		workers: workers,
		scratch: scratch,
	}
}

func (a *gridAligner) Name() string { return config.BackendGrid }

func (a *gridAligner) Align(dst []float64, e *Ensemble) {
	a.grid.Clear()
	for i := range e.X {
		a.grid.Insert(i, e.X[i], e.Y[i])
	}

	n := e.Len()
	if a.workers == 1 || n < parallelThreshold {
		for i := 0; i < n; i++ {
			a.alignOne(dst, e, i, 0)
		}
		return
	}

	parallel.WithNumGoroutines(a.workers).For(n, func(i, grID int) {
		a.alignOne(dst, e, i, grID)
	})
}

func (a *gridAligner) alignOne(dst []float64, e *Ensemble, i, worker int) {
	nb := a.grid.QueryRadiusInto(a.scratch[worker][:0], e.X[i], e.Y[i], a.radius, e.X, e.Y)
	slices.Sort(nb)

	var sx, sy float64
	for _, j := range nb {
		sx += e.cos[j]
		sy += e.sin[j]
	}
	dst[i] = math.Atan2(sy, sx)
	a.scratch[worker] = nb
}
