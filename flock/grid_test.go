package flock

import (
	"slices"
	"testing"
)

func TestSpatialGrid_MatchesBruteForce(t *testing.T) {
	tests := []struct {
		name     string
		box      float64
		cellSize float64
		radius   float64
	}{
		{"cell equals radius", 10, 1, 1},
		{"fractional cells", 10, 0.7, 0.7},
		{"radius larger than cell", 10, 1, 2.2},
		{"single cell", 3, 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.BoxSize = tc.box
			e := newEnsemble(400, p, newRNG(3))

			g := NewSpatialGrid(tc.box, tc.box, tc.cellSize)
			for i := range e.X {
				g.Insert(i, e.X[i], e.Y[i])
			}

			var got []int
			for i := range e.X {
				got = g.QueryRadiusInto(got[:0], e.X[i], e.Y[i], tc.radius, e.X, e.Y)
				slices.Sort(got)

				var want []int
				for j := range e.X {
					if within(e.X[j]-e.X[i], e.Y[j]-e.Y[i], tc.radius*tc.radius) {
						want = append(want, j)
					}
				}

				if !slices.Equal(got, want) {
					t.Fatalf("bird %d: grid found %v, brute force %v", i, got, want)
				}
				if !slices.Contains(got, i) {
					t.Fatalf("bird %d missing from its own neighborhood", i)
				}
			}
		})
	}
}

func TestSpatialGrid_NoWrapAcrossEdges(t *testing.T) {
	g := NewSpatialGrid(10, 10, 1)
	xs := []float64{0.05, 9.95}
	ys := []float64{5, 5}
	for i := range xs {
		g.Insert(i, xs[i], ys[i])
	}

	got := g.QueryRadiusInto(nil, xs[0], ys[0], 1, xs, ys)
	if !slices.Equal(got, []int{0}) {
		t.Errorf("query across edge returned %v, want [0]", got)
	}
}

func TestSpatialGrid_Clear(t *testing.T) {
	g := NewSpatialGrid(10, 10, 1)
	xs, ys := []float64{2}, []float64{2}
	g.Insert(0, 2, 2)
	g.Clear()

	if got := g.QueryRadiusInto(nil, 2, 2, 1, xs, ys); len(got) != 0 {
		t.Errorf("expected empty grid after Clear, got %v", got)
	}
}

func TestSpatialGrid_CellCountBounded(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
	}{
		{"small radius", 1e-3},
		{"tiny radius", 1e-30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewSpatialGrid(10, 10, tc.cellSize)
			cols, rows := g.Dims()
			if cols < 1 || rows < 1 || cols > maxCellsPerSide+1 || rows > maxCellsPerSide+1 {
				t.Fatalf("grid is %dx%d, want within [1, %d]", cols, rows, maxCellsPerSide+1)
			}

			xs := []float64{0, 5, 9.999}
			ys := []float64{0, 5, 9.999}
			for i := range xs {
				g.Insert(i, xs[i], ys[i])
			}
			for i := range xs {
				got := g.QueryRadiusInto(nil, xs[i], ys[i], tc.cellSize, xs, ys)
				if !slices.Equal(got, []int{i}) {
					t.Errorf("bird %d: query returned %v, want only itself", i, got)
				}
			}
		})
	}
}
