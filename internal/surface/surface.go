// Package surface builds and samples the gridded ground reference model
// (DTM) that the volume estimation measures height excess against.
package surface

import (
	"math"

	"github.com/terramensura/heapvol/internal/geometry"
)

// Surface is a regular north-up elevation grid. Row 0 is the northernmost
// row, so increasing row index moves south, matching raster row ordering.
// Elevations are stored row-major; cells where the ground elevation is
// undefined hold NaN. A Surface is immutable once built.
type Surface struct {
	Elev     []float64
	Rows     int
	Cols     int
	CellSize float64
	// OriginX, OriginY locate the (row 0, col 0) grid node.
	OriginX float64
	OriginY float64
	// Srid is the EPSG code of the planar reference system of the grid.
	Srid int
}

// NoData is the sentinel returned for cells with undefined elevation and for
// coordinates outside the grid extent.
func (s *Surface) NoData() float64 {
	return math.NaN()
}

// IsNoData reports whether v is the Surface no-data sentinel.
func (s *Surface) IsNoData(v float64) bool {
	return math.IsNaN(v)
}

// At returns the stored elevation of the given cell.
func (s *Surface) At(row, col int) float64 {
	return s.Elev[row*s.Cols+col]
}

// CellCoordinate returns the planar x,y of the given grid node.
func (s *Surface) CellCoordinate(row, col int) (float64, float64) {
	return s.OriginX + float64(col)*s.CellSize, s.OriginY - float64(row)*s.CellSize
}

// Sample resolves the cell containing x,y through the inverse of the grid
// transform and returns that cell's stored elevation. There is no sub-cell
// interpolation at this stage. Coordinates outside the extent yield NoData.
func (s *Surface) Sample(x, y float64) float64 {
	col := int(math.Floor((x - s.OriginX) / s.CellSize))
	row := int(math.Floor((s.OriginY - y) / s.CellSize))
	if col < 0 || col >= s.Cols || row < 0 || row >= s.Rows {
		return s.NoData()
	}
	return s.At(row, col)
}

// SampleMany samples the surface at every coordinate, preserving order. The
// result has the same length as coords.
func (s *Surface) SampleMany(coords []geometry.Coordinate) []float64 {
	elevations := make([]float64, len(coords))
	for i, c := range coords {
		elevations[i] = s.Sample(c.X, c.Y)
	}
	return elevations
}
