package surface

import (
	"math"
	"testing"

	"github.com/terramensura/heapvol/internal/geometry"
)

// 2x3 grid with distinct values per cell:
//
//	row 0 (north, y=10): 1 2 3
//	row 1 (south, y=9):  4 5 6
func testSurface() *Surface {
	return &Surface{
		Elev:     []float64{1, 2, 3, 4, 5, 6},
		Rows:     2,
		Cols:     3,
		CellSize: 1,
		OriginX:  100,
		OriginY:  10,
		Srid:     2180,
	}
}

func TestSampleNearestCell(t *testing.T) {
	s := testSurface()
	cases := []struct {
		name string
		x, y float64
		want float64
	}{
		{"origin node", 100, 10, 1},
		{"within first cell", 100.4, 9.7, 1},
		{"second column", 101.2, 9.9, 2},
		{"southern row", 100, 9, 4},
		{"south east cell", 102.9, 8.1, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := s.Sample(c.x, c.y); got != c.want {
				t.Errorf("Sample(%g,%g) = %g, want %g", c.x, c.y, got, c.want)
			}
		})
	}
}

func TestSampleOutsideExtentIsNoData(t *testing.T) {
	s := testSurface()
	for _, xy := range [][2]float64{
		{99.9, 10},  // west of the grid
		{103.1, 10}, // east of the last column
		{100, 10.5}, // north of row 0
		{100, 7.9},  // south of the last row
	} {
		if v := s.Sample(xy[0], xy[1]); !s.IsNoData(v) {
			t.Errorf("Sample(%g,%g) = %g, want no-data", xy[0], xy[1], v)
		}
	}
}

func TestSampleManyPreservesOrderAndLength(t *testing.T) {
	s := testSurface()
	coords := []geometry.Coordinate{
		{X: 100, Y: 10},
		{X: 0, Y: 0}, // far outside
		{X: 102, Y: 9},
	}
	got := s.SampleMany(coords)
	if len(got) != len(coords) {
		t.Fatalf("expected %d samples, got %d", len(coords), len(got))
	}
	if got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 6 {
		t.Errorf("unexpected samples %v", got)
	}
}

func TestCellCoordinateInvertsSample(t *testing.T) {
	s := testSurface()
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			x, y := s.CellCoordinate(row, col)
			if got := s.Sample(x, y); got != s.At(row, col) {
				t.Errorf("Sample(CellCoordinate(%d,%d)) = %g, want %g", row, col, got, s.At(row, col))
			}
		}
	}
}
