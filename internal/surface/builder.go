package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/terramensura/heapvol/internal/data"
	"github.com/terramensura/heapvol/internal/geometry"
)

// Number of scattered terrain points each grid node is interpolated from.
const neighbourCount = 12

// Build constructs the ground surface from the terrain-labelled point subset.
//
// The horizontal bounding box of the points is covered with a regular grid at
// cellSize spacing (columns from min-x inclusive up to but excluding max-x,
// rows likewise in y). Each node elevation is interpolated from the scattered
// terrain points with a cubic radial basis function; nodes outside the convex
// hull of the input take the no-data value. The elevation rows are flipped to
// north-up before the grid transform is attached, so the returned Surface has
// its origin at the minimum-x / maximum-y grid corner.
func Build(terrainPoints []data.Point, cellSize float64, srid int) (*Surface, error) {
	if len(terrainPoints) == 0 {
		return nil, fmt.Errorf("surface build: %w", data.ErrEmptyInput)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("surface build: cell size must be positive, got %g", cellSize)
	}

	coords := make([]geometry.Coordinate, len(terrainPoints))
	for i, p := range terrainPoints {
		coords[i] = geometry.Coordinate{X: p.X, Y: p.Y, Z: p.Z}
	}
	bbox := geometry.NewBoundingBox(coords)

	cols := int(math.Ceil((bbox.Xmax - bbox.Xmin) / cellSize))
	rows := int(math.Ceil((bbox.Ymax - bbox.Ymin) / cellSize))
	if cols == 0 {
		cols = 1
	}
	if rows == 0 {
		rows = 1
	}

	hull := geometry.ConvexHull(coords)
	index := newBucketIndex(terrainPoints, bbox.Xmin, bbox.Ymin,
		bbox.Xmax-bbox.Xmin, bbox.Ymax-bbox.Ymin)
	interp := newRBFInterpolator(index)

	s := &Surface{
		Elev:     make([]float64, rows*cols),
		Rows:     rows,
		Cols:     cols,
		CellSize: cellSize,
		OriginX:  bbox.Xmin,
		OriginY:  bbox.Ymin + float64(rows-1)*cellSize,
		Srid:     srid,
	}

	for row := 0; row < rows; row++ {
		// row index counted from the south here, flipped on store
		y := bbox.Ymin + float64(row)*cellSize
		for col := 0; col < cols; col++ {
			x := bbox.Xmin + float64(col)*cellSize
			v := math.NaN()
			if geometry.PointInConvexHull(hull, x, y) {
				v = interp.at(x, y)
			}
			s.Elev[(rows-1-row)*cols+col] = v
		}
	}
	return s, nil
}

// rbfInterpolator evaluates a locally-fitted radial basis function with the
// cubic kernel phi(r) = r^3 and an affine drift term, which reproduces planar
// trends exactly and passes through the data points.
type rbfInterpolator struct {
	index *bucketIndex
}

func newRBFInterpolator(index *bucketIndex) *rbfInterpolator {
	return &rbfInterpolator{index: index}
}

func (r *rbfInterpolator) at(x, y float64) float64 {
	nb := r.index.nearest(x, y, neighbourCount)
	if len(nb) == 0 {
		return math.NaN()
	}
	if nb[0].dist < 1e-12 {
		return r.index.points[nb[0].idx].Z
	}
	if len(nb) < 3 {
		return r.idw(nb)
	}
	if v, ok := r.solve(nb, x, y); ok {
		return v
	}
	// collinear or coincident neighbourhoods make the system singular
	return r.idw(nb)
}

func (r *rbfInterpolator) solve(nb []neighbour, x, y float64) (float64, bool) {
	m := len(nb)
	n := m + 3
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	// coordinates are shifted to the evaluation point to keep the system
	// well conditioned for large projected coordinates
	for i := 0; i < m; i++ {
		pi := r.index.points[nb[i].idx]
		xi, yi := pi.X-x, pi.Y-y
		for j := i; j < m; j++ {
			pj := r.index.points[nb[j].idx]
			phi := cubicKernel(math.Hypot(pi.X-pj.X, pi.Y-pj.Y))
			a.Set(i, j, phi)
			a.Set(j, i, phi)
		}
		a.Set(i, m, 1)
		a.Set(i, m+1, xi)
		a.Set(i, m+2, yi)
		a.Set(m, i, 1)
		a.Set(m+1, i, xi)
		a.Set(m+2, i, yi)
		b.SetVec(i, pi.Z)
	}

	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		return 0, false
	}

	// evaluate at the shifted origin: the drift reduces to its constant term
	v := w.AtVec(m)
	for i := 0; i < m; i++ {
		v += w.AtVec(i) * cubicKernel(nb[i].dist)
	}
	return v, true
}

// idw is the fallback estimate for degenerate neighbourhoods.
func (r *rbfInterpolator) idw(nb []neighbour) float64 {
	var num, den float64
	for _, n := range nb {
		w := 1 / (n.dist * n.dist)
		num += w * r.index.points[n.idx].Z
		den += w
	}
	return num / den
}

func cubicKernel(d float64) float64 {
	return d * d * d
}
