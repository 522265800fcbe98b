package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/terramensura/heapvol/internal/data"
)

// ErrDimensionMismatch signals that the filtered points and sampled
// elevations were not built from the same coordinate list. This is an
// internal invariant violation and fatal for the run.
var ErrDimensionMismatch = errors.New("points and ground elevations differ in length")

// Aggregate reduces the filtered points of one polygon and their sampled
// ground elevations into volume, point count and coverage.
//
// A point is above ground only when its height excess is strictly positive;
// zero or negative excess contributes nothing, and points over no-data ground
// cells fail the comparison and are treated the same way. The volume is the
// raw sum of positive excesses with no per-point area factor (see
// Summary.Volume). Callers must skip polygons with zero filtered points
// instead of calling Aggregate with empty input.
func Aggregate(points []data.Point, groundElev []float64) (Summary, error) {
	if len(points) != len(groundElev) {
		return Summary{}, fmt.Errorf("%w: %d points, %d elevations",
			ErrDimensionMismatch, len(points), len(groundElev))
	}

	var excess []float64
	for i, p := range points {
		if d := p.Z - groundElev[i]; d > 0 {
			excess = append(excess, d)
		}
	}

	total := len(points)
	var coverage float64
	if total > 0 {
		coverage = float64(len(excess)) / float64(total) * 100
	}
	return Summary{
		Volume:          floats.Sum(excess),
		PointCount:      total,
		CoveragePercent: coverage,
	}, nil
}
