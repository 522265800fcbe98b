package data

import (
	"errors"
	"math"
)

// Contains data of a LiDAR return, namely X,Y,Z coords in a projected
// planar reference system (meters), the Intensity of the return and the
// value of the ground-classification attribute it was read with.
type Point struct {
	X         float64
	Y         float64
	Z         float64
	Intensity uint16
	Class     uint8
}

// Builds a new Point from the given coordinates, intensity and classification values
func NewPoint(x, y, z float64, intensity uint16, class uint8) Point {
	return Point{
		X:         x,
		Y:         y,
		Z:         z,
		Intensity: intensity,
		Class:     class,
	}
}

// IsFinite reports whether all three coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

var (
	// ErrMissingClassification is returned when the source point cloud does not
	// carry the configured ground-classification attribute.
	ErrMissingClassification = errors.New("missing ground-classification attribute in point cloud")

	// ErrEmptyInput is returned when an operation that requires points receives none.
	ErrEmptyInput = errors.New("no points available")
)
