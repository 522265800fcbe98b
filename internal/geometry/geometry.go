package geometry

import "math"

// Coordinate holds a X,Y,Z triplet in an arbitrary reference system.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// BoundingBox is an axis aligned 2D extent.
type BoundingBox struct {
	Xmin float64
	Xmax float64
	Ymin float64
	Ymax float64
}

// NewBoundingBox computes the horizontal bounding box of the given coordinates.
func NewBoundingBox(coords []Coordinate) *BoundingBox {
	bbox := &BoundingBox{
		Xmin: math.Inf(1), Xmax: math.Inf(-1),
		Ymin: math.Inf(1), Ymax: math.Inf(-1),
	}
	for _, c := range coords {
		bbox.Xmin = math.Min(bbox.Xmin, c.X)
		bbox.Xmax = math.Max(bbox.Xmax, c.X)
		bbox.Ymin = math.Min(bbox.Ymin, c.Y)
		bbox.Ymax = math.Max(bbox.Ymax, c.Y)
	}
	return bbox
}

// Contains reports whether the given x,y lies inside or on the box edge.
func (b *BoundingBox) Contains(x, y float64) bool {
	return x >= b.Xmin && x <= b.Xmax && y >= b.Ymin && y <= b.Ymax
}
