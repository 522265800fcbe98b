package converters

import (
	"github.com/terramensura/heapvol/internal/geometry"
	"github.com/terramensura/heapvol/internal/vector"
)

// CoordinateConverter reprojects coordinates and polygon collections between
// EPSG reference systems. It runs once, upstream of the pipeline, never per
// feature.
type CoordinateConverter interface {
	ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error)
	// ConvertFeatureSet reprojects every polygon of the set from its declared
	// CRS into targetSrid and returns a new set tagged with targetSrid.
	ConvertFeatureSet(set *vector.FeatureSet, targetSrid int) (*vector.FeatureSet, error)
}
