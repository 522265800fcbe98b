package vector

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/terramensura/heapvol/internal/data"
)

// FilterByPolygon returns the points of the full, unfiltered cloud whose
// horizontal coordinates fall inside the feature polygon. Points exactly on
// the boundary are included. The result preserves the order of appearance in
// the source cloud; an empty result is a valid outcome for the caller to
// detect and skip.
func FilterByPolygon(cloud *data.Cloud, feature Feature) []data.Point {
	bound := feature.Geometry.Bound()
	var inside []data.Point
	for _, p := range cloud.Points {
		pt := orb.Point{p.X, p.Y}
		if !bound.Contains(pt) {
			continue
		}
		if geometryContains(feature.Geometry, pt) {
			inside = append(inside, p)
		}
	}
	return inside
}

func geometryContains(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	}
	return false
}
