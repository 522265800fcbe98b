// Package proj_converter implements coordinate reprojection on top of a pure
// Go port of the proj4 transformation pipeline.
package proj_converter

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"

	"github.com/terramensura/heapvol/internal/converters"
	"github.com/terramensura/heapvol/internal/geometry"
	"github.com/terramensura/heapvol/internal/vector"
)

// proj4 definitions for the EPSG codes the tool accepts. The proj library
// consumes proj4 strings, not EPSG codes, so the lookup lives here.
var epsgProj4 = map[int]string{
	4326: "+proj=longlat +datum=WGS84 +no_defs",
	3857: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +no_defs",
	// Poland CS92
	2180: "+proj=tmerc +lat_0=0 +lon_0=19 +k=0.9993 +x_0=500000 +y_0=-5300000 +ellps=GRS80 +towgs84=0,0,0 +units=m +no_defs",
	// Poland CS2000 zones 5-8
	2176: "+proj=tmerc +lat_0=0 +lon_0=15 +k=0.999923 +x_0=5500000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0 +units=m +no_defs",
	2177: "+proj=tmerc +lat_0=0 +lon_0=18 +k=0.999923 +x_0=6500000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0 +units=m +no_defs",
	2178: "+proj=tmerc +lat_0=0 +lon_0=21 +k=0.999923 +x_0=7500000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0 +units=m +no_defs",
	2179: "+proj=tmerc +lat_0=0 +lon_0=24 +k=0.999923 +x_0=8500000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0 +units=m +no_defs",
	// ETRS89 / UTM
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	25833: "+proj=utm +zone=33 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	// WGS84 / UTM
	32632: "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs",
	32633: "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs",
	32634: "+proj=utm +zone=34 +datum=WGS84 +units=m +no_defs",
}

type transformKey struct {
	source int
	target int
}

type ProjCoordinateConverter struct {
	mu         sync.Mutex
	transforms map[transformKey]proj.Transformer
}

func NewProjCoordinateConverter() converters.CoordinateConverter {
	return &ProjCoordinateConverter{
		transforms: map[transformKey]proj.Transformer{},
	}
}

func (c *ProjCoordinateConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Coordinate) (geometry.Coordinate, error) {
	if sourceSrid == targetSrid {
		return coord, nil
	}
	transform, err := c.transform(sourceSrid, targetSrid)
	if err != nil {
		return geometry.Coordinate{}, err
	}
	x, y, err := transform(coord.X, coord.Y)
	if err != nil {
		return geometry.Coordinate{}, fmt.Errorf("reproject %d->%d: %w", sourceSrid, targetSrid, err)
	}
	return geometry.Coordinate{X: x, Y: y, Z: coord.Z}, nil
}

func (c *ProjCoordinateConverter) ConvertFeatureSet(set *vector.FeatureSet, targetSrid int) (*vector.FeatureSet, error) {
	if set.Srid == targetSrid {
		return set, nil
	}
	transform, err := c.transform(set.Srid, targetSrid)
	if err != nil {
		return nil, err
	}

	out := &vector.FeatureSet{Srid: targetSrid}
	for _, f := range set.Features {
		g, err := convertGeometry(f.Geometry, transform)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.PredID, err)
		}
		out.Features = append(out.Features, vector.Feature{PredID: f.PredID, Geometry: g})
	}
	return out, nil
}

// transform returns the cached projection pipeline for the srid pair,
// building it on first use.
func (c *ProjCoordinateConverter) transform(sourceSrid, targetSrid int) (proj.Transformer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := transformKey{source: sourceSrid, target: targetSrid}
	if t, ok := c.transforms[key]; ok {
		return t, nil
	}

	sourceSR, err := parseSrid(sourceSrid)
	if err != nil {
		return nil, err
	}
	targetSR, err := parseSrid(targetSrid)
	if err != nil {
		return nil, err
	}
	t, err := sourceSR.NewTransform(targetSR)
	if err != nil {
		return nil, fmt.Errorf("build transform %d->%d: %w", sourceSrid, targetSrid, err)
	}
	c.transforms[key] = t
	return t, nil
}

func parseSrid(srid int) (*proj.SR, error) {
	def, ok := epsgProj4[srid]
	if !ok {
		return nil, fmt.Errorf("no projection definition for EPSG:%d", srid)
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parse EPSG:%d definition: %w", srid, err)
	}
	return sr, nil
}

func convertGeometry(g orb.Geometry, transform proj.Transformer) (orb.Geometry, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return convertPolygon(geom, transform)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(geom))
		for i, poly := range geom {
			p, err := convertPolygon(poly, transform)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported geometry type %s", g.GeoJSONType())
}

func convertPolygon(poly orb.Polygon, transform proj.Transformer) (orb.Polygon, error) {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			x, y, err := transform(pt[0], pt[1])
			if err != nil {
				return nil, err
			}
			r[j] = orb.Point{x, y}
		}
		out[i] = r
	}
	return out, nil
}
