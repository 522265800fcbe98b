package io

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/terramensura/heapvol/internal/analysis"
)

// featureCollection mirrors a GeoJSON FeatureCollection with the legacy crs
// member, which downstream GIS tooling still reads the reference system from.
type featureCollection struct {
	Type     string             `json:"type"`
	CRS      crsMember          `json:"crs"`
	Features []*geojson.Feature `json:"features"`
}

type crsMember struct {
	Type       string        `json:"type"`
	Properties crsProperties `json:"properties"`
}

type crsProperties struct {
	Name string `json:"name"`
}

// WriteResultsGeoJSON writes one feature per successfully processed polygon
// carrying the full attribute set plus the original geometry, tagged with the
// surface's reference system.
func WriteResultsGeoJSON(path string, results []analysis.FeatureResult, srid int) error {
	fc := featureCollection{
		Type: "FeatureCollection",
		CRS: crsMember{
			Type:       "name",
			Properties: crsProperties{Name: fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", srid)},
		},
		Features: make([]*geojson.Feature, 0, len(results)),
	}
	for _, r := range results {
		f := geojson.NewFeature(r.Geometry)
		f.Properties["pred_ID"] = r.PredID
		f.Properties["volume_m3"] = r.Volume
		f.Properties["point_count"] = r.PointCount
		f.Properties["coverage_percent"] = r.CoveragePercent
		fc.Features = append(fc.Features, f)
	}

	raw, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, raw, 0644)
}
