// Package vector loads feature polygons from GeoJSON and filters point
// clouds against them.
package vector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrMissingCRS is returned when the input geometries do not declare the
// reference system they are expressed in.
var ErrMissingCRS = errors.New("input geometry collection has no declared CRS")

// Feature is one candidate polygon with its run-unique identifier.
type Feature struct {
	PredID   string
	Geometry orb.Geometry
}

// FeatureSet is an ordered polygon collection tagged with the EPSG code it is
// expressed in. Order is the order of appearance in the source file.
type FeatureSet struct {
	Srid     int
	Features []Feature
}

// legacy GeoJSON crs member, e.g.
// {"type":"name","properties":{"name":"urn:ogc:def:crs:EPSG::2180"}}
type crsMember struct {
	CRS *struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

// LoadFeatureSet reads a GeoJSON feature collection of polygons carrying a
// pred_ID property. The file must declare its CRS through the legacy crs
// member; a collection without one fails with ErrMissingCRS.
func LoadFeatureSet(path string) (*FeatureSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFeatureSet(raw)
}

// ParseFeatureSet decodes an in-memory GeoJSON document. See LoadFeatureSet.
func ParseFeatureSet(raw []byte) (*FeatureSet, error) {
	var crs crsMember
	if err := json.Unmarshal(raw, &crs); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if crs.CRS == nil || crs.CRS.Properties.Name == "" {
		return nil, ErrMissingCRS
	}
	srid, err := parseSridName(crs.CRS.Properties.Name)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	set := &FeatureSet{Srid: srid}
	for i, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry type %s", i, f.Geometry.GeoJSONType())
		}
		set.Features = append(set.Features, Feature{
			PredID:   predID(f, i),
			Geometry: f.Geometry,
		})
	}
	return set, nil
}

// predID normalises the pred_ID property to a string, falling back to the
// feature position when the property is absent.
func predID(f *geojson.Feature, position int) string {
	v, ok := f.Properties["pred_ID"]
	if !ok {
		return strconv.Itoa(position)
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// parseSridName extracts an EPSG code from names like "EPSG:2180" or
// "urn:ogc:def:crs:EPSG::2180".
func parseSridName(name string) (int, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	idx := strings.LastIndex(n, "EPSG")
	if idx < 0 {
		return 0, fmt.Errorf("unrecognised CRS name %q", name)
	}
	code := strings.Trim(n[idx+len("EPSG"):], ": ")
	srid, err := strconv.Atoi(code)
	if err != nil {
		return 0, fmt.Errorf("unrecognised CRS name %q", name)
	}
	return srid, nil
}
