package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const polygonsWithCRS = `{
	"type": "FeatureCollection",
	"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::4326"}},
	"features": [
		{
			"type": "Feature",
			"properties": {"pred_ID": 7},
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
		},
		{
			"type": "Feature",
			"properties": {"pred_ID": "B-2"},
			"geometry": {"type": "Polygon", "coordinates": [[[20,20],[30,20],[30,30],[20,30],[20,20]]]}
		}
	]
}`

func TestParseFeatureSet(t *testing.T) {
	set, err := ParseFeatureSet([]byte(polygonsWithCRS))
	require.NoError(t, err)

	assert.Equal(t, 4326, set.Srid)
	require.Len(t, set.Features, 2)
	// file order and identifier normalisation
	assert.Equal(t, "7", set.Features[0].PredID)
	assert.Equal(t, "B-2", set.Features[1].PredID)
}

func TestParseFeatureSetMissingCRS(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[]}`
	_, err := ParseFeatureSet([]byte(doc))
	require.ErrorIs(t, err, ErrMissingCRS)
}

func TestParseFeatureSetPlainEPSGName(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "EPSG:2180"}},
		"features": []
	}`
	set, err := ParseFeatureSet([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2180, set.Srid)
}

func TestParseFeatureSetRejectsNonPolygons(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "EPSG:4326"}},
		"features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1,2]}}
		]
	}`
	_, err := ParseFeatureSet([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported geometry")
}
