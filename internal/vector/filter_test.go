package vector

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramensura/heapvol/internal/data"
)

func squareFeature(minX, minY, maxX, maxY float64) Feature {
	return Feature{
		PredID: "1",
		Geometry: orb.Polygon{{
			{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
		}},
	}
}

func TestFilterByPolygonKeepsSourceOrder(t *testing.T) {
	cloud := &data.Cloud{Points: []data.Point{
		{X: 5, Y: 5, Z: 1},
		{X: 50, Y: 50, Z: 2}, // outside
		{X: 1, Y: 9, Z: 3},
		{X: 9, Y: 1, Z: 4},
	}}

	got := FilterByPolygon(cloud, squareFeature(0, 0, 10, 10))
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 3, 4}, []float64{got[0].Z, got[1].Z, got[2].Z})
}

func TestFilterByPolygonBoundaryIsInclusive(t *testing.T) {
	cloud := &data.Cloud{Points: []data.Point{
		{X: 0, Y: 5, Z: 1},  // on the west edge
		{X: 10, Y: 10, Z: 2}, // on a corner
	}}
	got := FilterByPolygon(cloud, squareFeature(0, 0, 10, 10))
	assert.Len(t, got, 2)
}

func TestFilterByPolygonEmptyResult(t *testing.T) {
	cloud := &data.Cloud{Points: []data.Point{{X: 100, Y: 100, Z: 1}}}
	got := FilterByPolygon(cloud, squareFeature(0, 0, 10, 10))
	assert.Empty(t, got)
}

func TestFilterByPolygonHole(t *testing.T) {
	feature := Feature{
		PredID: "ring",
		Geometry: orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}}, // hole
		},
	}
	cloud := &data.Cloud{Points: []data.Point{
		{X: 2, Y: 2, Z: 1}, // in the ring
		{X: 5, Y: 5, Z: 2}, // inside the hole
	}}
	got := FilterByPolygon(cloud, feature)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Z)
}

func TestFilterByMultiPolygon(t *testing.T) {
	feature := Feature{
		PredID: "mp",
		Geometry: orb.MultiPolygon{
			{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}},
			{{{8, 8}, {10, 8}, {10, 10}, {8, 10}, {8, 8}}},
		},
	}
	cloud := &data.Cloud{Points: []data.Point{
		{X: 1, Y: 1, Z: 1},
		{X: 9, Y: 9, Z: 2},
		{X: 5, Y: 5, Z: 3}, // between the parts
	}}
	got := FilterByPolygon(cloud, feature)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].Z)
	assert.Equal(t, 2.0, got[1].Z)
}
