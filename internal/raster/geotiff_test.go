package raster

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramensura/heapvol/internal/surface"
)

func TestWriteReadSurfaceRoundTrip(t *testing.T) {
	s := &surface.Surface{
		Rows: 2, Cols: 3,
		CellSize: 0.5,
		OriginX:  100.25,
		OriginY:  200.75,
		Srid:     2180,
		Elev:     []float64{1, 2.5, 3, 4, 5.25, 6},
	}
	path := filepath.Join(t.TempDir(), "dtm.tif")
	require.NoError(t, WriteSurface(path, s))

	got, err := ReadSurface(path)
	require.NoError(t, err)

	assert.Equal(t, s.Rows, got.Rows)
	assert.Equal(t, s.Cols, got.Cols)
	assert.InDelta(t, s.CellSize, got.CellSize, 1e-12)
	assert.InDelta(t, s.OriginX, got.OriginX, 1e-12)
	assert.InDelta(t, s.OriginY, got.OriginY, 1e-12)
	assert.Equal(t, 2180, got.Srid)
	require.Len(t, got.Elev, 6)
	for i := range s.Elev {
		assert.InDelta(t, s.Elev[i], got.Elev[i], 1e-6, "cell %d", i)
	}
}

func TestWriteReadSurfaceNoDataCells(t *testing.T) {
	s := &surface.Surface{
		Rows: 1, Cols: 3,
		CellSize: 1,
		Srid:     32633,
		Elev:     []float64{7, math.NaN(), 9},
	}
	path := filepath.Join(t.TempDir(), "dtm.tif")
	require.NoError(t, WriteSurface(path, s))

	got, err := ReadSurface(path)
	require.NoError(t, err)
	assert.InDelta(t, 7, got.Elev[0], 1e-6)
	assert.True(t, math.IsNaN(got.Elev[1]))
	assert.True(t, got.IsNoData(got.Elev[1]))
	assert.InDelta(t, 9, got.Elev[2], 1e-6)
}

func TestReadSurfaceRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.tif")
	require.NoError(t, os.WriteFile(path, []byte("MM\x00\x2a garbage"), 0644))
	_, err := ReadSurface(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "little endian")
}
