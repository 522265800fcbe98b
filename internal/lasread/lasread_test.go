package lasread

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramensura/heapvol/internal/data"
)

type testPoint struct {
	x, y, z   float64
	intensity uint16
	class     uint8
	pred      uint8
}

// lasBuilder assembles a minimal little endian LAS 1.2 file with point
// format 0 records and, optionally, an Extra Bytes attribute.
type lasBuilder struct {
	points    []testPoint
	extraName string
	scale     float64
}

func (b *lasBuilder) bytes(t *testing.T) []byte {
	t.Helper()
	le := binary.LittleEndian
	if b.scale == 0 {
		b.scale = 0.001
	}

	recordLen := uint16(20)
	var vlrCount uint32
	var vlr bytes.Buffer
	if b.extraName != "" {
		recordLen++ // one uint8 extra byte per point
		vlrCount = 1

		entry := make([]byte, 192)
		entry[2] = 1 // data type uint8
		copy(entry[4:36], b.extraName)

		vlrHdr := make([]byte, 54)
		copy(vlrHdr[2:18], "LASF_Spec")
		le.PutUint16(vlrHdr[18:], 4)                  // record id: extra bytes
		le.PutUint16(vlrHdr[20:], uint16(len(entry))) // payload length
		vlr.Write(vlrHdr)
		vlr.Write(entry)
	}

	hdr := make([]byte, 227)
	copy(hdr[0:4], "LASF")
	hdr[24] = 1 // version 1.2
	hdr[25] = 2
	le.PutUint16(hdr[94:], 227)
	le.PutUint32(hdr[96:], uint32(227+vlr.Len()))
	le.PutUint32(hdr[100:], vlrCount)
	hdr[104] = 0 // point format 0
	le.PutUint16(hdr[105:], recordLen)
	le.PutUint32(hdr[107:], uint32(len(b.points)))
	le.PutUint64(hdr[131:], math.Float64bits(b.scale))
	le.PutUint64(hdr[139:], math.Float64bits(b.scale))
	le.PutUint64(hdr[147:], math.Float64bits(b.scale))
	// coordinate offsets stay zero

	var out bytes.Buffer
	out.Write(hdr)
	out.Write(vlr.Bytes())
	for _, p := range b.points {
		rec := make([]byte, recordLen)
		le.PutUint32(rec[0:], uint32(int32(p.x/b.scale)))
		le.PutUint32(rec[4:], uint32(int32(p.y/b.scale)))
		le.PutUint32(rec[8:], uint32(int32(p.z/b.scale)))
		le.PutUint16(rec[12:], p.intensity)
		rec[15] = p.class
		if b.extraName != "" {
			rec[20] = p.pred
		}
		out.Write(rec)
	}
	return out.Bytes()
}

func (b *lasBuilder) write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloud.las")
	require.NoError(t, os.WriteFile(path, b.bytes(t), 0644))
	return path
}

func TestReadCloudStandardClassification(t *testing.T) {
	b := &lasBuilder{points: []testPoint{
		{x: 1.5, y: 2.5, z: 3.5, intensity: 7, class: 2},
		{x: -4, y: 0.25, z: 10, intensity: 1, class: 5},
	}}
	cloud, err := ReadCloud(b.write(t), StandardClassAttr)
	require.NoError(t, err)

	require.Equal(t, 2, cloud.Len())
	assert.True(t, cloud.HasClassAttr)
	assert.InDelta(t, 1.5, cloud.Points[0].X, 1e-9)
	assert.InDelta(t, 2.5, cloud.Points[0].Y, 1e-9)
	assert.InDelta(t, 3.5, cloud.Points[0].Z, 1e-9)
	assert.Equal(t, uint16(7), cloud.Points[0].Intensity)
	assert.Equal(t, uint8(2), cloud.Points[0].Class)
	assert.Equal(t, uint8(5), cloud.Points[1].Class)
	assert.InDelta(t, -4, cloud.Points[1].X, 1e-9)
}

func TestReadCloudExtraBytesAttribute(t *testing.T) {
	b := &lasBuilder{
		extraName: "pred_class",
		points: []testPoint{
			{x: 1, y: 1, z: 5, class: 2, pred: 0},
			{x: 2, y: 2, z: 9, class: 2, pred: 1},
		},
	}
	cloud, err := ReadCloud(b.write(t), "pred_class")
	require.NoError(t, err)

	require.Equal(t, 2, cloud.Len())
	assert.Equal(t, uint8(0), cloud.Points[0].Class)
	assert.Equal(t, uint8(1), cloud.Points[1].Class)

	terrain, err := cloud.TerrainSubset(0)
	require.NoError(t, err)
	require.Len(t, terrain, 1)
	assert.InDelta(t, 5, terrain[0].Z, 1e-9)
}

func TestReadCloudMissingClassificationAttribute(t *testing.T) {
	b := &lasBuilder{points: []testPoint{{x: 1, y: 1, z: 1}}}
	_, err := ReadCloud(b.write(t), "pred_class")
	require.ErrorIs(t, err, data.ErrMissingClassification)
}

func TestReadCloudBadSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.las")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, 400), 0644))
	_, err := ReadCloud(path, StandardClassAttr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}
