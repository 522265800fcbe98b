// Package raster persists ground surfaces as single band float32 GeoTIFF
// files carrying the affine georeferencing transform and the EPSG code of
// the grid, and reads them back.
package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/terramensura/heapvol/internal/surface"
)

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339
	tagModelPixelScale = 33550
	tagModelTiepoint   = 33922
	tagGeoKeyDirectory = 34735
	tagGDALNoData      = 42113

	typeShort  = 3
	typeLong   = 4
	typeASCII  = 2
	typeDouble = 12

	geoKeyModelType  = 1024
	geoKeyRasterType = 1025
	geoKeyProjCS     = 3072

	sampleFormatFloat = 3
)

// WriteSurface stores the surface as a little endian single strip GeoTIFF.
// No-data cells are written as float32 NaN and advertised via GDAL_NODATA.
func WriteSurface(path string, s *surface.Surface) error {
	var buf bytes.Buffer
	le := binary.LittleEndian

	pixels := make([]byte, s.Rows*s.Cols*4)
	for i, v := range s.Elev {
		le.PutUint32(pixels[i*4:], math.Float32bits(float32(v)))
	}

	// file layout: 8 byte header, strip, out of line tag payloads, IFD
	stripOffset := uint32(8)
	scaleOffset := stripOffset + uint32(len(pixels))
	tiepointOffset := scaleOffset + 3*8
	geoKeyOffset := tiepointOffset + 6*8
	ifdOffset := geoKeyOffset + 16*2

	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, ifdOffset)

	buf.Write(pixels)
	for _, v := range []float64{s.CellSize, s.CellSize, 0} {
		binary.Write(&buf, le, v)
	}
	for _, v := range []float64{0, 0, 0, s.OriginX, s.OriginY, 0} {
		binary.Write(&buf, le, v)
	}
	geoKeys := []uint16{
		1, 1, 0, 3, // directory version header
		geoKeyModelType, 0, 1, 1, // projected CRS
		geoKeyRasterType, 0, 1, 1, // pixel is area
		geoKeyProjCS, 0, 1, uint16(s.Srid),
	}
	for _, v := range geoKeys {
		binary.Write(&buf, le, v)
	}

	entries := []ifdEntry{
		{tagImageWidth, typeLong, 1, uint32(s.Cols)},
		{tagImageLength, typeLong, 1, uint32(s.Rows)},
		{tagBitsPerSample, typeShort, 1, 32},
		{tagCompression, typeShort, 1, 1},
		{tagPhotometric, typeShort, 1, 1},
		{tagStripOffsets, typeLong, 1, stripOffset},
		{tagSamplesPerPixel, typeShort, 1, 1},
		{tagRowsPerStrip, typeLong, 1, uint32(s.Rows)},
		{tagStripByteCounts, typeLong, 1, uint32(len(pixels))},
		{tagSampleFormat, typeShort, 1, sampleFormatFloat},
		{tagModelPixelScale, typeDouble, 3, scaleOffset},
		{tagModelTiepoint, typeDouble, 6, tiepointOffset},
		{tagGeoKeyDirectory, typeShort, 16, geoKeyOffset},
		// "nan\x00" is exactly four bytes, so it is stored inline
		{tagGDALNoData, typeASCII, 4, le.Uint32([]byte("nan\x00"))},
	}
	binary.Write(&buf, le, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, le, e.tag)
		binary.Write(&buf, le, e.typ)
		binary.Write(&buf, le, e.count)
		binary.Write(&buf, le, e.value)
	}
	binary.Write(&buf, le, uint32(0)) // no next IFD

	return os.WriteFile(path, buf.Bytes(), 0644)
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// ReadSurface loads a GeoTIFF written by WriteSurface back into a Surface.
// It understands the uncompressed little endian single band float32 subset
// this package produces.
func ReadSurface(path string) (*surface.Surface, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	le := binary.LittleEndian
	if len(raw) < 8 || string(raw[0:2]) != "II" || le.Uint16(raw[2:]) != 42 {
		return nil, fmt.Errorf("raster: %s is not a little endian TIFF", path)
	}

	ifdOffset := le.Uint32(raw[4:])
	if int(ifdOffset)+2 > len(raw) {
		return nil, fmt.Errorf("raster: truncated IFD")
	}
	entryCount := int(le.Uint16(raw[ifdOffset:]))

	s := &surface.Surface{CellSize: 1}
	var stripOffset, stripLen uint32
	var bits uint32 = 32
	var sampleFormat uint32 = sampleFormatFloat

	for i := 0; i < entryCount; i++ {
		e := raw[int(ifdOffset)+2+i*12:]
		tag := le.Uint16(e[0:])
		count := le.Uint32(e[4:])
		value := le.Uint32(e[8:])
		switch tag {
		case tagImageWidth:
			s.Cols = int(tagScalar(le, e))
		case tagImageLength:
			s.Rows = int(tagScalar(le, e))
		case tagBitsPerSample:
			bits = tagScalar(le, e)
		case tagSampleFormat:
			sampleFormat = tagScalar(le, e)
		case tagStripOffsets:
			if count != 1 {
				return nil, fmt.Errorf("raster: multi strip TIFF not supported")
			}
			stripOffset = value
		case tagStripByteCounts:
			stripLen = value
		case tagModelPixelScale:
			s.CellSize = math.Float64frombits(le.Uint64(raw[value:]))
		case tagModelTiepoint:
			s.OriginX = math.Float64frombits(le.Uint64(raw[value+3*8:]))
			s.OriginY = math.Float64frombits(le.Uint64(raw[value+4*8:]))
		case tagGeoKeyDirectory:
			for k := uint32(4); k+4 <= count; k += 4 {
				key := le.Uint16(raw[value+k*2:])
				if key == geoKeyProjCS {
					s.Srid = int(le.Uint16(raw[value+(k+3)*2:]))
				}
			}
		}
	}

	if bits != 32 || sampleFormat != sampleFormatFloat {
		return nil, fmt.Errorf("raster: only float32 samples supported, got %d bit format %d", bits, sampleFormat)
	}
	if s.Rows <= 0 || s.Cols <= 0 {
		return nil, fmt.Errorf("raster: missing image dimensions")
	}
	if int(stripOffset)+int(stripLen) > len(raw) || int(stripLen) < s.Rows*s.Cols*4 {
		return nil, fmt.Errorf("raster: truncated pixel data")
	}

	s.Elev = make([]float64, s.Rows*s.Cols)
	for i := range s.Elev {
		s.Elev[i] = float64(math.Float32frombits(le.Uint32(raw[int(stripOffset)+i*4:])))
	}
	return s, nil
}

// tagScalar reads a SHORT or LONG value stored inline in the entry.
func tagScalar(le binary.ByteOrder, entry []byte) uint32 {
	if le.Uint16(entry[2:]) == typeShort {
		return uint32(le.Uint16(entry[8:]))
	}
	return le.Uint32(entry[8:])
}
