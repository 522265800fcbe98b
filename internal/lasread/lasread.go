// Package lasread is a reader for ASPRS LAS point cloud files (versions 1.2
// to 1.4, point record formats 0 to 8). Beyond the standard fields it
// resolves one configurable classification attribute per point, which may be
// the standard classification byte or an Extra Bytes attribute such as the
// pred_class labels produced by an upstream classifier.
package lasread

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/terramensura/heapvol/internal/data"
)

// StandardClassAttr selects the classification byte of the point record
// instead of an Extra Bytes attribute.
const StandardClassAttr = "classification"

const (
	headerSize12 = 227
	vlrHeaderLen = 54
	ebEntryLen   = 192
)

// standard point record sizes by point data format
var formatSize = map[uint8]int{
	0: 20, 1: 28, 2: 26, 3: 34, 4: 57, 5: 63,
	6: 30, 7: 36, 8: 38,
}

type header struct {
	versionMajor     uint8
	versionMinor     uint8
	headerSize       uint16
	pointDataOffset  uint32
	vlrCount         uint32
	pointFormat      uint8
	pointRecordLen   uint16
	pointCount       uint64
	scaleX, scaleY   float64
	scaleZ           float64
	offX, offY, offZ float64
}

type extraAttr struct {
	name     string
	dataType uint8
	offset   int // byte offset inside the point record
	size     int
}

// ReadCloud reads the whole point cloud from a LAS file, populating each
// point's Class field from the attribute named by classAttr.
// When classAttr names an Extra Bytes attribute the file does not carry, it
// fails with data.ErrMissingClassification before reading any point.
func ReadCloud(path string, classAttr string) (*data.Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCloud(f, classAttr)
}

func readCloud(f io.ReadSeeker, classAttr string) (*data.Cloud, error) {
	hdr, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	stdSize, ok := formatSize[hdr.pointFormat]
	if !ok {
		return nil, fmt.Errorf("las: unsupported point data format %d", hdr.pointFormat)
	}
	if int(hdr.pointRecordLen) < stdSize {
		return nil, fmt.Errorf("las: point record length %d shorter than format %d minimum %d",
			hdr.pointRecordLen, hdr.pointFormat, stdSize)
	}

	cloud := &data.Cloud{ClassAttr: classAttr}
	var class func(rec []byte) uint8

	if strings.EqualFold(classAttr, StandardClassAttr) {
		classOffset, mask := classificationField(hdr.pointFormat)
		class = func(rec []byte) uint8 { return rec[classOffset] & mask }
		cloud.HasClassAttr = true
	} else {
		attrs, err := readExtraAttrs(f, hdr, stdSize)
		if err != nil {
			return nil, err
		}
		attr, found := attrs[strings.ToLower(classAttr)]
		if !found || attr.offset+attr.size > int(hdr.pointRecordLen) {
			// the pipeline needs the attribute resolved before any polygon
			// work starts, so fail here rather than at aggregation time
			return nil, fmt.Errorf("las: attribute %q: %w", classAttr, data.ErrMissingClassification)
		}
		class = func(rec []byte) uint8 { return extraAsClass(rec, attr) }
		cloud.HasClassAttr = true
	}

	if _, err := f.Seek(int64(hdr.pointDataOffset), io.SeekStart); err != nil {
		return nil, err
	}

	r := bufio.NewReaderSize(f, 1<<20)
	rec := make([]byte, hdr.pointRecordLen)
	cloud.Points = make([]data.Point, 0, hdr.pointCount)
	for i := uint64(0); i < hdr.pointCount; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("las: point %d: %w", i, err)
		}
		x := float64(int32(binary.LittleEndian.Uint32(rec[0:]))) * hdr.scaleX
		y := float64(int32(binary.LittleEndian.Uint32(rec[4:]))) * hdr.scaleY
		z := float64(int32(binary.LittleEndian.Uint32(rec[8:]))) * hdr.scaleZ
		cloud.Points = append(cloud.Points, data.Point{
			X:         x + hdr.offX,
			Y:         y + hdr.offY,
			Z:         z + hdr.offZ,
			Intensity: binary.LittleEndian.Uint16(rec[12:]),
			Class:     class(rec),
		})
	}
	return cloud, nil
}

func readHeader(f io.ReadSeeker) (*header, error) {
	buf := make([]byte, headerSize12)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("las: header: %w", err)
	}
	if string(buf[0:4]) != "LASF" {
		return nil, fmt.Errorf("las: bad file signature %q", buf[0:4])
	}

	hdr := &header{
		versionMajor:    buf[24],
		versionMinor:    buf[25],
		headerSize:      binary.LittleEndian.Uint16(buf[94:]),
		pointDataOffset: binary.LittleEndian.Uint32(buf[96:]),
		vlrCount:        binary.LittleEndian.Uint32(buf[100:]),
		pointFormat:     buf[104] & 0x3f, // strip the compression flag bits
		pointRecordLen:  binary.LittleEndian.Uint16(buf[105:]),
		pointCount:      uint64(binary.LittleEndian.Uint32(buf[107:])),
		scaleX:          math.Float64frombits(binary.LittleEndian.Uint64(buf[131:])),
		scaleY:          math.Float64frombits(binary.LittleEndian.Uint64(buf[139:])),
		scaleZ:          math.Float64frombits(binary.LittleEndian.Uint64(buf[147:])),
		offX:            math.Float64frombits(binary.LittleEndian.Uint64(buf[155:])),
		offY:            math.Float64frombits(binary.LittleEndian.Uint64(buf[163:])),
		offZ:            math.Float64frombits(binary.LittleEndian.Uint64(buf[171:])),
	}
	if hdr.versionMajor != 1 {
		return nil, fmt.Errorf("las: unsupported version %d.%d", hdr.versionMajor, hdr.versionMinor)
	}

	// LAS 1.4 moved the authoritative point count to a 64 bit field; the
	// legacy 32 bit field may be zero there
	if hdr.versionMinor >= 4 && int(hdr.headerSize) > headerSize12 {
		rest := make([]byte, int(hdr.headerSize)-headerSize12)
		if _, err := io.ReadFull(f, rest); err != nil {
			return nil, fmt.Errorf("las: extended header: %w", err)
		}
		count14 := binary.LittleEndian.Uint64(rest[247-headerSize12:])
		if hdr.pointCount == 0 {
			hdr.pointCount = count14
		}
	}
	return hdr, nil
}

// classificationField returns record offset and bit mask of the standard
// classification. Formats 0-5 keep the class in the low five bits of byte 15;
// formats 6+ dedicate the whole of byte 16 to it.
func classificationField(format uint8) (int, uint8) {
	if format <= 5 {
		return 15, 0x1f
	}
	return 16, 0xff
}

// readExtraAttrs scans the variable length records for the LASF_Spec Extra
// Bytes record (id 4) and maps attribute names to their record layout.
func readExtraAttrs(f io.ReadSeeker, hdr *header, stdSize int) (map[string]extraAttr, error) {
	if _, err := f.Seek(int64(hdr.headerSize), io.SeekStart); err != nil {
		return nil, err
	}
	attrs := map[string]extraAttr{}
	vlrHdr := make([]byte, vlrHeaderLen)
	for i := uint32(0); i < hdr.vlrCount; i++ {
		if _, err := io.ReadFull(f, vlrHdr); err != nil {
			return nil, fmt.Errorf("las: vlr %d: %w", i, err)
		}
		userID := trimNul(vlrHdr[2:18])
		recordID := binary.LittleEndian.Uint16(vlrHdr[18:])
		payloadLen := int(binary.LittleEndian.Uint16(vlrHdr[20:]))

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(f, payload); err != nil {
			return nil, fmt.Errorf("las: vlr %d payload: %w", i, err)
		}
		if userID != "LASF_Spec" || recordID != 4 {
			continue
		}

		offset := stdSize
		for pos := 0; pos+ebEntryLen <= payloadLen; pos += ebEntryLen {
			entry := payload[pos : pos+ebEntryLen]
			dataType := entry[2]
			size := ebTypeSize(dataType, entry[3])
			attrs[strings.ToLower(trimNul(entry[4:36]))] = extraAttr{
				name:     trimNul(entry[4:36]),
				dataType: dataType,
				offset:   offset,
				size:     size,
			}
			offset += size
		}
	}
	return attrs, nil
}

// ebTypeSize returns the storage size of an Extra Bytes data type. Type 0 is
// raw undocumented bytes whose size lives in the options field.
func ebTypeSize(dataType, options uint8) int {
	switch dataType {
	case 0:
		return int(options)
	case 1, 2: // uint8, int8
		return 1
	case 3, 4: // uint16, int16
		return 2
	case 5, 6, 9: // uint32, int32, float32
		return 4
	case 7, 8, 10: // uint64, int64, float64
		return 8
	}
	return 0
}

func extraAsClass(rec []byte, attr extraAttr) uint8 {
	b := rec[attr.offset : attr.offset+attr.size]
	switch attr.dataType {
	case 1, 2:
		return b[0]
	case 3, 4:
		return uint8(binary.LittleEndian.Uint16(b))
	case 5, 6:
		return uint8(binary.LittleEndian.Uint32(b))
	case 7, 8:
		return uint8(binary.LittleEndian.Uint64(b))
	case 9:
		return uint8(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case 10:
		return uint8(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	}
	return 0
}

func trimNul(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
