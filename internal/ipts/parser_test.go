package ipts

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func appendRecord(buf []byte, recType uint32, payload []byte) []byte {
	header := make([]byte, recordHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], recType)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	return append(append(buf, header...), payload...)
}

func heatmapPayload(height, width uint16, zMin, zMax uint8, cells []byte) []byte {
	p := make([]byte, heatmapSubHeader+1)
	binary.LittleEndian.PutUint16(p[0:2], height)
	binary.LittleEndian.PutUint16(p[2:4], width)
	p[4] = zMin
	p[5] = zMax
	p[6] = byte(FormatRaw)
	return append(p, cells...)
}

func stylusLegacyPayload(x, y, pressure uint16, tiltX, tiltY int16, buttons StylusButtons, serial uint32) []byte {
	p := make([]byte, stylusLegacyBytes)
	binary.LittleEndian.PutUint16(p[0:2], x)
	binary.LittleEndian.PutUint16(p[2:4], y)
	binary.LittleEndian.PutUint16(p[4:6], pressure)
	binary.LittleEndian.PutUint16(p[6:8], uint16(tiltX))
	binary.LittleEndian.PutUint16(p[8:10], uint16(tiltY))
	p[10] = byte(buttons)
	binary.LittleEndian.PutUint32(p[12:16], serial)
	return p
}

func TestParseHeatmap(t *testing.T) {
	cells := make([]byte, 8*8)
	for i := range cells {
		cells[i] = 0xFF
	}
	buf := appendRecord(nil, TypeHeatmap, heatmapPayload(8, 8, 0, 255, cells))

	var got Heatmap
	calls := 0
	p := &Parser{OnHeatmap: func(h Heatmap) { got = h; calls++ }}
	require.NoError(t, p.Parse(buf))
	require.Equal(t, 1, calls)
	require.EqualValues(t, 8, got.Height)
	require.EqualValues(t, 8, got.Width)
	require.EqualValues(t, 0, got.ZMin)
	require.EqualValues(t, 255, got.ZMax)
	require.Len(t, got.Data, 64)
}

func TestParseStylusLegacy(t *testing.T) {
	buf := appendRecord(nil, TypeStylusLegacy, stylusLegacyPayload(100, 200, 300, -10, 20, ButtonTouch|ButtonInRange, 42))

	var got StylusData
	p := &Parser{OnStylus: func(s StylusData) { got = s }}
	require.NoError(t, p.Parse(buf))
	require.EqualValues(t, 100, got.X)
	require.EqualValues(t, 200, got.Y)
	require.EqualValues(t, 300, got.Pressure)
	require.EqualValues(t, -10, got.TiltX)
	require.EqualValues(t, 20, got.TiltY)
	require.True(t, got.Buttons.Has(ButtonTouch))
	require.True(t, got.Buttons.Has(ButtonInRange))
	require.False(t, got.Buttons.Has(ButtonBarrel))
	require.EqualValues(t, 42, got.Serial)
}

func dftGroupBytes(freq, mag uint32, bins [][2]int16) []byte {
	b := make([]byte, dftGroupHeader)
	binary.LittleEndian.PutUint32(b[0:4], freq)
	binary.LittleEndian.PutUint32(b[4:8], mag)
	b[8] = byte(len(bins))
	for _, bin := range bins {
		bb := make([]byte, 4)
		binary.LittleEndian.PutUint16(bb[0:2], uint16(bin[0]))
		binary.LittleEndian.PutUint16(bb[2:4], uint16(bin[1]))
		b = append(b, bb...)
	}
	return b
}

func TestParseDftWindow(t *testing.T) {
	row := dftGroupBytes(1000, 500, [][2]int16{{1, 0}, {4, 0}, {1, 0}})
	payload := append([]byte{1, 0}, row...) // 1 row group, 0 column groups
	buf := appendRecord(nil, TypeDftWindow, payload)

	var got DftWindow
	p := &Parser{OnDft: func(w DftWindow) { got = w }}
	require.NoError(t, p.Parse(buf))
	require.Len(t, got.Rows, 1)
	require.Len(t, got.Columns, 0)
	require.Len(t, got.Rows[0].Bins, 3)
	require.EqualValues(t, 1000, got.Rows[0].Frequency)
}

func TestParseUnknownTopLevelRecordSkipped(t *testing.T) {
	buf := appendRecord(nil, 0xFEFE, []byte{1, 2, 3})
	buf = appendRecord(buf, TypeStylusLegacy, stylusLegacyPayload(1, 2, 3, 0, 0, 0, 7))

	calls := 0
	p := &Parser{OnStylus: func(StylusData) { calls++ }}
	require.NoError(t, p.Parse(buf))
	require.Equal(t, 1, calls)
}

func TestParseTruncatedHeatmapPayloadFails(t *testing.T) {
	// Declares 8x8 cells but the record only carries a handful of bytes.
	short := heatmapPayload(8, 8, 0, 255, []byte{1, 2, 3})
	buf := appendRecord(nil, TypeHeatmap, short)
	// The record header carries the payload's true length; it is the
	// heatmap sub-header's 8x8 declaration that exceeds the 3 cell bytes
	// the record carries.
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(short)))

	p := &Parser{}
	err := p.Parse(buf)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseDeclaredLengthExceedsBuffer(t *testing.T) {
	header := make([]byte, recordHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], TypeHeatmap)
	binary.LittleEndian.PutUint32(header[4:8], 1000) // way more than supplied
	buf := append(header, []byte{1, 2, 3}...)

	p := &Parser{}
	err := p.Parse(buf)
	require.Error(t, err)
}

func TestParseMalformedSubFrameStillDeliversPrecedingFrames(t *testing.T) {
	var buf []byte
	buf = appendRecord(buf, TypeStylusLegacy, stylusLegacyPayload(1, 2, 3, 0, 0, 0, 9))
	// A heatmap record whose own header lies about how many cells follow.
	badPayload := heatmapPayload(8, 8, 0, 255, []byte{1, 2, 3})
	buf = appendRecord(buf, TypeHeatmap, badPayload)

	stylusCalls, heatmapCalls := 0, 0
	p := &Parser{
		OnStylus:  func(StylusData) { stylusCalls++ },
		OnHeatmap: func(Heatmap) { heatmapCalls++ },
	}
	err := p.Parse(buf)
	require.Error(t, err)
	require.Equal(t, 1, stylusCalls)
	require.Equal(t, 0, heatmapCalls)
}

func TestParseIsDeterministic(t *testing.T) {
	buf := appendRecord(nil, TypeStylusLegacy, stylusLegacyPayload(1, 2, 3, 4, 5, ButtonBarrel, 11))

	var first, second []StylusData
	p1 := &Parser{OnStylus: func(s StylusData) { first = append(first, s) }}
	p2 := &Parser{OnStylus: func(s StylusData) { second = append(second, s) }}

	require.NoError(t, p1.Parse(buf))
	require.NoError(t, p2.Parse(buf))
	require.Equal(t, first, second)
}
