package bits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTurnsOnASingleBitWithoutDisturbingItsNeighbors(t *testing.T) {
	buf := []byte{0x00}
	b := New(buf, 0)

	require.True(t, b.Set(0))
	require.True(t, b.Set(1))
	require.False(t, b.Set(1), "setting an already-set bit reports no change")
	require.Equal(t, byte(0x03), buf[0])
}

func TestSetIgnoresBitsPastTheWrappedLength(t *testing.T) {
	buf := []byte{0x00}
	b := New(buf, 4)

	require.False(t, b.Set(4), "bit 4 falls in the 4 missing bits")
	require.Equal(t, byte(0x00), buf[0])
}

func TestSetUint8WritesAPlainByte(t *testing.T) {
	buf := make([]byte, 2)
	b := New(buf, 0)

	b.SetUint8(1, 7)
	require.Equal(t, []byte{0x00, 0x07}, buf)
}

func TestSetUint16WritesLittleEndianAtTheGivenWordIndex(t *testing.T) {
	buf := make([]byte, 6)
	b := New(buf, 0)

	b.SetUint16(0, 0x0102)
	b.SetUint16(2, 0xffee)

	require.Equal(t, []byte{0x02, 0x01, 0x00, 0x00, 0xee, 0xff}, buf)
}

func TestNewDoesNotCopyTheBackingSlice(t *testing.T) {
	buf := make([]byte, 2)
	b := New(buf, 0)

	b.SetUint16(0, 0xbeef)
	require.Equal(t, []byte{0xef, 0xbe}, buf, "Bits must mutate the caller's slice in place")
}
