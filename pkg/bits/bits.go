// Package bits wraps a byte slice for in-place bit-field and
// little-endian integer writes, the shape a fixed HID input report
// needs: some bits are single flags, some fields are whole bytes or
// 16-bit little-endian words, all packed into one pre-sized buffer.
package bits

import "encoding/binary"

// Bits is a view over a byte slice. It does not copy: Set/SetUint8/
// SetUint16 mutate the underlying bytes the caller passed to New.
type Bits struct {
	missingBits uint8
	bytes       []byte
}

// New wraps data as a Bits. missingBits trims the usable bit length by
// that many bits, counted off the last byte.
func New(data []byte, missingBits int) Bits {
	return Bits{
		bytes:       data,
		missingBits: uint8(missingBits),
	}
}

func (b Bits) len() int {
	return len(b.bytes)*8 - int(b.missingBits)
}

// Set turns on the given bit, counted from the start of the wrapped
// slice, and reports whether it changed.
func (b Bits) Set(bit int) bool {
	if bit >= b.len() {
		return false
	}
	byteOffset := bit / 8
	bitOffset := bit % 8
	changed := b.bytes[byteOffset]&(1<<bitOffset) == 0
	b.bytes[byteOffset] |= 1 << bitOffset
	return changed
}

// SetUint8 writes value as the byte at the given index.
func (b Bits) SetUint8(index int, value uint8) {
	b.bytes[index] = value
}

// SetUint16 writes value as a little-endian 16-bit word starting at
// byte offset index*2.
func (b Bits) SetUint16(index int, value uint16) {
	binary.LittleEndian.PutUint16(b.bytes[index*2:], value)
}
