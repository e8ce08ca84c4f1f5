// Package ipts decodes the wire format produced by an Intel Precise
// Touch & Stylus digitizer and holds the data types shared by the rest
// of the pipeline.
package ipts

import "math"

// Device coordinate range. IPTS reports stylus position as fixed-point
// device units in [0, IPTS_MAX_X] x [0, IPTS_MAX_Y].
const (
	MaxX = 9600
	MaxY = 7200
)

// Diagonal is the device-unit diagonal. The virtual touch device built by
// the sink reports no touch-major/minor axes and does not use it.
var Diagonal = math.Hypot(MaxX, MaxY)

// AffineTransform maps logical grid indices to physical micrometers.
// Layout mirrors the device metadata blob: [xx, yx, tx, xy, yy, ty].
type AffineTransform struct {
	XX, YX, TX float32
	XY, YY, TY float32
}

// Apply maps a logical grid coordinate (col, row) to physical micrometers.
func (t AffineTransform) Apply(col, row float64) (x, y float64) {
	x = float64(t.XX)*col + float64(t.YX)*row + float64(t.TX)
	y = float64(t.XY)*col + float64(t.YY)*row + float64(t.TY)
	return x, y
}

// Metadata describes the physical layout of the digitizer grid. Not all
// devices report it; callers treat it as optional.
type Metadata struct {
	Rows, Columns uint32
	Width, Height uint32 // physical extents, micrometers
	Transform     AffineTransform
	VendorByte    byte
	Unknown       [16]byte
}

// DeviceInfo identifies the physical device that produced a report
// stream.
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Version      uint16
	MaxContacts  uint8
}

// Heatmap is a raw capacitive frame as received on the wire: 8-bit cells,
// row-major, with a declared intensity range.
type Heatmap struct {
	Height, Width uint16
	ZMin, ZMax    uint8
	Data          []byte
}

// StylusButtons is a bitfield of the buttons reported by the legacy
// stylus struct.
type StylusButtons uint8

const (
	ButtonTouch StylusButtons = 1 << iota
	ButtonBarrel
	ButtonEraser
	ButtonInRange
)

func (b StylusButtons) Has(flag StylusButtons) bool {
	return b&flag != 0
}

// StylusData is the typed, decoded form of either a legacy stylus report
// or a DFT-interpolated stylus pose.
type StylusData struct {
	X, Y       uint16 // device units, [0, MaxX] x [0, MaxY]
	Pressure   uint16 // [0, 4096]
	TiltX      int16  // hundredths of a degree
	TiltY      int16
	Buttons    StylusButtons
	Serial     uint32
}

// DftBin is a single complex frequency bin: real/imaginary pair.
type DftBin struct {
	Real, Imag int16
}

// Magnitude returns the bin's magnitude, |real + i*imag|.
func (b DftBin) Magnitude() float64 {
	return math.Hypot(float64(b.Real), float64(b.Imag))
}

// DftGroup is one antenna's row or column measurement: a handful of
// complex bins around the signal peak, plus the frequency/magnitude
// metadata the device attached to them.
type DftGroup struct {
	Frequency uint32
	Magnitude uint32
	Bins      []DftBin
}

// DftWindow is a single frame of antenna measurements used to derive a
// stylus position when the device does not report raw coordinates
// directly.
type DftWindow struct {
	Rows    []DftGroup
	Columns []DftGroup
}
