package sink

// Report descriptor byte opcodes. The sink builds its descriptors
// directly as byte literals, the same way the psanford/uhid examples
// construct a descriptor for a virtual device that the kernel's
// hid-generic + hid-multitouch or hid-generic + Wacom-style drivers
// will bind to.
const (
	tagUsagePage     = 0x05
	tagUsage         = 0x09
	tagCollection    = 0xA1
	tagEndCollection = 0xC0
	tagReportID      = 0x85
	tagLogicalMin    = 0x15
	tagLogicalMin16  = 0x16
	tagLogicalMax    = 0x25
	tagLogicalMax16  = 0x26
	tagReportSize    = 0x75
	tagReportCount   = 0x95
	tagInput         = 0x81
	tagUsageMin      = 0x19
	tagUsageMax      = 0x29
)

const (
	collectionApplication = 0x01
	collectionLogical     = 0x02

	usagePageGenericDesktop = 0x01
	usagePageDigitizer      = 0x0D
	usagePageButton         = 0x09

	usageX = 0x30
	usageY = 0x31

	usageDigitizerTouchScreen = 0x04
	usageDigitizerPen         = 0x02
	usageDigitizerStylus      = 0x20
	usageTipPressure          = 0x30
	usageTipSwitch            = 0x42
	usageBarrelSwitch         = 0x44
	usageEraser               = 0x45
	usageXTilt                = 0x3D
	usageYTilt                = 0x3E
	usageInRange              = 0x32
	usageConfidence           = 0x47
	usageContactIdentifier    = 0x51
	usageContactCount         = 0x54
	usageScanTime             = 0x56

	touchReportID  = 0x01
	stylusReportID = 0x02
)

func le16(v int) []byte { return []byte{byte(v), byte(v >> 8)} }

// multitouchDescriptor builds a digitizer/touch-screen report descriptor
// with slots contact slots, one Tip Switch + Confidence + Contact
// Identifier + X + Y per slot, plus a trailing Contact Count and Scan
// Time, mirroring the shape Linux's hid-multitouch driver expects.
func multitouchDescriptor(slots int, maxX, maxY int) []byte {
	var d []byte
	emit := func(tag byte, payload ...byte) {
		d = append(d, tag)
		d = append(d, payload...)
	}

	emit(tagUsagePage, usagePageDigitizer)
	emit(tagUsage, usageDigitizerTouchScreen)
	emit(tagCollection, collectionApplication)
	emit(tagReportID, touchReportID)

	for i := 0; i < slots; i++ {
		emit(tagUsage, usageDigitizerTouchScreen) // finger sub-collection, grouped under the same usage
		emit(tagCollection, collectionLogical)

		emit(tagUsagePage, usagePageDigitizer)
		emit(tagUsage, usageTipSwitch)
		emit(tagUsage, usageConfidence)
		emit(tagLogicalMin, 0)
		emit(tagLogicalMax, 1)
		emit(tagReportSize, 1)
		emit(tagReportCount, 2)
		emit(tagInput, 0x02) // data, var, abs

		// 6 constant padding bits to byte-align the two 1-bit fields above.
		emit(tagReportSize, 1)
		emit(tagReportCount, 6)
		emit(tagInput, 0x03) // const, var, abs

		emit(tagUsage, usageContactIdentifier)
		emit(tagLogicalMin, 0)
		emit(tagLogicalMax, 0x7F)
		emit(tagReportSize, 8)
		emit(tagReportCount, 1)
		emit(tagInput, 0x02)

		emit(tagUsagePage, usagePageGenericDesktop)
		emit(tagUsage, usageX)
		emit(tagLogicalMin16, le16(0)...)
		emit(tagLogicalMax16, le16(maxX)...)
		emit(tagReportSize, 16)
		emit(tagReportCount, 1)
		emit(tagInput, 0x02)

		emit(tagUsage, usageY)
		emit(tagLogicalMin16, le16(0)...)
		emit(tagLogicalMax16, le16(maxY)...)
		emit(tagReportSize, 16)
		emit(tagReportCount, 1)
		emit(tagInput, 0x02)

		emit(tagEndCollection)
	}

	emit(tagUsagePage, usagePageDigitizer)
	emit(tagUsage, usageContactCount)
	emit(tagLogicalMin, 0)
	emit(tagLogicalMax, 0x7F)
	emit(tagReportSize, 8)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagUsage, usageScanTime)
	emit(tagLogicalMin16, le16(0)...)
	emit(tagLogicalMax16, le16(0x7FFF)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagEndCollection)
	return d
}

// stylusDescriptor builds a digitizer/pen report descriptor with tip
// switch, barrel switch, eraser, in-range, X/Y, pressure and X/Y tilt.
func stylusDescriptor(maxX, maxY, maxPressure int) []byte {
	var d []byte
	emit := func(tag byte, payload ...byte) {
		d = append(d, tag)
		d = append(d, payload...)
	}

	emit(tagUsagePage, usagePageDigitizer)
	emit(tagUsage, usageDigitizerPen)
	emit(tagCollection, collectionApplication)
	emit(tagReportID, stylusReportID)

	emit(tagUsage, usageDigitizerStylus)
	emit(tagCollection, collectionLogical)

	emit(tagUsage, usageTipSwitch)
	emit(tagUsage, usageBarrelSwitch)
	emit(tagUsage, usageEraser)
	emit(tagUsage, usageInRange)
	emit(tagLogicalMin, 0)
	emit(tagLogicalMax, 1)
	emit(tagReportSize, 1)
	emit(tagReportCount, 4)
	emit(tagInput, 0x02)

	emit(tagReportSize, 1)
	emit(tagReportCount, 4)
	emit(tagInput, 0x03) // 4 padding bits

	emit(tagUsagePage, usagePageGenericDesktop)
	emit(tagUsage, usageX)
	emit(tagLogicalMin16, le16(0)...)
	emit(tagLogicalMax16, le16(maxX)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagUsage, usageY)
	emit(tagLogicalMin16, le16(0)...)
	emit(tagLogicalMax16, le16(maxY)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagUsagePage, usagePageDigitizer)
	emit(tagUsage, usageTipPressure)
	emit(tagLogicalMin16, le16(0)...)
	emit(tagLogicalMax16, le16(maxPressure)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagUsage, usageXTilt)
	emit(tagLogicalMin16, le16(-9000)...)
	emit(tagLogicalMax16, le16(9000)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagUsage, usageYTilt)
	emit(tagLogicalMin16, le16(-9000)...)
	emit(tagLogicalMax16, le16(9000)...)
	emit(tagReportSize, 16)
	emit(tagReportCount, 1)
	emit(tagInput, 0x02)

	emit(tagEndCollection)
	emit(tagEndCollection)
	return d
}
