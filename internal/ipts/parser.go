package ipts

import "encoding/binary"

// Top-level record types. Anything else is skipped without error.
const (
	TypeHeatmap      uint32 = 1
	TypeStylusLegacy uint32 = 2
	TypeDftWindow    uint32 = 3
)

// HeatmapFormat distinguishes how the heatmap payload encodes its cells.
// Only FormatRaw is defined; any other value inside a heatmap sub-frame
// is a structural error, unlike an unrecognized top-level record type.
type HeatmapFormat uint8

const FormatRaw HeatmapFormat = 0

const (
	recordHeaderSize  = 8 // Type uint32, Length uint32
	heatmapSubHeader  = 6 // Height uint16, Width uint16, ZMin uint8, ZMax uint8
	stylusLegacyBytes = 16
	dftGroupHeader    = 9 // Frequency uint32, Magnitude uint32, NumBins uint8
)

// Parser demultiplexes a raw byte buffer into typed frames and invokes
// the matching registered callback once per sub-frame, in source order.
// A Parser holds no state between calls: every buffer handed to Parse is
// self-framed by its own record headers.
type Parser struct {
	OnHeatmap func(Heatmap)
	OnStylus  func(StylusData)
	OnDft     func(DftWindow)
}

// Parse decodes data into zero or more frames. It stops and returns a
// *ParseError as soon as a record is malformed; frames decoded before the
// failing record have already been delivered to their callbacks.
func (p *Parser) Parse(data []byte) error {
	for len(data) > 0 {
		if len(data) < recordHeaderSize {
			return newParseError("truncated record header: %d bytes remaining", len(data))
		}

		recType := binary.LittleEndian.Uint32(data[0:4])
		length := binary.LittleEndian.Uint32(data[4:8])
		data = data[recordHeaderSize:]

		if uint64(length) > uint64(len(data)) {
			return newParseError("record length %d exceeds remaining buffer %d", length, len(data))
		}

		payload := data[:length]
		data = data[length:]

		switch recType {
		case TypeHeatmap:
			if err := p.parseHeatmap(payload); err != nil {
				return err
			}
		case TypeStylusLegacy:
			if err := p.parseStylusLegacy(payload); err != nil {
				return err
			}
		case TypeDftWindow:
			if err := p.parseDftWindow(payload); err != nil {
				return err
			}
		default:
			// Unknown top-level record types are skipped without error.
		}
	}
	return nil
}

func (p *Parser) parseHeatmap(payload []byte) error {
	if len(payload) < heatmapSubHeader+1 {
		return newParseError("heatmap sub-frame too short: %d bytes", len(payload))
	}

	height := binary.LittleEndian.Uint16(payload[0:2])
	width := binary.LittleEndian.Uint16(payload[2:4])
	zMin := payload[4]
	zMax := payload[5]
	format := HeatmapFormat(payload[6])
	if format != FormatRaw {
		return newParseError("heatmap sub-frame has unknown format %d", format)
	}

	cells := payload[7:]
	want := int(height) * int(width)
	if len(cells) < want {
		return newParseError("heatmap payload declares %dx%d cells but only has %d bytes", height, width, len(cells))
	}

	if p.OnHeatmap != nil {
		p.OnHeatmap(Heatmap{
			Height: height,
			Width:  width,
			ZMin:   zMin,
			ZMax:   zMax,
			Data:   cells[:want],
		})
	}
	return nil
}

func (p *Parser) parseStylusLegacy(payload []byte) error {
	if len(payload) < stylusLegacyBytes {
		return newParseError("stylus sub-frame too short: %d bytes", len(payload))
	}

	data := StylusData{
		X:        binary.LittleEndian.Uint16(payload[0:2]),
		Y:        binary.LittleEndian.Uint16(payload[2:4]),
		Pressure: binary.LittleEndian.Uint16(payload[4:6]),
		TiltX:    int16(binary.LittleEndian.Uint16(payload[6:8])),
		TiltY:    int16(binary.LittleEndian.Uint16(payload[8:10])),
		Buttons:  StylusButtons(payload[10]),
		Serial:   binary.LittleEndian.Uint32(payload[12:16]),
	}

	if p.OnStylus != nil {
		p.OnStylus(data)
	}
	return nil
}

func (p *Parser) parseDftWindow(payload []byte) error {
	if len(payload) < 2 {
		return newParseError("dft window sub-frame too short: %d bytes", len(payload))
	}

	numRows := int(payload[0])
	numColumns := int(payload[1])
	rest := payload[2:]

	window := DftWindow{}

	var err error
	window.Rows, rest, err = parseDftGroups(rest, numRows)
	if err != nil {
		return err
	}
	window.Columns, _, err = parseDftGroups(rest, numColumns)
	if err != nil {
		return err
	}

	if p.OnDft != nil {
		p.OnDft(window)
	}
	return nil
}

func parseDftGroups(data []byte, count int) ([]DftGroup, []byte, error) {
	groups := make([]DftGroup, 0, count)
	for i := 0; i < count; i++ {
		if len(data) < dftGroupHeader {
			return nil, nil, newParseError("dft group %d header truncated", i)
		}
		group := DftGroup{
			Frequency: binary.LittleEndian.Uint32(data[0:4]),
			Magnitude: binary.LittleEndian.Uint32(data[4:8]),
		}
		numBins := int(data[8])
		data = data[dftGroupHeader:]

		binBytes := numBins * 4
		if len(data) < binBytes {
			return nil, nil, newParseError("dft group %d declares %d bins but only has %d bytes", i, numBins, len(data))
		}

		group.Bins = make([]DftBin, numBins)
		for b := 0; b < numBins; b++ {
			off := b * 4
			group.Bins[b] = DftBin{
				Real: int16(binary.LittleEndian.Uint16(data[off : off+2])),
				Imag: int16(binary.LittleEndian.Uint16(data[off+2 : off+4])),
			}
		}
		data = data[binBytes:]
		groups = append(groups, group)
	}
	return groups, data, nil
}
