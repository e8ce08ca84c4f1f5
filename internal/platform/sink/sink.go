// Package sink turns Contact and StylusData values into HID input
// reports on a pair of virtual devices created through the Linux uhid
// facility: one multitouch digitizer, one stylus.
package sink

import (
	"context"
	"fmt"

	"github.com/linux-surface/iptsd/internal/contacts"
	"github.com/linux-surface/iptsd/internal/ipts"
	"github.com/linux-surface/iptsd/pkg/bits"
	"github.com/psanford/uhid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// MaxSlots bounds how many simultaneous touch contacts the virtual
// multitouch device reports, independent of what the finder tracks.
const MaxSlots = 10

const maxPressure = 4096

// Sink owns the two uhid devices (touch, stylus) and the per-slot state
// needed to emit well-formed HID reports from Contact/StylusData.
type Sink struct {
	log *zap.Logger

	touch  *uhid.Device
	stylus *uhid.Device

	touchCancel  context.CancelFunc
	stylusCancel context.CancelFunc

	// slotIndex remembers which touch report slot a tracking Index was
	// last assigned, so a contact keeps the same slot across frames for
	// as long as it stays alive.
	slotIndex *xsync.MapOf[int, int]
}

// Address is a fixed vendor/product pair. Open does not use it: both
// virtual devices report the VendorID/ProductID of the DeviceInfo passed
// to Open.
var Address = struct{ VendorID, ProductID uint16 }{VendorID: 0x045e, ProductID: 0xffff}

// Open creates and registers the touch and stylus uhid devices. Close
// tears both down.
func Open(ctx context.Context, log *zap.Logger, info ipts.DeviceInfo) (*Sink, error) {
	touchDesc := multitouchDescriptor(MaxSlots, ipts.MaxX, ipts.MaxY)
	stylusDesc := stylusDescriptor(ipts.MaxX, ipts.MaxY, maxPressure)

	touchDev, err := uhid.NewDevice("iptsd virtual touchscreen", touchDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to create touch uhid device: %w", err)
	}
	touchDev.Data.Bus = 0x18 // BUS_I2C, matching the real IPTS device's transport
	touchDev.Data.VendorID = uint32(info.VendorID)
	touchDev.Data.ProductID = uint32(info.ProductID)

	stylusDev, err := uhid.NewDevice("iptsd virtual stylus", stylusDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to create stylus uhid device: %w", err)
	}
	stylusDev.Data.Bus = 0x18
	stylusDev.Data.VendorID = uint32(info.VendorID)
	stylusDev.Data.ProductID = uint32(info.ProductID)

	touchCtx, touchCancel := context.WithCancel(ctx)
	if _, err := touchDev.Open(touchCtx); err != nil {
		touchCancel()
		return nil, fmt.Errorf("failed to open touch uhid device: %w", err)
	}

	stylusCtx, stylusCancel := context.WithCancel(ctx)
	if _, err := stylusDev.Open(stylusCtx); err != nil {
		stylusCancel()
		touchCancel()
		_ = touchDev.Close()
		return nil, fmt.Errorf("failed to open stylus uhid device: %w", err)
	}

	return &Sink{
		log:          log,
		touch:        touchDev,
		stylus:       stylusDev,
		touchCancel:  touchCancel,
		stylusCancel: stylusCancel,
		slotIndex:    xsync.NewMapOf[int, int](),
	}, nil
}

// Close tears down both virtual devices.
func (s *Sink) Close() error {
	s.touchCancel()
	s.stylusCancel()
	err := s.touch.Close()
	if sErr := s.stylus.Close(); err == nil {
		err = sErr
	}
	return err
}

// OnContacts is an core.Application.OnContacts-compatible handler: it
// builds one touch report from the frame's contacts and injects it.
func (s *Sink) OnContacts(cs []contacts.Contact) {
	report := make([]byte, 1+MaxSlots*6+3)
	report[0] = touchReportID

	seen := make(map[int]bool, len(cs))
	count := 0
	for _, c := range cs {
		if count >= MaxSlots {
			break
		}
		valid := c.Valid == nil || *c.Valid
		if !valid {
			continue
		}

		slot := s.slotFor(c.Index)
		seen[c.Index] = true

		x := uint16(c.Center.X * ipts.MaxX)
		y := uint16(c.Center.Y * ipts.MaxY)

		off := 1 + slot*6
		field := bits.New(report[off:off+6], 0)
		field.Set(0) // tip switch
		field.Set(1) // confidence
		field.SetUint8(1, byte(slot))
		field.SetUint16(1, x)
		field.SetUint16(2, y)
		count++
	}

	s.slotIndex.Range(func(idx int, slot int) bool {
		if !seen[idx] {
			s.slotIndex.Delete(idx)
		}
		return true
	})

	report[1+MaxSlots*6] = byte(count)
	// Scan time (report[...+1:+3]) is left at 0: the kernel's
	// hid-multitouch driver tolerates a constant scan time, it just
	// loses relative-velocity hints some compositors use.

	if err := s.touch.InjectEvent(report); err != nil {
		s.log.Warn("failed to inject touch report", zap.Error(err))
	}
}

func (s *Sink) slotFor(index int) int {
	slot, _ := s.slotIndex.LoadOrCompute(index, func() int {
		used := make(map[int]bool)
		s.slotIndex.Range(func(_ int, slot int) bool {
			used[slot] = true
			return true
		})
		for i := 0; i < MaxSlots; i++ {
			if !used[i] {
				return i
			}
		}
		return 0
	})
	return slot
}

// OnStylus is an core.Application.OnStylus-compatible handler: it
// translates a StylusData sample into a stylus report and injects it.
func (s *Sink) OnStylus(d ipts.StylusData) {
	report := make([]byte, 12)
	report[0] = stylusReportID

	buttons := bits.New(report[1:2], 0)
	if d.Buttons.Has(ipts.ButtonTouch) {
		buttons.Set(0)
	}
	if d.Buttons.Has(ipts.ButtonBarrel) {
		buttons.Set(1)
	}
	if d.Buttons.Has(ipts.ButtonEraser) {
		buttons.Set(2)
	}
	if d.Buttons.Has(ipts.ButtonInRange) {
		buttons.Set(3)
	}

	axes := bits.New(report[2:], 0)
	axes.SetUint16(0, uint16(d.X))
	axes.SetUint16(1, uint16(d.Y))
	axes.SetUint16(2, uint16(d.Pressure))
	axes.SetUint16(3, uint16(d.TiltX))
	axes.SetUint16(4, uint16(d.TiltY))

	if err := s.stylus.InjectEvent(report); err != nil {
		s.log.Warn("failed to inject stylus report", zap.Error(err))
	}
}
