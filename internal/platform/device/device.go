// Package device discovers and opens the IPTS hidraw device: udev finds
// the candidate nodes, hidapi opens and reads from the one that matches.
package device

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jochenvg/go-udev"
	"github.com/sstallion/go-hid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Address identifies a device by its USB/HID vendor and product ID.
type Address struct {
	VendorID  uint16
	ProductID uint16
}

func (a Address) String() string {
	return fmt.Sprintf("%04x:%04x", a.VendorID, a.ProductID)
}

// Info describes a discovered hidraw node.
type Info struct {
	Address Address
	Path    string
}

// Discover enumerates hidraw nodes via udev and returns every one that
// has a parent device and a device node path. A vendor or product ID
// udev can't report comes back as 0. It does not open any of them.
func Discover() ([]Info, error) {
	u := &udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("hidraw"); err != nil {
		return nil, fmt.Errorf("failed to match hidraw subsystem: %w", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate hidraw devices: %w", err)
	}

	var infos []Info
	for _, d := range devices {
		parent := d.Parent()
		if parent == nil {
			continue
		}

		vid := parseHexID(parent.PropertyValue("ID_VENDOR_ID"))
		pid := parseHexID(parent.PropertyValue("ID_MODEL_ID"))

		devnode := d.Devnode()
		if devnode == "" {
			continue
		}

		infos = append(infos, Info{
			Address: Address{VendorID: vid, ProductID: pid},
			Path:    devnode,
		})
	}
	return infos, nil
}

// Find returns the first discovered hidraw node matching addr.
func Find(addr Address) (Info, bool, error) {
	infos, err := Discover()
	if err != nil {
		return Info{}, false, err
	}
	for _, info := range infos {
		if info.Address == addr {
			return info, true, nil
		}
	}
	return Info{}, false, nil
}

func parseHexID(s string) uint16 {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// Reader owns an open hidraw device and runs the blocking read loop that
// feeds raw buffers to a processing function. It counts continuous read
// errors and gives up once they reach a threshold, mirroring the
// original daemon's "50 continuous errors" abort condition.
type Reader struct {
	log *zap.Logger
	dev *hid.Device

	bufSize   int
	maxErrors int32
	errors    *atomic.Int32
}

// Open opens the hidraw device at path for reading.
func Open(log *zap.Logger, path string, bufSize int) (*Reader, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &Reader{
		log:       log,
		dev:       dev,
		bufSize:   bufSize,
		maxErrors: 50,
		errors:    atomic.NewInt32(0),
	}, nil
}

// Close closes the underlying hidraw device.
func (r *Reader) Close() error {
	return r.dev.Close()
}

// Run reads from the device in a loop, handing each buffer to process,
// until ctx is cancelled or the continuous-error count reaches the
// threshold.
func (r *Reader) Run(ctx context.Context, process func([]byte) error) error {
	buf := make([]byte, r.bufSize)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := r.dev.Read(buf)
		if err != nil {
			count := r.errors.Inc()
			r.log.Warn("device read failed", zap.Error(err), zap.Int32("continuousErrors", count))
			if count >= r.maxErrors {
				return fmt.Errorf("%d continuous device read errors, giving up: %w", count, err)
			}
			continue
		}
		r.errors.Store(0)

		if err := process(buf[:n]); err != nil {
			r.log.Warn("failed to process device report", zap.Error(err))
		}
	}
}

// DefaultBufferSize is large enough for any IPTS report, independent of
// the device's actual HID report size.
const DefaultBufferSize = 4096
