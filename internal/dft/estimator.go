package dft

import (
	"math"

	"github.com/linux-surface/iptsd/internal/ipts"
)

// interpEpsilon bounds the parabolic-interpolation denominator below
// which a peak is numerically degenerate and rejected.
const interpEpsilon = 1e-6

// Estimator derives a stylus pose (position, pressure, tilt, buttons)
// from successive antenna DFT windows. It retains state between calls:
// a window with insufficient signal leaves position, pressure and tilt
// untouched and only clears the in-range button.
//
// Estimator assigns its own serial, independent of any hardware serial
// carried by a legacy stylus report: DFT/MPP windows carry no serial of
// their own, so one is synthesized from in-range transitions. Each
// false-to-true in-range edge starts a fresh stroke and a fresh serial,
// matching SPEC_FULL.md's "no interpolation across serials" rule --
// every window's pose is computed from that window alone, never blended
// with the previous stroke's.
type Estimator struct {
	cfg       Config
	transform ipts.AffineTransform

	state    ipts.StylusData
	inRange  bool
}

// NewEstimator creates an Estimator tuned by cfg. The identity transform
// is used until SetTransform is called with the device's metadata.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		cfg: cfg,
		transform: ipts.AffineTransform{XX: 1, YY: 1},
	}
}

// SetTransform installs the device metadata transform used to map
// antenna bin positions into device coordinate units.
func (e *Estimator) SetTransform(t ipts.AffineTransform) {
	e.transform = t
}

// GetStylus returns the estimator's current stylus pose.
func (e *Estimator) GetStylus() ipts.StylusData {
	return e.state
}

// Input consumes one DFT window and updates the estimator's state.
func (e *Estimator) Input(window ipts.DftWindow) {
	colPos, colPeak, colPressure, colOK := estimateAxis(window.Columns)
	rowPos, rowPeak, rowPressure, rowOK := estimateAxis(window.Rows)

	peak := math.Max(colPeak, rowPeak)
	if !colOK || !rowOK || peak < e.cfg.NoiseFloor {
		e.state.Buttons &^= ipts.ButtonInRange
		e.inRange = false
		return
	}

	x, y := e.transform.Apply(colPos, rowPos)

	pressure := (colPressure + rowPressure) * e.cfg.PressureScale
	pressure = math.Max(0, math.Min(4096, pressure))

	tiltX := tiltFromGroups(window.Columns, e.cfg)
	tiltY := tiltFromGroups(window.Rows, e.cfg)

	if !e.inRange {
		e.state.Serial++
		e.inRange = true
	}

	e.state.X = clampUint16(x)
	e.state.Y = clampUint16(y)
	e.state.Pressure = uint16(pressure)
	e.state.TiltX = tiltX
	e.state.TiltY = tiltY
	e.state.Buttons |= ipts.ButtonInRange
}

// estimateAxis picks the strongest group in groups (by its reported
// Magnitude) and sub-bin-interpolates its peak. It returns the
// interpolated bin position, the peak bin magnitude (for noise-floor
// gating), and the summed squared magnitude of the bins used (for
// pressure). ok is false if no group has any bins, or the selected
// group's peak is numerically degenerate.
func estimateAxis(groups []ipts.DftGroup) (position, peakMag, sumSquares float64, ok bool) {
	gi, ok := strongestGroup(groups)
	if !ok {
		return 0, 0, 0, false
	}

	bins := groups[gi].Bins
	p, delta, mag, energy, ok := peakAndDelta(bins)
	if !ok {
		return 0, 0, 0, false
	}

	return float64(p) + delta, mag, energy, true
}

// strongestGroup returns the index of the group with the largest
// reported Magnitude, breaking ties by the lowest index.
func strongestGroup(groups []ipts.DftGroup) (int, bool) {
	best := -1
	for i, g := range groups {
		if len(g.Bins) == 0 {
			continue
		}
		if best == -1 || g.Magnitude > groups[best].Magnitude {
			best = i
		}
	}
	return best, best != -1
}

// peakAndDelta finds the bin of maximum magnitude in bins and computes
// the sub-bin offset delta via parabolic interpolation over the peak and
// its two neighbors:
//
//	delta = 1/2 * (|m[p-1]| - |m[p+1]|) / (|m[p-1]| - 2|m[p]| + |m[p+1]|)
//
// clamped to [-1, 1]. A peak at either edge of bins can't be
// interpolated and reports delta=0. ok is false when the interpolation
// denominator is too small to trust (NumericDegenerate).
func peakAndDelta(bins []ipts.DftBin) (p int, delta, peakMag, energy float64, ok bool) {
	if len(bins) == 0 {
		return 0, 0, 0, 0, false
	}

	p = 0
	peakMag = bins[0].Magnitude()
	for i := 1; i < len(bins); i++ {
		if m := bins[i].Magnitude(); m > peakMag {
			p, peakMag = i, m
		}
	}

	energy = peakMag * peakMag
	if p > 0 {
		energy += bins[p-1].Magnitude() * bins[p-1].Magnitude()
	}
	if p < len(bins)-1 {
		energy += bins[p+1].Magnitude() * bins[p+1].Magnitude()
	}

	if p == 0 || p == len(bins)-1 {
		return p, 0, peakMag, energy, true
	}

	m0 := bins[p-1].Magnitude()
	m1 := peakMag
	m2 := bins[p+1].Magnitude()

	denom := m0 - 2*m1 + m2
	if math.Abs(denom) < interpEpsilon {
		return 0, 0, 0, 0, false
	}

	delta = 0.5 * (m0 - m2) / denom
	delta = math.Max(-1, math.Min(1, delta))

	return p, delta, peakMag, energy, true
}

// tiltFromGroups derives a tilt component from the magnitude ratio
// between a window's first two groups, taken as the tip and base
// antennas of a diversity pair. Fewer than two groups, or a zero base
// magnitude, yields no tilt.
func tiltFromGroups(groups []ipts.DftGroup, cfg Config) int16 {
	if len(groups) < 2 || groups[1].Magnitude == 0 {
		return 0
	}

	tip := float64(groups[0].Magnitude)
	base := float64(groups[1].Magnitude)

	angle := math.Atan(tip / base)
	hundredths := angle * (180 / math.Pi) * 100 * cfg.TiltScale

	return int16(math.Max(-9000, math.Min(9000, hundredths)))
}

func clampUint16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
