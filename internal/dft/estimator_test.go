package dft

import (
	"testing"

	"github.com/linux-surface/iptsd/internal/ipts"
	"github.com/stretchr/testify/require"
)

func bin(magnitude int16) ipts.DftBin {
	return ipts.DftBin{Real: magnitude, Imag: 0}
}

func groupOf(magnitudes ...int16) ipts.DftGroup {
	bins := make([]ipts.DftBin, len(magnitudes))
	var total uint32
	for i, m := range magnitudes {
		bins[i] = bin(m)
		if m > 0 {
			total += uint32(m)
		}
	}
	return ipts.DftGroup{Magnitude: total, Bins: bins}
}

func TestPeakAndDeltaSymmetricPeakIsExact(t *testing.T) {
	p, delta, _, _, ok := peakAndDelta([]ipts.DftBin{bin(1), bin(4), bin(1)})
	require.True(t, ok)
	require.Equal(t, 1, p)
	require.InDelta(t, 0.0, delta, 1e-9)
}

func TestPeakAndDeltaSkewsTowardLargerNeighbor(t *testing.T) {
	// [1, 4, 2]: the formula's denominator is invariant at -5 for any
	// permutation of {1, 2} around the peak, so only +-0.1 is reachable.
	// The peak should skew toward the larger neighbor (here, bin p+1),
	// giving a positive offset.
	p, delta, _, _, ok := peakAndDelta([]ipts.DftBin{bin(1), bin(4), bin(2)})
	require.True(t, ok)
	require.Equal(t, 1, p)
	require.InDelta(t, 0.1, delta, 1e-9)
}

func TestPeakAtEdgeCannotInterpolate(t *testing.T) {
	p, delta, _, _, ok := peakAndDelta([]ipts.DftBin{bin(9), bin(4), bin(1)})
	require.True(t, ok)
	require.Equal(t, 0, p)
	require.Equal(t, 0.0, delta)
}

func window(row, col ipts.DftGroup) ipts.DftWindow {
	return ipts.DftWindow{Rows: []ipts.DftGroup{row}, Columns: []ipts.DftGroup{col}}
}

func TestInputBelowNoiseFloorRetainsPreviousPoseButClearsInRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseFloor = 100

	e := NewEstimator(cfg)
	e.Input(window(groupOf(1, 200, 1), groupOf(1, 200, 1)))
	require.True(t, e.GetStylus().Buttons.Has(ipts.ButtonInRange))

	before := e.GetStylus()

	e.Input(window(groupOf(1, 5, 1), groupOf(1, 5, 1)))
	after := e.GetStylus()

	require.False(t, after.Buttons.Has(ipts.ButtonInRange))
	require.Equal(t, before.X, after.X)
	require.Equal(t, before.Y, after.Y)
	require.Equal(t, before.Pressure, after.Pressure)
}

func TestInputNewInRangeEdgeStartsFreshSerial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseFloor = 100

	e := NewEstimator(cfg)

	e.Input(window(groupOf(1, 200, 1), groupOf(1, 200, 1)))
	firstSerial := e.GetStylus().Serial

	// Signal drops below the noise floor: the stroke ends.
	e.Input(window(groupOf(1, 5, 1), groupOf(1, 5, 1)))
	require.False(t, e.GetStylus().Buttons.Has(ipts.ButtonInRange))

	// Signal returns: a new stroke, and therefore a new serial, begins.
	e.Input(window(groupOf(1, 200, 1), groupOf(1, 200, 1)))
	require.True(t, e.GetStylus().Buttons.Has(ipts.ButtonInRange))
	require.NotEqual(t, firstSerial, e.GetStylus().Serial)
}

func TestInputUsesTransformForPosition(t *testing.T) {
	e := NewEstimator(DefaultConfig())
	e.SetTransform(ipts.AffineTransform{XX: 10, YY: 20})

	// Peak at bin 1 of a 3-bin group, symmetric neighbors: delta=0, so
	// position == 1 exactly on each axis.
	e.Input(window(groupOf(1, 200, 1), groupOf(1, 200, 1)))

	s := e.GetStylus()
	require.Equal(t, uint16(10), s.X)
	require.Equal(t, uint16(20), s.Y)
}
