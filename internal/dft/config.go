package dft

// Config tunes the stylus position estimator. Field names mirror the
// `dft.*` keys documented in SPEC_FULL.md §6.
type Config struct {
	// NoiseFloor is the minimum peak bin magnitude a window must clear
	// before it's considered signal rather than silence.
	NoiseFloor float64 `json:"noiseFloor"`

	// TiltScale multiplies the tip/base magnitude-ratio angle after it
	// has been converted to hundredths of a degree.
	TiltScale float64 `json:"tiltScale"`

	// PressureScale converts the summed squared bin magnitude into the
	// [0, 4096] pressure range.
	PressureScale float64 `json:"pressureScale"`
}

// DefaultConfig returns the tuning used when a device config doesn't
// override a field.
func DefaultConfig() Config {
	return Config{
		NoiseFloor:    64,
		TiltScale:     1.0,
		PressureScale: 1.0,
	}
}
