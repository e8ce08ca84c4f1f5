package contacts

// Config tunes the blob detector, tracker, and stability gate. Field
// names mirror the `contacts.*` keys documented in SPEC_FULL.md §6.
type Config struct {
	// ActivationThreshold is the minimum normalized intensity a cell must
	// exceed to seed a local-maximum candidate.
	ActivationThreshold float64 `json:"activationThreshold"`

	// NeighborhoodRadius controls the local-maximum seeding window: a
	// cell is a candidate only if it is a strict maximum within this
	// Chebyshev radius.
	NeighborhoodRadius int `json:"neighborhoodRadius"`

	// FitWindowRadius is the half-size of the window used for the
	// moment-based Gaussian fit around a seed.
	FitWindowRadius int `json:"fitWindowRadius"`

	// MinSize and MaxSize bound the accepted footprint, measured as the
	// major semi-axis in normalized grid units.
	MinSize float64 `json:"minSize"`
	MaxSize float64 `json:"maxSize"`

	// MaxAspect bounds the accepted major/minor axis ratio.
	MaxAspect float64 `json:"maxAspect"`

	// PalmSizeThreshold: fits whose major axis exceeds this (but still
	// pass MinSize/MaxSize/MaxAspect) are pre-flagged valid=false for the
	// orchestrator's palm-rejection pass to consider.
	PalmSizeThreshold float64 `json:"palmSizeThreshold"`

	// TrackingMaxDistance bounds how far a blob may have moved between
	// frames and still be considered the same tracked contact.
	TrackingMaxDistance float64 `json:"trackingMaxDistance"`

	// TrackingGrace is how many consecutive frames an unmatched contact
	// survives before it's destroyed.
	TrackingGrace int `json:"trackingGrace"`

	// StabilityFrames is how many consecutive frames a contact must
	// satisfy the drift/size thresholds below before becoming stable.
	StabilityFrames int `json:"stabilityFrames"`

	// StabilityPositionTolerance and StabilitySizeTolerance bound the
	// center drift and size variance allowed between consecutive frames
	// while accumulating stability.
	StabilityPositionTolerance float64 `json:"stabilityPositionTolerance"`
	StabilitySizeTolerance     float64 `json:"stabilitySizeTolerance"`
}

// DefaultConfig returns the tuning used when a device config doesn't
// override a field; StabilityFrames defaults to 4 per SPEC_FULL.md S2.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold:        0.4,
		NeighborhoodRadius:         1,
		FitWindowRadius:            3,
		MinSize:                    0.01,
		MaxSize:                    0.35,
		MaxAspect:                  4.0,
		PalmSizeThreshold:          0.12,
		TrackingMaxDistance:        0.15,
		TrackingGrace:              2,
		StabilityFrames:            4,
		StabilityPositionTolerance: 0.01,
		StabilitySizeTolerance:     0.01,
	}
}
