package cone

import "time"

// Config tunes the rejection cone. Field names mirror the `cone_*` keys
// documented in SPEC_FULL.md §6.
//
// Angle is the cone's full angle; Check tests against Angle/2 on either
// side of Direction, per the literal formula in SPEC_FULL.md §4.E.
type Config struct {
	Angle    float64       `json:"coneAngle"`
	Distance float64       `json:"coneDistance"`
	Alpha    float64       `json:"coneAlpha"`
	Timeout  time.Duration `json:"coneActiveTimeout"`
}

// DefaultConfig returns the tuning used when a device config doesn't
// override a field.
func DefaultConfig() Config {
	return Config{
		Angle:    1.0,
		Distance: 1000,
		Alpha:    0.5,
		Timeout:  150 * time.Millisecond,
	}
}
