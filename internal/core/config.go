package core

import (
	"fmt"
	"time"

	"github.com/linux-surface/iptsd/internal/cone"
	"github.com/linux-surface/iptsd/internal/contacts"
	"github.com/linux-surface/iptsd/internal/dft"
)

// Config holds the tuning for an Application: the physical screen size,
// the touch-rejection cone geometry, and the per-stage tuning for the
// contact finder and DFT stylus estimator.
type Config struct {
	// Width and Height are the device's physical screen size. Both must
	// be greater than 0.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ConeAngle and ConeDistance set the rejection cone's geometry.
	ConeAngle    float64       `json:"coneAngle"`
	ConeDistance float64       `json:"coneDistance"`
	ConeAlpha    float64       `json:"coneAlpha"`
	ConeTimeout  time.Duration `json:"coneActiveTimeout"`

	// TouchCheckCone enables the palm-rejection cone pass over contacts
	// output by the finder.
	TouchCheckCone bool `json:"touchCheckCone"`

	Contacts contacts.Config `json:"contacts"`
	Dft      dft.Config      `json:"dft"`
}

// DefaultConfig returns a Config with every sub-component defaulted;
// Width and Height still need to be set by the caller.
func DefaultConfig() Config {
	coneDefaults := cone.DefaultConfig()

	return Config{
		ConeAngle:      coneDefaults.Angle,
		ConeDistance:   coneDefaults.Distance,
		ConeAlpha:      coneDefaults.Alpha,
		ConeTimeout:    coneDefaults.Timeout,
		TouchCheckCone: true,
		Contacts:       contacts.DefaultConfig(),
		Dft:            dft.DefaultConfig(),
	}
}

func (c Config) coneConfig() cone.Config {
	return cone.Config{
		Angle:    c.ConeAngle,
		Distance: c.ConeDistance,
		Alpha:    c.ConeAlpha,
		Timeout:  c.ConeTimeout,
	}
}

// ConfigError reports an invalid Application configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Reason)
}

func (c Config) validate() error {
	if c.Width <= 0 {
		return &ConfigError{Reason: "width must be greater than 0"}
	}
	if c.Height <= 0 {
		return &ConfigError{Reason: "height must be greater than 0"}
	}
	return nil
}
