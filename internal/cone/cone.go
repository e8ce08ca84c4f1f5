// Package cone implements the touch-rejection cone that couples stylus
// position to palm-rejection decisions over nearby finger contacts.
package cone

import (
	"math"
	"time"
)

// Point is a physical-coordinate 2D point or vector, distinct from the
// normalized grid coordinates used by the contact finder.
type Point struct {
	X, Y float64
}

// Cone tracks the last known stylus position and a smoothed approach
// direction, and answers whether a given point should be treated as a
// palm rather than a finger because it lies near the pen tip.
//
// All operations take the current time explicitly rather than reading a
// clock, so the cone itself stays deterministic and trivially testable;
// the caller (the orchestrator) is responsible for supplying `now`.
type Cone struct {
	cfg Config

	origin    Point
	direction Point // zero vector means "no direction yet"

	seen       bool
	lastStylus time.Time
	lastPalm   time.Time
}

// New creates a Cone tuned by cfg.
func New(cfg Config) *Cone {
	return &Cone{cfg: cfg}
}

// UpdatePosition records a new stylus position and marks the cone alive.
func (c *Cone) UpdatePosition(x, y float64, now time.Time) {
	c.origin = Point{X: x, Y: y}
	c.seen = true
	c.lastStylus = now
}

// UpdateDirection blends the direction from the cone's origin toward
// (px, py) into the smoothed approach direction, using the configured
// exponential smoothing coefficient. A zero-length vector (the point
// coincides with the origin) leaves the direction unchanged.
func (c *Cone) UpdateDirection(px, py float64, now time.Time) {
	vx := px - c.origin.X
	vy := py - c.origin.Y

	mag := math.Hypot(vx, vy)
	if mag > 0 {
		nx, ny := vx/mag, vy/mag

		if c.direction.X == 0 && c.direction.Y == 0 {
			c.direction = Point{X: nx, Y: ny}
		} else {
			a := c.cfg.Alpha
			bx := (1-a)*c.direction.X + a*nx
			by := (1-a)*c.direction.Y + a*ny
			if blendMag := math.Hypot(bx, by); blendMag > 0 {
				c.direction = Point{X: bx / blendMag, Y: by / blendMag}
			}
		}
	}

	c.lastPalm = now
}

// Check reports whether (x, y) should be accepted as a finger contact.
// It returns true (accept) unless the point lies inside the cone AND the
// cone is currently active; an empty direction always accepts.
func (c *Cone) Check(x, y float64, now time.Time) bool {
	if !c.Alive() {
		return true
	}
	if c.direction.X == 0 && c.direction.Y == 0 {
		return true
	}
	if !c.Active(now) {
		return true
	}

	dx := x - c.origin.X
	dy := y - c.origin.Y
	dist := math.Hypot(dx, dy)
	if dist > c.cfg.Distance {
		return true
	}

	if angleBetween(dx, dy, c.direction.X, c.direction.Y) > c.cfg.Angle/2 {
		return true
	}

	return false
}

// Alive reports whether any stylus position has ever been seen.
func (c *Cone) Alive() bool {
	return c.seen
}

// Active reports whether the last stylus position is within the
// configured activity timeout of now.
func (c *Cone) Active(now time.Time) bool {
	return c.seen && now.Sub(c.lastStylus) < c.cfg.Timeout
}

// angleBetween returns the unsigned angle, in radians, between vector
// (ax, ay) and unit vector (bx, by). A zero-length a is treated as
// perfectly aligned (angle 0): a point exactly at the cone's origin is
// unambiguously "at the tip".
func angleBetween(ax, ay, bx, by float64) float64 {
	amag := math.Hypot(ax, ay)
	if amag == 0 {
		return 0
	}

	cosAngle := (ax*bx + ay*by) / amag
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	return math.Acos(cosAngle)
}
