// Package calibrate is a read-only observer on the contact pipeline: it
// accumulates the size and aspect ratio of every stable contact and
// reports running 1st/99th percentile statistics while a user presses a
// finger down at different points and pressures on the digitizer.
package calibrate

import (
	"math"
	"sort"

	"github.com/linux-surface/iptsd/internal/contacts"
)

// Stats is the current sample population and its summary statistics.
type Stats struct {
	Samples int
	SizeAvg, SizeMin, SizeMax     float64
	AspectAvg, AspectMin, AspectMax float64
}

// Observer accumulates size/aspect samples from stable contacts across
// frames. It has no notion of "done" — call Stats at any point to get
// the statistics over everything seen so far.
type Observer struct {
	diagonal float64

	size   []float64
	aspect []float64
}

// New builds an Observer for a screen of the given physical width and
// height (same units as core.Config.Width/Height); sizes are reported
// scaled to that diagonal, matching the original tool's
// `size * hypot(width, height)`.
func New(width, height float64) *Observer {
	return &Observer{diagonal: math.Hypot(width, height)}
}

// OnContacts is a core.Application.OnContacts-compatible handler: it
// records the size/aspect of every stable contact in the frame.
func (o *Observer) OnContacts(cs []contacts.Contact) {
	for _, c := range cs {
		if !c.Stable {
			continue
		}
		major := math.Max(c.Size.X, c.Size.Y)
		minor := math.Min(c.Size.X, c.Size.Y)
		if minor <= 0 {
			continue
		}
		o.size = append(o.size, major*o.diagonal)
		o.aspect = append(o.aspect, major/minor)
	}
}

// Stats returns the current running statistics. ok is false until at
// least one stable contact has been observed.
func (o *Observer) Stats() (Stats, bool) {
	if len(o.size) == 0 {
		return Stats{}, false
	}

	size := append([]float64{}, o.size...)
	aspect := append([]float64{}, o.aspect...)
	sort.Float64s(size)
	sort.Float64s(aspect)

	p1 := percentileIndex(len(size), 0.01)
	p99 := percentileIndex(len(size), 0.99)

	return Stats{
		Samples:    len(size),
		SizeAvg:    mean(size),
		SizeMin:    size[p1],
		SizeMax:    size[p99],
		AspectAvg:  mean(aspect),
		AspectMin:  aspect[p1],
		AspectMax:  aspect[p99],
	}, true
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// percentileIndex mirrors the original tool's
// round(max(n-1, 0) * p) nearest-rank percentile.
func percentileIndex(n int, p float64) int {
	idx := math.Round(math.Max(float64(n-1), 0) * p)
	return int(idx)
}
