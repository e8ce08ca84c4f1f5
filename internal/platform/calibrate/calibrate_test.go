package calibrate

import (
	"testing"

	"github.com/linux-surface/iptsd/internal/contacts"
	"github.com/stretchr/testify/require"
)

func TestStatsFalseWithNoStableContacts(t *testing.T) {
	o := New(1000, 1000)

	o.OnContacts([]contacts.Contact{
		{Center: contacts.Vec2{X: 0.5, Y: 0.5}, Size: contacts.Vec2{X: 0.05, Y: 0.04}, Stable: false},
	})

	_, ok := o.Stats()
	require.False(t, ok)
}

func TestStatsIgnoresUnstableAndAccumulatesStable(t *testing.T) {
	o := New(3, 4) // diagonal = 5

	o.OnContacts([]contacts.Contact{
		{Size: contacts.Vec2{X: 0.1, Y: 0.05}, Stable: true},  // size=0.5, aspect=2
		{Size: contacts.Vec2{X: 0.2, Y: 0.1}, Stable: false}, // ignored
	})
	o.OnContacts([]contacts.Contact{
		{Size: contacts.Vec2{X: 0.2, Y: 0.1}, Stable: true}, // size=1.0, aspect=2
	})

	stats, ok := o.Stats()
	require.True(t, ok)
	require.Equal(t, 2, stats.Samples)
	require.InDelta(t, 0.75, stats.SizeAvg, 1e-9)
	require.InDelta(t, 2.0, stats.AspectAvg, 1e-9)
	require.InDelta(t, 0.5, stats.SizeMin, 1e-9)
	require.InDelta(t, 1.0, stats.SizeMax, 1e-9)
}

func TestStatsSkipsDegenerateZeroMinorAxis(t *testing.T) {
	o := New(1, 1)

	o.OnContacts([]contacts.Contact{
		{Size: contacts.Vec2{X: 0.1, Y: 0}, Stable: true},
	})

	_, ok := o.Stats()
	require.False(t, ok, "a zero minor axis has no well-defined aspect ratio and shouldn't be counted")
}
