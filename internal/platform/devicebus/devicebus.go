// Package devicebus is a small connect/disconnect notification bus for
// the platform layer: a broadcast channel over a concurrent map,
// scoped to the one thing the CLI's status logging needs — device
// attach/detach events.
package devicebus

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// EventKind distinguishes an attach from a detach notification.
type EventKind uint8

const (
	EventAttached EventKind = iota
	EventDetached
)

// Event describes one device becoming available or going away.
type Event struct {
	Kind    EventKind
	Address string
	Name    string
}

// Bus broadcasts Events to every current subscriber. There is no keyed
// routing: every subscriber sees every event, which is all the CLI's
// attach/detach logging needs.
type Bus struct {
	subs *xsync.MapOf[chan Event, struct{}]
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{
		subs: xsync.NewMapOf[chan Event, struct{}](),
	}
}

// Publish delivers e to every current subscriber, dropping it for a
// subscriber whose channel is full rather than blocking the publisher.
func (b *Bus) Publish(e Event) {
	b.subs.Range(func(ch chan Event, _ struct{}) bool {
		select {
		case ch <- e:
		default:
		}
		return true
	})
}

// Subscribe returns a channel of future events and a function that
// unsubscribes and closes it. The same function also runs on its own
// once ctx is done; a second call after the first returns without
// effect.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.subs.Store(ch, struct{}{})

	var cancelled bool
	cancel := func() {
		if cancelled {
			return
		}
		cancelled = true
		b.subs.Delete(ch)
		close(ch)
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}
