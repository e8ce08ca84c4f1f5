package devicebus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvent(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := b.Subscribe(ctx)
	defer unsubscribe()

	b.Publish(Event{Kind: EventAttached, Address: "hidraw0", Name: "IPTS digitizer"})

	select {
	case e := <-events:
		require.Equal(t, EventAttached, e.Kind)
		require.Equal(t, "hidraw0", e.Address)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	b := New()
	done := make(chan struct{})
	go func() {
		b.Publish(Event{Kind: EventDetached, Address: "hidraw0"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}

func TestCancelContextUnsubscribes(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	events, _ := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-events:
		require.False(t, ok, "channel should be closed once the context is cancelled")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
