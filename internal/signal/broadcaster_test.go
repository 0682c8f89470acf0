package signal

import (
	"testing"
	"time"

	_ "github.com/plataforma-sst/accessgate/testing"
)

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	first := b.Subscribe()
	second := b.Subscribe()

	b.Broadcast("roles changed")

	for _, ch := range []chan string{first, second} {
		select {
		case reason := <-ch:
			if reason != "roles changed" {
				t.Fatalf("unexpected reason %q", reason)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber did not receive the signal")
		}
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	// The subscriber is not draining; repeated broadcasts must coalesce
	// instead of stalling.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Broadcast("again")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a slow subscriber")
	}

	select {
	case <-ch:
	default:
		t.Fatalf("expected at least one pending signal")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatalf("unsubscribed channel must be closed")
	}

	// Unsubscribing twice must be harmless.
	b.Unsubscribe(ch)
	b.Broadcast("noop")
}
