package signal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBridgeRelaysPublishedSignals(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	broadcaster := NewBroadcaster()
	bridge := NewBridge(slog.New(slog.NewTextHandler(io.Discard, nil)), rdb, broadcaster, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = bridge.Run(ctx)
	}()

	sub := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(sub)

	// The subscriber inside Run needs a moment to attach before publishing.
	deadline := time.After(2 * time.Second)
	for {
		if err := bridge.Publish(ctx, "roles changed"); err != nil {
			t.Fatalf("publish: %v", err)
		}
		select {
		case reason := <-sub:
			if reason != "roles changed" {
				t.Fatalf("unexpected reason %q", reason)
			}
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatalf("signal never relayed")
		}
	}
}
