package signal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RefreshChannel is the Redis pub/sub channel carrying refresh signals.
const RefreshChannel = "accessgate:permissions:refresh"

// Bridge relays refresh signals between Redis pub/sub and the local
// broadcaster so every gateway instance observes a refresh published by any
// of them.
type Bridge struct {
	logger      *slog.Logger
	rdb         *redis.Client
	broadcaster *Broadcaster
	channel     string
}

// NewBridge constructs a Bridge. An empty channel name falls back to
// RefreshChannel.
func NewBridge(logger *slog.Logger, rdb *redis.Client, broadcaster *Broadcaster, channel string) *Bridge {
	if channel == "" {
		channel = RefreshChannel
	}
	return &Bridge{logger: logger, rdb: rdb, broadcaster: broadcaster, channel: channel}
}

// Publish emits a refresh signal to all instances, including this one.
func (b *Bridge) Publish(ctx context.Context, reason string) error {
	if err := b.rdb.Publish(ctx, b.channel, reason).Err(); err != nil {
		return fmt.Errorf("publish refresh signal: %w", err)
	}
	return nil
}

// Run subscribes to the Redis channel and forwards messages to the local
// broadcaster until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe refresh channel: %w", err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			b.logger.Info("permissions refresh signal", slog.String("reason", msg.Payload))
			b.broadcaster.Broadcast(msg.Payload)
		}
	}
}
