package live

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel used when none is configured.
const DefaultChannel = "prft:changes"

// RedisBroker shares notifications between server instances through a Redis
// pub/sub channel. Each instance relays what it receives to a LocalBroker.
type RedisBroker struct {
	client  *redis.Client
	channel string
	local   *LocalBroker
}

// NewRedisBroker returns a broker publishing on channel. Call Run to start
// relaying.
func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroker{client: client, channel: channel, local: NewLocalBroker()}
}

// Publish sends ownerID to every instance, this one included. If Redis is
// unreachable the local subscribers are still notified.
func (b *RedisBroker) Publish(ctx context.Context, ownerID int64) error {
	if err := b.client.Publish(ctx, b.channel, encodeOwner(ownerID)).Err(); err != nil {
		b.local.Publish(ctx, ownerID)
		return fmt.Errorf("publishing change: %w", err)
	}
	return nil
}

// Subscribe registers with the local relay.
func (b *RedisBroker) Subscribe(ownerID int64) (<-chan struct{}, func()) {
	return b.local.Subscribe(ownerID)
}

// Run relays channel messages to local subscribers until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", b.channel, err)
	}
	slog.Info("live relay subscribed", "channel", b.channel)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			ownerID, err := decodeOwner(msg.Payload)
			if err != nil {
				slog.Warn("ignoring malformed change message", "payload", msg.Payload)
				continue
			}
			b.local.Publish(ctx, ownerID)
		}
	}
}

func encodeOwner(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}

func decodeOwner(payload string) (int64, error) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid owner id %d", id)
	}
	return id, nil
}
