package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of the redis client the broadcaster needs.
type RedisClient interface {
	redis.Cmdable
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisBroadcaster bumps the change version, stamps the durable last-update
// marker, fans the event out to other instances over pub/sub and delivers it
// to local subscribers.
type RedisBroadcaster struct {
	client     RedisClient
	local      *Bus
	channel    string
	markerKey  string
	versionKey string
	instanceID string
	now        func() time.Time
}

func NewRedisBroadcaster(client RedisClient, local *Bus, channel, markerKey, versionKey string) *RedisBroadcaster {
	return &RedisBroadcaster{
		client:     client,
		local:      local,
		channel:    channel,
		markerKey:  markerKey,
		versionKey: versionKey,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
}

// Publish records the version and marker first. The pub/sub fan-out is best
// effort: a missed message is recovered by anyone polling the marker.
func (b *RedisBroadcaster) Publish(ctx context.Context, event Event) error {
	if event.At == 0 {
		event.At = b.now().UnixMilli()
	}

	event.Origin = b.instanceID

	if err := b.client.Incr(ctx, b.versionKey).Err(); err != nil {
		metrics.RecordEvent("marker", "error")
		return fmt.Errorf("failed to bump inventory version: %w", err)
	}

	if err := b.client.Set(ctx, b.markerKey, event.At, 0).Err(); err != nil {
		metrics.RecordEvent("marker", "error")
		return fmt.Errorf("failed to write last update marker: %w", err)
	}

	metrics.RecordEvent("marker", "ok")

	_ = b.local.Publish(ctx, event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode inventory event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		metrics.RecordEvent("pubsub", "error")
		slog.Warn("Failed to fan out inventory event", slog.String("channel", b.channel), slog.Any("error", err))

		return nil
	}

	metrics.RecordEvent("pubsub", "ok")

	return nil
}

// LastUpdate returns the marker in unix millis, zero when nothing was ever published.
func (b *RedisBroadcaster) LastUpdate(ctx context.Context) (int64, error) {
	raw, err := b.client.Get(ctx, b.markerKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read last update marker: %w", err)
	}

	marker, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid last update marker %q: %w", raw, err)
	}

	return marker, nil
}

// Version returns the number of changes published so far. Unlike the marker it
// never repeats, whatever the publishers' clocks say.
func (b *RedisBroadcaster) Version(ctx context.Context) (int64, error) {
	version, err := b.client.Get(ctx, b.versionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read inventory version: %w", err)
	}

	return version, nil
}

// Run relays events published by other instances to local subscribers until
// ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	slog.Info("Relaying inventory events", slog.String("channel", b.channel), slog.String("instance", b.instanceID))

	messages := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			b.relay(ctx, msg.Payload)
		}
	}
}

func (b *RedisBroadcaster) relay(ctx context.Context, payload string) {
	var event Event

	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.Warn("Dropping malformed inventory event", slog.Any("error", err))
		return
	}

	// local subscribers already got it from Publish
	if event.Origin == b.instanceID {
		return
	}

	_ = b.local.Publish(ctx, event)
}
