package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is where batch progress events land for out-of-process
// consumers.
const DefaultStream = "stream:scrape_progress"

// RedisClient is the slice of go-redis the sink needs, kept narrow for
// testing.
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// RedisSink mirrors hub events onto a Redis stream. It consumes a hub
// subscription like any other listener; publish failures are logged
// and never propagate back into the batch.
type RedisSink struct {
	client RedisClient
	stream string
	logger *slog.Logger
}

func NewRedisSink(client RedisClient, stream string, logger *slog.Logger) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{
		client: client,
		stream: stream,
		logger: logger.With("component", "redis_sink"),
	}
}

// Run drains the subscription until the context ends or the channel
// closes. Intended to run in its own goroutine.
func (s *RedisSink) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := s.publish(ctx, ev); err != nil {
				s.logger.Error("failed to publish event to redis",
					"event_id", ev.ID, "event_type", ev.Type, "error", err)
			}
		}
	}
}

func (s *RedisSink) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"type":      string(ev.Type),
			"timestamp": fmt.Sprintf("%d", ev.Timestamp.UnixNano()),
			"event_id":  ev.ID,
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Attach subscribes the sink to the hub and starts draining. Returns a
// stop function that detaches the listener.
func (s *RedisSink) Attach(ctx context.Context, hub *Hub) func() {
	id, events := hub.Subscribe()
	go s.Run(ctx, events)
	return func() { hub.Unsubscribe(id) }
}
