package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"desci/internal/shared/events"

	"github.com/redis/go-redis/v9"
)

// RedisStream appends every event to one Redis stream. The topic travels as
// an entry field so consumers can filter.
type RedisStream struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
	logger *slog.Logger
}

func NewRedisStream(rdb redis.Cmdable, stream string, logger *slog.Logger) *RedisStream {
	stream = strings.TrimSpace(stream)
	if stream == "" {
		stream = "governance.events"
	}
	return &RedisStream{rdb: rdb, stream: stream, maxLen: 100000, logger: logger}
}

// Connect parses a redis:// URL into a client.
func Connect(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (s *RedisStream) Publish(ctx context.Context, topic string, event events.Envelope) error {
	id, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"topic":          topic,
			"event_id":       event.EventID,
			"event_type":     event.EventType,
			"occurred_at":    event.OccurredAt.UTC().Format(time.RFC3339Nano),
			"source_service": event.SourceService,
			"partition_key":  event.PartitionKey,
			"schema_version": event.SchemaVersion,
			"data":           string(event.Data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	if s.logger != nil {
		s.logger.Debug("event appended to stream",
			"event", "redis_stream_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"stream", s.stream,
			"stream_id", id,
			"event_id", event.EventID,
		)
	}
	return nil
}
