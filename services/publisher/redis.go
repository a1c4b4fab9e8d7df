package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using a single Redis stream
type RedisPublisher struct {
	client    *redis.Client
	stream    string
	maxLength int64
	runID     string
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a Redis stream publisher and verifies the
// connection. runID tags every message published by this process run.
func NewRedisPublisher(addr string, db int, stream string, maxLength int64, runID string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisPublisher{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
		runID:     runID,
	}, nil
}

// Publish appends the record to the stream. The stream is trimmed to
// the configured approximate maximum length on every add.
func (p *RedisPublisher) Publish(unitID string, record []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"unit_id": unitID,
			"record":  record,
			"run_id":  p.runID,
		},
	}).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
