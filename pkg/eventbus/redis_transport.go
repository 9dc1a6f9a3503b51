package eventbus

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisTransport publishes event-bus envelopes over Redis Pub/Sub so
// multiple controller processes watching the same cluster can share state
// updates and alerts. It implements Transport; subscribing back out of
// Redis is left to whatever process wants to observe the channel (the
// in-process Publisher never needs to read its own writes back).
type RedisTransport struct {
	client redis.UniversalClient
}

// NewRedisTransport wraps an existing Redis client as a Transport.
func NewRedisTransport(client redis.UniversalClient) *RedisTransport {
	return &RedisTransport{client: client}
}

// Publish publishes payload to subject as a Redis Pub/Sub channel message.
func (t *RedisTransport) Publish(ctx context.Context, subject string, payload []byte) error {
	return t.client.Publish(ctx, subject, payload).Err()
}

// Ping verifies the Redis connection is reachable, mirroring the degraded-
// mode health probe used elsewhere in the stack before a publish attempt.
func (t *RedisTransport) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}
