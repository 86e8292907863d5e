package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWebhookGuard deduplicates gateway webhook deliveries across instances.
// A nil guard (or a guard without a client) always grants the claim; the
// conditional status transition in the store then carries the idempotency
// guarantee alone.
type RedisWebhookGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisWebhookGuard(client redis.UniversalClient, prefix string) *RedisWebhookGuard {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "hopeshare:webhook"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisWebhookGuard{
		client: client,
		prefix: trimmedPrefix,
		ttl:    24 * time.Hour,
	}
}

// ClaimOnce reports true the first time the (paymentID, status) pair is seen.
func (g *RedisWebhookGuard) ClaimOnce(ctx context.Context, paymentID, status string) (bool, error) {
	if g == nil || g.client == nil {
		return true, nil
	}
	key := fmt.Sprintf("%s:payment:%s:%s", g.prefix, paymentID, status)
	return g.client.SetNX(ctx, key, 1, g.ttl).Result()
}

// Release drops a claim so a failed handler run can be retried by the next
// delivery of the same notification.
func (g *RedisWebhookGuard) Release(ctx context.Context, paymentID, status string) {
	if g == nil || g.client == nil {
		return
	}
	key := fmt.Sprintf("%s:payment:%s:%s", g.prefix, paymentID, status)
	g.client.Del(ctx, key)
}
