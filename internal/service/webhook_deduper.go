package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	pkgredis "github.com/FRWD789/je-m-inspire-sub000/pkg/redis"
)

// Providers redeliver for up to three days; remember deliveries a bit longer
const webhookDedupeTTL = 72 * time.Hour

// RedisWebhookDeduper implements WebhookDeduper on a shared Redis key space
type RedisWebhookDeduper struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisWebhookDeduper creates a Redis-backed webhook deduper
func NewRedisWebhookDeduper(client *pkgredis.Client) *RedisWebhookDeduper {
	return &RedisWebhookDeduper{client: client, ttl: webhookDedupeTTL}
}

// MarkProcessed records a delivery and reports whether it was new
func (d *RedisWebhookDeduper) MarkProcessed(ctx context.Context, provider domain.Provider, eventID string) (bool, error) {
	key := fmt.Sprintf("webhook:%s:%s", provider, eventID)
	return d.client.SetNX(ctx, key, 1, d.ttl)
}
