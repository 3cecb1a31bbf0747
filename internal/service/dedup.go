package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const dedupTTL = 24 * time.Hour

// Deduper remembers externally-assigned message ids so redelivered webhooks
// do not duplicate conversation state. Keys are recorded only after the
// message is durably stored: a failed write stays unrecorded and the
// provider's redelivery gets a clean retry instead of a duplicate drop.
type Deduper interface {
	// Seen reports whether the key was recorded within the retention window.
	Seen(ctx context.Context, key string) (bool, error)
	// MarkSeen records the key for the retention window.
	MarkSeen(ctx context.Context, key string) error
}

// ExternalIDCache maps provider message ids to timeline message ids for
// delivery callbacks. Best effort; the database column is authoritative.
type ExternalIDCache interface {
	Remember(ctx context.Context, externalID string, messageID int64) error
}

type redisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) Deduper {
	return &redisDeduper{client: client}
}

func (d *redisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, "inbound:extid:"+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}

	return n > 0, nil
}

func (d *redisDeduper) MarkSeen(ctx context.Context, key string) error {
	err := d.client.Set(ctx, "inbound:extid:"+key, time.Now().Format(time.RFC3339), dedupTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set dedup key: %w", err)
	}

	return nil
}

type redisExternalIDCache struct {
	client *redis.Client
}

func NewRedisExternalIDCache(client *redis.Client) ExternalIDCache {
	return &redisExternalIDCache{client: client}
}

func (c *redisExternalIDCache) Remember(ctx context.Context, externalID string, messageID int64) error {
	value := fmt.Sprintf("%d:%s", messageID, time.Now().Format(time.RFC3339))
	return c.client.Set(ctx, "message:"+externalID, value, dedupTTL).Err()
}
