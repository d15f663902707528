package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/notehub/notehub-api/internal/core/domain"
)

const dedupTTL = time.Hour

// AuditDedup suppresses replayed audit events via Redis.
// Key format: audit:<event_type>:<resource_id>:<actor_id>:<unix_timestamp>
type AuditDedup struct {
	client *redis.Client
}

// NewAuditDedup creates an AuditDedup wrapping the given Redis client.
func NewAuditDedup(client *redis.Client) *AuditDedup {
	return &AuditDedup{client: client}
}

// IsDuplicate reports whether this exact event was already recorded.
func (d *AuditDedup) IsDuplicate(ctx context.Context, event domain.AssetEvent) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(event)).Result()
	if err != nil {
		return false, fmt.Errorf("audit dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the event has been stored (expires after dedupTTL).
func (d *AuditDedup) Mark(ctx context.Context, event domain.AssetEvent) error {
	return d.client.Set(ctx, d.key(event), "1", dedupTTL).Err()
}

func (d *AuditDedup) key(event domain.AssetEvent) string {
	return fmt.Sprintf("audit:%s:%s:%s:%d", event.Type, event.ResourceID, event.ActorID, event.OccurredAt.Unix())
}
