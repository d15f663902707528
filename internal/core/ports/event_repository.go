package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// EventRepository persists the asset audit trail.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.AssetEvent) error
	// ListForResource returns the most recent events for one resource,
	// newest first, capped at limit.
	ListForResource(ctx context.Context, resourceType domain.ResourceType, resourceID string, limit int) ([]domain.AssetEvent, error)
}
