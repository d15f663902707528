package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// AuditService records asset mutations for the audit trail.
type AuditService interface {
	Record(ctx context.Context, event domain.AssetEvent) error
}

// EventSink accepts events for asynchronous processing. Enqueue never
// blocks the request path beyond channel buffering.
type EventSink interface {
	Enqueue(event domain.AssetEvent)
}

// Deduper suppresses replayed audit events.
type Deduper interface {
	IsDuplicate(ctx context.Context, event domain.AssetEvent) (bool, error)
	Mark(ctx context.Context, event domain.AssetEvent) error
}
