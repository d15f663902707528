package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// ShareRepository defines persistence for access grants. Upsert is keyed on
// (grantee, resource type, resource id): a second grant for the same pair
// replaces the level rather than creating a duplicate row, atomically under
// concurrent callers.
type ShareRepository interface {
	Upsert(ctx context.Context, share *domain.Share) (*domain.Share, error)
	FindByID(ctx context.Context, id string) (*domain.Share, error)
	FindByGranteeAndResource(ctx context.Context, granteeID string, resourceType domain.ResourceType, resourceID string) (*domain.Share, error)
	UpdateLevel(ctx context.Context, id string, level domain.AccessLevel) (*domain.Share, error)
	// Delete succeeds silently when the share is already gone.
	Delete(ctx context.Context, id string) error
	ListForResource(ctx context.Context, resourceType domain.ResourceType, resourceID string) ([]domain.Share, error)
	ListForGrantee(ctx context.Context, granteeID string) ([]domain.Share, error)
}
