package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// ShareService manages access grants. Grant is idempotent per
// (grantee, resource): repeat calls replace the level in place.
type ShareService interface {
	Grant(ctx context.Context, grantorID, granteeID string, resourceType domain.ResourceType, resourceID string, level domain.AccessLevel) (*domain.Share, error)
	Revise(ctx context.Context, actorID, shareID string, level domain.AccessLevel) (*domain.Share, error)
	// Revoke of an unknown share id is a no-op success.
	Revoke(ctx context.Context, actorID, shareID string) error
	ListForResource(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string) ([]domain.Share, error)
	ListForGrantee(ctx context.Context, granteeID string) ([]domain.Share, error)
}
