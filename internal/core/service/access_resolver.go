package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/api/metrics"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// AccessResolver decides Allow/Deny for a principal-resource-level triple.
// It reads repository state on every call; share mutations are visible to
// the very next Authorize.
type AccessResolver struct {
	users  ports.UserRepository
	assets ports.AssetRepository
	shares ports.ShareRepository
	logger zerolog.Logger
}

func NewAccessResolver(users ports.UserRepository, assets ports.AssetRepository, shares ports.ShareRepository, logger zerolog.Logger) *AccessResolver {
	return &AccessResolver{users: users, assets: assets, shares: shares, logger: logger}
}

// Authorize applies the decision order: owner wins at any level, then the
// MANAGER override, then an explicit share with sufficient level. A missing
// resource is domain.ErrResourceNotFound, distinct from Deny.
func (r *AccessResolver) Authorize(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string, required domain.AccessLevel) (ports.Decision, error) {
	res, err := r.assets.FindResource(ctx, resourceType, resourceID)
	if err != nil {
		return ports.Deny, err
	}

	if res.OwnerID == principalID {
		return r.decide(ports.Allow), nil
	}

	if manager, err := r.isManager(ctx, principalID); err != nil {
		return ports.Deny, err
	} else if manager {
		return r.decide(ports.Allow), nil
	}

	share, err := r.shares.FindByGranteeAndResource(ctx, principalID, resourceType, resourceID)
	if err != nil {
		if err == domain.ErrShareNotFound {
			return r.decide(ports.Deny), nil
		}
		return ports.Deny, err
	}
	if share.Level.Satisfies(required) {
		return r.decide(ports.Allow), nil
	}

	r.logger.Debug().
		Str("principal_id", principalID).
		Str("resource_id", resourceID).
		Str("required", string(required)).
		Str("granted", string(share.Level)).
		Msg("share level insufficient")
	return r.decide(ports.Deny), nil
}

// AuthorizeDelete allows destruction for the owner or a MANAGER only.
func (r *AccessResolver) AuthorizeDelete(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string) (ports.Decision, error) {
	res, err := r.assets.FindResource(ctx, resourceType, resourceID)
	if err != nil {
		return ports.Deny, err
	}

	if res.OwnerID == principalID {
		return r.decide(ports.Allow), nil
	}
	if manager, err := r.isManager(ctx, principalID); err != nil {
		return ports.Deny, err
	} else if manager {
		return r.decide(ports.Allow), nil
	}
	return r.decide(ports.Deny), nil
}

func (r *AccessResolver) isManager(ctx context.Context, principalID string) (bool, error) {
	user, err := r.users.FindByID(ctx, principalID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return false, nil
		}
		return false, err
	}
	return user.Role == domain.RoleManager, nil
}

func (r *AccessResolver) decide(d ports.Decision) ports.Decision {
	metrics.AuthzDecisionsTotal.WithLabelValues(d.String()).Inc()
	return d
}
