package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/api/metrics"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// ShareService owns all writes to the sharing registry. The resolver only
// reads the grants this service maintains.
type ShareService struct {
	shares ports.ShareRepository
	assets ports.AssetRepository
	users  ports.UserRepository
	events ports.EventSink
	logger zerolog.Logger
}

func NewShareService(shares ports.ShareRepository, assets ports.AssetRepository, users ports.UserRepository, events ports.EventSink, logger zerolog.Logger) *ShareService {
	return &ShareService{shares: shares, assets: assets, users: users, events: events, logger: logger}
}

// Grant creates or replaces the share for (grantee, resource). Only the
// resource owner may grant, and never to themselves.
func (s *ShareService) Grant(ctx context.Context, grantorID, granteeID string, resourceType domain.ResourceType, resourceID string, level domain.AccessLevel) (*domain.Share, error) {
	if _, ok := domain.ParseAccessLevel(string(level)); !ok {
		return nil, domain.NewValidationError("accessLevel must be READ or WRITE")
	}

	res, err := s.assets.FindResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != grantorID {
		return nil, domain.ErrInvalidGrant
	}
	if granteeID == grantorID {
		return nil, domain.ErrInvalidGrant
	}
	if _, err := s.users.FindByID(ctx, granteeID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	share := &domain.Share{
		GranteeID:    granteeID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Level:        level,
		GrantedByID:  grantorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stored, err := s.shares.Upsert(ctx, share)
	if err != nil {
		return nil, err
	}

	metrics.ShareMutationsTotal.WithLabelValues("grant").Inc()
	s.emit(sharedEventType(resourceType), res, grantorID, granteeID, level)
	s.logger.Info().
		Str("resource_id", resourceID).
		Str("grantee_id", granteeID).
		Str("level", string(level)).
		Msg("share granted")
	return stored, nil
}

// Revise changes the level of an existing share. The actor must own the
// shared resource.
func (s *ShareService) Revise(ctx context.Context, actorID, shareID string, level domain.AccessLevel) (*domain.Share, error) {
	if _, ok := domain.ParseAccessLevel(string(level)); !ok {
		return nil, domain.NewValidationError("accessLevel must be READ or WRITE")
	}

	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, actorID, share); err != nil {
		return nil, err
	}

	updated, err := s.shares.UpdateLevel(ctx, shareID, level)
	if err != nil {
		return nil, err
	}

	metrics.ShareMutationsTotal.WithLabelValues("revise").Inc()
	return updated, nil
}

// Revoke removes a share. A missing share id succeeds silently so that
// delete-then-delete is safe.
func (s *ShareService) Revoke(ctx context.Context, actorID, shareID string) error {
	share, err := s.shares.FindByID(ctx, shareID)
	if err != nil {
		if err == domain.ErrShareNotFound {
			return nil
		}
		return err
	}
	if err := s.requireOwner(ctx, actorID, share); err != nil {
		return err
	}

	if err := s.shares.Delete(ctx, shareID); err != nil {
		return err
	}

	metrics.ShareMutationsTotal.WithLabelValues("revoke").Inc()
	if res, err := s.assets.FindResource(ctx, share.ResourceType, share.ResourceID); err == nil {
		s.emit(unsharedEventType(share.ResourceType), res, actorID, share.GranteeID, share.Level)
	}
	s.logger.Info().Str("share_id", shareID).Msg("share revoked")
	return nil
}

// ListForResource returns the grants on one resource. The principal must
// hold at least READ on it.
func (s *ShareService) ListForResource(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string) ([]domain.Share, error) {
	res, err := s.assets.FindResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != principalID {
		if _, err := s.shares.FindByGranteeAndResource(ctx, principalID, resourceType, resourceID); err != nil {
			if err == domain.ErrShareNotFound {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	}
	return s.shares.ListForResource(ctx, resourceType, resourceID)
}

// ListForGrantee returns everything shared with one user.
func (s *ShareService) ListForGrantee(ctx context.Context, granteeID string) ([]domain.Share, error) {
	return s.shares.ListForGrantee(ctx, granteeID)
}

func (s *ShareService) requireOwner(ctx context.Context, actorID string, share *domain.Share) error {
	res, err := s.assets.FindResource(ctx, share.ResourceType, share.ResourceID)
	if err != nil {
		return err
	}
	if res.OwnerID != actorID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ShareService) emit(eventType string, res *domain.Resource, actorID, granteeID string, level domain.AccessLevel) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.NewSharingEvent(eventType, res.Type, res.ID, res.OwnerID, actorID, granteeID, level))
}

func sharedEventType(t domain.ResourceType) string {
	if t == domain.ResourceNote {
		return domain.EventNoteShared
	}
	return domain.EventFolderShared
}

func unsharedEventType(t domain.ResourceType) string {
	if t == domain.ResourceNote {
		return domain.EventNoteUnshared
	}
	return domain.EventFolderUnshared
}
