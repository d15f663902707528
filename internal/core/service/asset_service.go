package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// AssetService implements the folder/note CRUD surface behind the access
// resolver. Reads require READ, mutations WRITE, deletion ownership or the
// MANAGER role.
type AssetService struct {
	assets   ports.AssetRepository
	shares   ports.ShareRepository
	resolver ports.AccessResolver
	events   ports.EventSink
	logger   zerolog.Logger
}

func NewAssetService(assets ports.AssetRepository, shares ports.ShareRepository, resolver ports.AccessResolver, events ports.EventSink, logger zerolog.Logger) *AssetService {
	return &AssetService{assets: assets, shares: shares, resolver: resolver, events: events, logger: logger}
}

func (s *AssetService) CreateFolder(ctx context.Context, principalID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("folderName is required")
	}

	now := time.Now().UTC()
	folder := &domain.Folder{
		Name:      name,
		OwnerID:   principalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.assets.CreateFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	s.emit(domain.NewAssetEvent(domain.EventFolderCreated, domain.ResourceFolder, created.ID, created.OwnerID, principalID))
	return created, nil
}

func (s *AssetService) GetFolder(ctx context.Context, principalID, folderID string) (*domain.Folder, error) {
	if err := s.require(ctx, principalID, domain.ResourceFolder, folderID, domain.AccessRead); err != nil {
		return nil, err
	}
	return s.assets.FindFolder(ctx, folderID)
}

func (s *AssetService) ListFolders(ctx context.Context, principalID string) ([]domain.Folder, error) {
	return s.assets.ListFoldersByOwner(ctx, principalID)
}

func (s *AssetService) RenameFolder(ctx context.Context, principalID, folderID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("folderName is required")
	}
	if err := s.require(ctx, principalID, domain.ResourceFolder, folderID, domain.AccessWrite); err != nil {
		return nil, err
	}

	updated, err := s.assets.RenameFolder(ctx, folderID, name)
	if err != nil {
		return nil, err
	}

	s.emit(domain.NewAssetEvent(domain.EventFolderUpdated, domain.ResourceFolder, folderID, updated.OwnerID, principalID))
	return updated, nil
}

// DeleteFolder removes the folder, its notes, and every share on any of
// them in a single storage transaction.
func (s *AssetService) DeleteFolder(ctx context.Context, principalID, folderID string) error {
	folder, err := s.assets.FindFolder(ctx, folderID)
	if err != nil {
		return err
	}
	decision, err := s.resolver.AuthorizeDelete(ctx, principalID, domain.ResourceFolder, folderID)
	if err != nil {
		return err
	}
	if decision != ports.Allow {
		return domain.ErrForbidden
	}

	if err := s.assets.DeleteFolderCascade(ctx, folderID); err != nil {
		return err
	}

	s.emit(domain.NewAssetEvent(domain.EventFolderDeleted, domain.ResourceFolder, folderID, folder.OwnerID, principalID))
	s.logger.Info().Str("folder_id", folderID).Str("actor_id", principalID).Msg("folder deleted with contents")
	return nil
}

func (s *AssetService) CreateNote(ctx context.Context, principalID string, input ports.CreateNoteInput) (*domain.Note, error) {
	var msgs []string
	title := strings.TrimSpace(input.Title)
	if title == "" {
		msgs = append(msgs, "title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		msgs = append(msgs, "content is required")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	// filing into a folder requires WRITE on that folder
	if input.FolderID != "" {
		if err := s.require(ctx, principalID, domain.ResourceFolder, input.FolderID, domain.AccessWrite); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	note := &domain.Note{
		Title:     title,
		Content:   input.Content,
		OwnerID:   principalID,
		FolderID:  input.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.assets.CreateNote(ctx, note)
	if err != nil {
		return nil, err
	}

	s.emit(domain.NewAssetEvent(domain.EventNoteCreated, domain.ResourceNote, created.ID, created.OwnerID, principalID))
	return created, nil
}

func (s *AssetService) GetNote(ctx context.Context, principalID, noteID string) (*domain.Note, error) {
	if err := s.require(ctx, principalID, domain.ResourceNote, noteID, domain.AccessRead); err != nil {
		return nil, err
	}
	return s.assets.FindNote(ctx, noteID)
}

func (s *AssetService) ListNotes(ctx context.Context, principalID string) ([]domain.Note, error) {
	return s.assets.ListNotesByOwner(ctx, principalID)
}

func (s *AssetService) ListFolderNotes(ctx context.Context, principalID, folderID string) ([]domain.Note, error) {
	if err := s.require(ctx, principalID, domain.ResourceFolder, folderID, domain.AccessRead); err != nil {
		return nil, err
	}
	return s.assets.ListNotesByFolder(ctx, folderID)
}

func (s *AssetService) UpdateNote(ctx context.Context, principalID, noteID, title, content string) (*domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("title and content are required")
	}
	if err := s.require(ctx, principalID, domain.ResourceNote, noteID, domain.AccessWrite); err != nil {
		return nil, err
	}

	updated, err := s.assets.UpdateNote(ctx, noteID, title, content)
	if err != nil {
		return nil, err
	}

	s.emit(domain.NewAssetEvent(domain.EventNoteUpdated, domain.ResourceNote, noteID, updated.OwnerID, principalID))
	return updated, nil
}

func (s *AssetService) DeleteNote(ctx context.Context, principalID, noteID string) error {
	note, err := s.assets.FindNote(ctx, noteID)
	if err != nil {
		return err
	}
	decision, err := s.resolver.AuthorizeDelete(ctx, principalID, domain.ResourceNote, noteID)
	if err != nil {
		return err
	}
	if decision != ports.Allow {
		return domain.ErrForbidden
	}

	if err := s.assets.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	s.emit(domain.NewAssetEvent(domain.EventNoteDeleted, domain.ResourceNote, noteID, note.OwnerID, principalID))
	return nil
}

// ListSharedWith resolves the principal's grants to the folder and note
// records behind them. Grants whose resource disappeared out of band are
// skipped rather than failing the whole listing.
func (s *AssetService) ListSharedWith(ctx context.Context, principalID string) (*ports.SharedAssets, error) {
	grants, err := s.shares.ListForGrantee(ctx, principalID)
	if err != nil {
		return nil, err
	}

	out := &ports.SharedAssets{
		Folders: []ports.SharedFolder{},
		Notes:   []ports.SharedNote{},
	}
	for _, grant := range grants {
		switch grant.ResourceType {
		case domain.ResourceFolder:
			folder, err := s.assets.FindFolder(ctx, grant.ResourceID)
			if errors.Is(err, domain.ErrResourceNotFound) {
				s.logger.Warn().Str("share_id", grant.ID).Str("folder_id", grant.ResourceID).Msg("grant points at missing folder")
				continue
			}
			if err != nil {
				return nil, err
			}
			out.Folders = append(out.Folders, ports.SharedFolder{Folder: *folder, Level: grant.Level})
		case domain.ResourceNote:
			note, err := s.assets.FindNote(ctx, grant.ResourceID)
			if errors.Is(err, domain.ErrResourceNotFound) {
				s.logger.Warn().Str("share_id", grant.ID).Str("note_id", grant.ResourceID).Msg("grant points at missing note")
				continue
			}
			if err != nil {
				return nil, err
			}
			out.Notes = append(out.Notes, ports.SharedNote{Note: *note, Level: grant.Level})
		}
	}
	return out, nil
}

func (s *AssetService) require(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string, level domain.AccessLevel) error {
	decision, err := s.resolver.Authorize(ctx, principalID, resourceType, resourceID, level)
	if err != nil {
		return err
	}
	if decision != ports.Allow {
		return domain.ErrForbidden
	}
	return nil
}

func (s *AssetService) emit(event domain.AssetEvent) {
	if s.events != nil {
		s.events.Enqueue(event)
	}
}
