package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// AssetRepository defines persistence for folders and notes.
// DeleteFolderCascade removes the folder, its notes, and every share on any
// of them inside a single storage transaction.
type AssetRepository interface {
	CreateFolder(ctx context.Context, folder *domain.Folder) (*domain.Folder, error)
	FindFolder(ctx context.Context, id string) (*domain.Folder, error)
	ListFoldersByOwner(ctx context.Context, ownerID string) ([]domain.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (*domain.Folder, error)
	DeleteFolderCascade(ctx context.Context, id string) error

	CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error)
	FindNote(ctx context.Context, id string) (*domain.Note, error)
	ListNotesByFolder(ctx context.Context, folderID string) ([]domain.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// FindResource resolves either variant to its ownership view.
	FindResource(ctx context.Context, resourceType domain.ResourceType, id string) (*domain.Resource, error)
}
