package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// CreateNoteInput carries the fields for a new note. FolderID is optional;
// when set, the folder must exist and the principal needs WRITE on it.
type CreateNoteInput struct {
	Title    string
	Content  string
	FolderID string
}

// SharedFolder pairs a folder with the access level it was granted at.
type SharedFolder struct {
	Folder domain.Folder      `json:"folder"`
	Level  domain.AccessLevel `json:"accessLevel"`
}

// SharedNote pairs a note with the access level it was granted at.
type SharedNote struct {
	Note  domain.Note        `json:"note"`
	Level domain.AccessLevel `json:"accessLevel"`
}

// SharedAssets holds the resources shared with a principal, resolved from
// the grant registry to the underlying records.
type SharedAssets struct {
	Folders []SharedFolder `json:"sharedFolders"`
	Notes   []SharedNote   `json:"sharedNotes"`
}

// AssetService covers the folder/note CRUD surface. Read operations require
// READ on the target, mutations require WRITE, deletion requires ownership
// or the MANAGER role. Folder deletion cascades to contained notes and all
// shares on any of them.
type AssetService interface {
	CreateFolder(ctx context.Context, principalID, name string) (*domain.Folder, error)
	GetFolder(ctx context.Context, principalID, folderID string) (*domain.Folder, error)
	ListFolders(ctx context.Context, principalID string) ([]domain.Folder, error)
	RenameFolder(ctx context.Context, principalID, folderID, name string) (*domain.Folder, error)
	DeleteFolder(ctx context.Context, principalID, folderID string) error

	CreateNote(ctx context.Context, principalID string, input CreateNoteInput) (*domain.Note, error)
	GetNote(ctx context.Context, principalID, noteID string) (*domain.Note, error)
	ListNotes(ctx context.Context, principalID string) ([]domain.Note, error)
	ListFolderNotes(ctx context.Context, principalID, folderID string) ([]domain.Note, error)
	UpdateNote(ctx context.Context, principalID, noteID, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, principalID, noteID string) error

	ListSharedWith(ctx context.Context, principalID string) (*SharedAssets, error)
}
