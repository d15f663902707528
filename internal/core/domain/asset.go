package domain

import "time"

// AccessLevel orders the two grantable permissions: WRITE satisfies READ,
// READ never satisfies WRITE.
type AccessLevel string

const (
	AccessRead  AccessLevel = "READ"
	AccessWrite AccessLevel = "WRITE"
)

// ParseAccessLevel validates a level string against the closed enumeration.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch AccessLevel(s) {
	case AccessRead:
		return AccessRead, true
	case AccessWrite:
		return AccessWrite, true
	default:
		return "", false
	}
}

// Satisfies reports whether l meets a required level.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	if l == AccessWrite {
		return true
	}
	return l == required
}

// ResourceType distinguishes the two shareable asset variants.
type ResourceType string

const (
	ResourceFolder ResourceType = "folder"
	ResourceNote   ResourceType = "note"
)

// ParseResourceType validates a resource type string.
func ParseResourceType(s string) (ResourceType, bool) {
	switch ResourceType(s) {
	case ResourceFolder:
		return ResourceFolder, true
	case ResourceNote:
		return ResourceNote, true
	default:
		return "", false
	}
}

// Folder is a named container for notes, owned by exactly one user.
// Ownership is immutable after creation.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"folderName"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note holds titled text content, optionally filed under a folder.
// Deleting the folder cascades to its notes.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	FolderID  string    `json:"folderId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Resource is the ownership view of a folder or note, sufficient for
// access-control resolution.
type Resource struct {
	Type    ResourceType
	ID      string
	OwnerID string
}
