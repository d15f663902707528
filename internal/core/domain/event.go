package domain

import "time"

// Asset audit event types.
const (
	EventFolderCreated  = "FOLDER_CREATED"
	EventFolderUpdated  = "FOLDER_UPDATED"
	EventFolderDeleted  = "FOLDER_DELETED"
	EventFolderShared   = "FOLDER_SHARED"
	EventFolderUnshared = "FOLDER_UNSHARED"

	EventNoteCreated  = "NOTE_CREATED"
	EventNoteUpdated  = "NOTE_UPDATED"
	EventNoteDeleted  = "NOTE_DELETED"
	EventNoteShared   = "NOTE_SHARED"
	EventNoteUnshared = "NOTE_UNSHARED"
)

// AssetEvent records one mutation of a folder, note, or share for the audit
// trail. GranteeID and Level are set only for sharing events.
type AssetEvent struct {
	Type         string       `json:"type"`
	ResourceType ResourceType `json:"resourceType"`
	ResourceID   string       `json:"resourceId"`
	OwnerID      string       `json:"ownerId"`
	ActorID      string       `json:"actorId"`
	GranteeID    string       `json:"granteeId,omitempty"`
	Level        AccessLevel  `json:"accessLevel,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

// NewAssetEvent builds a non-sharing audit event stamped with the current time.
func NewAssetEvent(eventType string, resourceType ResourceType, resourceID, ownerID, actorID string) AssetEvent {
	return AssetEvent{
		Type:         eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OwnerID:      ownerID,
		ActorID:      actorID,
		OccurredAt:   time.Now().UTC(),
	}
}

// NewSharingEvent builds a share grant/revoke audit event.
func NewSharingEvent(eventType string, resourceType ResourceType, resourceID, ownerID, actorID, granteeID string, level AccessLevel) AssetEvent {
	e := NewAssetEvent(eventType, resourceType, resourceID, ownerID, actorID)
	e.GranteeID = granteeID
	e.Level = level
	return e
}
