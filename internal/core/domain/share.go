package domain

import "time"

// Share grants one non-owner user READ or WRITE access to one resource.
// At most one active share exists per (grantee, resource) pair; re-granting
// replaces the level in place. A share never transfers ownership.
type Share struct {
	ID           string       `json:"id"`
	GranteeID    string       `json:"userId"`
	ResourceType ResourceType `json:"resourceType"`
	ResourceID   string       `json:"resourceId"`
	Level        AccessLevel  `json:"accessLevel"`
	GrantedByID  string       `json:"sharedById"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
