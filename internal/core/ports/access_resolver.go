package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// Decision is the outcome of an authorization check. A missing resource is
// reported as domain.ErrResourceNotFound, never folded into Deny.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// AccessResolver decides whether a principal may act on a resource.
// Resolution order: owner, MANAGER role, explicit share with sufficient
// level. Every call reads current state; nothing is cached.
type AccessResolver interface {
	Authorize(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string, required domain.AccessLevel) (Decision, error)
	// AuthorizeDelete gates destruction: owner or MANAGER only; a WRITE
	// share does not grant delete.
	AuthorizeDelete(ctx context.Context, principalID string, resourceType domain.ResourceType, resourceID string) (Decision, error)
}
