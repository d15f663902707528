package ports

import (
	"context"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Implementations
// translate storage failures into domain errors (ConflictError,
// ErrUserNotFound, ErrStorageUnavailable) before returning.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, username, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
}
