package ports

import (
	"context"
	"time"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// Session is the credential pair handed back on a successful login.
// The refresh token travels to the client as an HTTP-only cookie whose
// lifetime matches RefreshExpiresAt exactly.
type Session struct {
	User             *domain.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RenewedSession carries the fresh access token minted by a renewal.
// No refresh token is reissued.
type RenewedSession struct {
	AccessToken     string
	AccessExpiresAt time.Time
}

// AuthService covers registration, login, token renewal, and profile updates.
type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Renew(ctx context.Context, userID, refreshToken string) (*RenewedSession, error)
	UpdateProfile(ctx context.Context, userID, username, email string) (*domain.User, error)
}
