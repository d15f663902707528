package ports

import (
	"time"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies signed tokens. Access and refresh tokens
// use distinct secrets so compromise of one cannot forge the other.
// Verification is stateless: signature and expiry only, no storage hop.
type TokenIssuer interface {
	IssueAccessToken(user *domain.User) (string, time.Time, error)
	IssueRefreshToken(user *domain.User) (string, time.Time, error)
	VerifyAccessToken(token string) (*TokenClaims, error)
	VerifyRefreshToken(token string) (*TokenClaims, error)
}
