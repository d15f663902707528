package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// TokenConfig carries the signing material and lifetimes injected at
// construction. Access and refresh secrets must differ so that neither
// token kind can forge the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenIssuer mints and verifies HS256 JWTs. Verification is stateless:
// signature plus expiry, no storage round-trip.
type TokenIssuer struct {
	cfg TokenConfig
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenIssuer{cfg: cfg}
}

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived token carrying the user id and role.
func (t *TokenIssuer) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	return t.sign(user.ID, user.Role, t.cfg.AccessSecret, t.cfg.AccessTTL)
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (t *TokenIssuer) IssueRefreshToken(user *domain.User) (string, time.Time, error) {
	return t.sign(user.ID, "", t.cfg.RefreshSecret, t.cfg.RefreshTTL)
}

// VerifyAccessToken validates signature and expiry of an access token.
func (t *TokenIssuer) VerifyAccessToken(token string) (*ports.TokenClaims, error) {
	return t.verify(token, t.cfg.AccessSecret)
}

// VerifyRefreshToken validates signature and expiry of a refresh token.
func (t *TokenIssuer) VerifyRefreshToken(token string) (*ports.TokenClaims, error) {
	return t.verify(token, t.cfg.RefreshSecret)
}

func (t *TokenIssuer) sign(userID, role, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *TokenIssuer) verify(token, secret string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (interface{}, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &ports.TokenClaims{
		UserID: claims.Subject,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
