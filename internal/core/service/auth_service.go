package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/notehub/notehub-api/internal/api/metrics"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// loginDummyHash is compared against when the email is unknown so that a
// failed login costs one bcrypt comparison regardless of cause.
const loginDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements registration, login, token renewal, and profile
// updates on top of the user repository and token issuer.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a user account. Malformed input surfaces as a
// ValidationError with field messages; duplicate username or email as a
// ConflictError.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var msgs []string
	if username == "" {
		msgs = append(msgs, "username is required")
	}
	if email == "" {
		msgs = append(msgs, "email is required")
	} else if !strings.Contains(email, "@") {
		msgs = append(msgs, "email must be a valid address")
	}
	if password == "" {
		msgs = append(msgs, "password is required")
	}
	normalizedRole, ok := domain.ParseRole(role)
	if !ok {
		msgs = append(msgs, "role must be MANAGER or MEMBER")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         normalizedRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and emits a fresh access/refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// burn a comparison to keep timing uniform
			_ = bcrypt.CompareHashAndPassword([]byte(loginDummyHash), []byte(password))
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	access, accessExp, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")

	return &ports.Session{
		User:             user,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Renew exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated. A missing token is ErrUnauthorized, a subject
// mismatch is ErrForbidden, and every verification failure collapses into
// ErrRenewalFailed.
func (s *AuthService) Renew(ctx context.Context, userID, refreshToken string) (*ports.RenewedSession, error) {
	if refreshToken == "" {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrRenewalFailed
	}
	if claims.UserID != userID {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrRenewalFailed
		}
		return nil, err
	}

	access, accessExp, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	metrics.TokenRenewalsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	s.logger.Info().Str("user_id", userID).Msg("access token renewed")

	return &ports.RenewedSession{AccessToken: access, AccessExpiresAt: accessExp}, nil
}

// UpdateProfile changes username and email. Password changes are out of
// scope for this surface.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, username, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var msgs []string
	if username == "" {
		msgs = append(msgs, "username is required")
	}
	if email == "" {
		msgs = append(msgs, "email is required")
	} else if !strings.Contains(email, "@") {
		msgs = append(msgs, "email must be a valid address")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	updated, err := s.users.UpdateProfile(ctx, userID, username, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}
