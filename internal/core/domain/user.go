package domain

import (
	"strings"
	"time"
)

const (
	RoleManager = "MANAGER"
	RoleMember  = "MEMBER"
)

// ParseRole normalizes a role string to the closed enumeration.
// Unknown values are rejected rather than coerced.
func ParseRole(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case RoleManager:
		return RoleManager, true
	case RoleMember:
		return RoleMember, true
	default:
		return "", false
	}
}

// User models a registered account. PasswordHash never leaves the service:
// every boundary crossing goes through Public().
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the safe projection of a User for API responses.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips credential material from the user record.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
