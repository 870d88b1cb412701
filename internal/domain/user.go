package domain

import (
	"strings"
	"time"
)

// User represents a registered SaveMate account.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	FullName        string    `json:"full_name"`
	IsActive        bool      `json:"is_active"`
	IsBusinessOwner bool      `json:"is_business_owner"`
	IsAdmin         bool      `json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername lowercases and trims a username for storage and lookup.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// IsEmailIdentifier reports whether a login identifier should be looked up
// as an email rather than a username.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

// UserStatusUpdate holds the flags an administrator may change. Nil fields
// are left as they are.
type UserStatusUpdate struct {
	IsActive        *bool
	IsBusinessOwner *bool
	IsAdmin         *bool
}

// Apply copies the set fields onto u.
func (s UserStatusUpdate) Apply(u *User) {
	if s.IsActive != nil {
		u.IsActive = *s.IsActive
	}
	if s.IsBusinessOwner != nil {
		u.IsBusinessOwner = *s.IsBusinessOwner
	}
	if s.IsAdmin != nil {
		u.IsAdmin = *s.IsAdmin
	}
}
