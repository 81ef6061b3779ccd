// Package user holds the user entity and its repository port. Users are
// patients by default; the admin role is granted only at registration time
// to allow-listed emails.
package user

import (
	"regexp"
	"strings"
	"time"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// emailPattern accepts the standard local@domain.tld shape. It is a shape
// check, not full RFC 5322 validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID           uint
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsActive     bool
	Points       int
	Level        int
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the user record with the password hash stripped, safe to
// return to clients.
type PublicUser struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	Points      int        `json:"points"`
	Level       int        `json:"level"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (u *User) PublicView() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Points:      u.Points,
		Level:       u.Level,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NormalizeEmail trims and lower-cases an email address. Every comparison
// and every stored value goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the normalized address has a valid shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
