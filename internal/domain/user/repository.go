package user

import (
	"context"
	"time"
)

// Repository is the storage port for users. Lookups return (nil, nil) when
// no row matches.
type Repository interface {
	// Create persists the user and its stats row in one transaction.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	// AddPoints increments the user's points atomically at the storage
	// layer and recomputes the level from the incremented value. Returns
	// the new points and level.
	AddPoints(ctx context.Context, id uint, points int) (int, int, error)
	// Delete removes the user and every dependent row (badges, stats,
	// beck analyses, exercise sessions, craving entries, strategies) in
	// one transaction.
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher is the hashing port used by the credential service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
