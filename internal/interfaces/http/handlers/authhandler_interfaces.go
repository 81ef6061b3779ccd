package handlers

import (
	"context"

	"sobrio/internal/application/auth"
	"sobrio/internal/domain/user"
)

// CredentialService is the slice of the auth application service the
// handlers depend on; tests substitute mocks.
type CredentialService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*user.PublicUser, error)
	Login(ctx context.Context, email, password string) (*user.PublicUser, error)
	UpdateProfile(ctx context.Context, userID uint, input auth.UpdateProfileInput) (*user.PublicUser, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserByID(ctx context.Context, id uint) (*user.PublicUser, error)
	DeleteAccount(ctx context.Context, userID uint) error
}
