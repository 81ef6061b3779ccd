// Package auth implements credential registration, login and profile
// management. All failure paths surface typed errors so the HTTP boundary
// maps them to status codes without inspecting message text.
package auth

import (
	"context"
	"time"

	"sobrio/internal/domain/user"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

const (
	minRegisterPasswordLen = 4
	maxPasswordLen         = 100
	minChangePasswordLen   = 6
	maxNameLen             = 50
)

// User-facing messages are French; login failures use one generic message
// for both unknown-user and wrong-password so accounts cannot be
// enumerated.
const (
	msgInvalidEmail      = "Adresse email invalide"
	msgPasswordTooShort  = "Le mot de passe doit contenir au moins 4 caractères"
	msgPasswordTooLong   = "Le mot de passe est trop long"
	msgNameTooLong       = "Le prénom ou le nom est trop long"
	msgEmailTaken        = "Un compte existe déjà avec cet email"
	msgAdminNotAllowed   = "Vous n'êtes pas autorisé à créer un compte administrateur"
	msgBadCredentials    = "Email ou mot de passe incorrect"
	msgAccountInactive   = "Ce compte est désactivé"
	msgUserNotFound      = "Utilisateur introuvable"
	msgPasswordsRequired = "L'ancien et le nouveau mot de passe sont requis"
	msgNewPasswordRules  = "Le nouveau mot de passe doit contenir au moins 6 caractères"
	msgOldPasswordWrong  = "L'ancien mot de passe est incorrect"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Service is the credential service: registration, login, profile and
// password updates, account deletion.
type Service struct {
	users       user.Repository
	hasher      user.PasswordHasher
	adminEmails map[string]bool
	logger      logger.Interface
}

func NewService(users user.Repository, hasher user.PasswordHasher, adminEmails []string, logger logger.Interface) *Service {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		allowed[user.NormalizeEmail(email)] = true
	}
	return &Service{
		users:       users,
		hasher:      hasher,
		adminEmails: allowed,
		logger:      logger,
	}
}

// Register validates input, hashes the password and creates the user with
// its stats row. The duplicate pre-check is a fast path only: when a
// concurrent registration wins the race, the storage uniqueness violation
// is translated into the same conflict error.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.PublicUser, error) {
	email := user.NormalizeEmail(input.Email)
	if !user.ValidEmail(email) {
		return nil, errors.NewValidationError(msgInvalidEmail)
	}
	if len(input.Password) < minRegisterPasswordLen {
		return nil, errors.NewValidationError(msgPasswordTooShort)
	}
	if len(input.Password) > maxPasswordLen {
		return nil, errors.NewValidationError(msgPasswordTooLong)
	}
	if len(input.FirstName) > maxNameLen || len(input.LastName) > maxNameLen {
		return nil, errors.NewValidationError(msgNameTooLong)
	}

	role := user.RolePatient
	if input.Role == string(user.RoleAdmin) {
		if !s.adminEmails[email] {
			s.logger.Warnw("rejected admin role elevation", "email", email)
			return nil, errors.NewForbiddenError(msgAdminNotAllowed)
		}
		role = user.RoleAdmin
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check email existence", err.Error())
	}
	if exists {
		return nil, errors.NewConflictError(msgEmailTaken)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to hash password")
	}

	newUser := &user.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		IsActive:     true,
		Points:       0,
		Level:        1,
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(msgEmailTaken)
		}
		s.logger.Errorw("failed to create user", "error", err)
		return nil, errors.NewInternalError("failed to create user")
	}

	s.logger.Infow("user registered", "user_id", newUser.ID, "role", newUser.Role)
	return newUser.PublicView(), nil
}

// Login verifies credentials and stamps the last-login time.
func (s *Service) Login(ctx context.Context, email, password string) (*user.PublicUser, error) {
	email = user.NormalizeEmail(email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}
	if existing == nil {
		return nil, errors.NewUnauthorizedError(msgBadCredentials)
	}

	if err := s.hasher.Verify(password, existing.PasswordHash); err != nil {
		return nil, errors.NewUnauthorizedError(msgBadCredentials)
	}

	if !existing.IsActive {
		return nil, errors.NewForbiddenError(msgAccountInactive)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, existing.ID, now); err != nil {
		// Non-critical: the login itself succeeded.
		s.logger.Warnw("failed to stamp last login", "user_id", existing.ID, "error", err)
	}
	existing.LastLoginAt = &now

	s.logger.Infow("user logged in", "user_id", existing.ID)
	return existing.PublicView(), nil
}

// UpdateProfile applies partial profile changes. An email change re-checks
// uniqueness first.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*user.PublicUser, error) {
	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}
	if existing == nil {
		return nil, errors.NewNotFoundError(msgUserNotFound)
	}

	if input.Email != nil {
		email := user.NormalizeEmail(*input.Email)
		if !user.ValidEmail(email) {
			return nil, errors.NewValidationError(msgInvalidEmail)
		}
		if email != existing.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, errors.NewInternalError("failed to check email existence", err.Error())
			}
			if taken {
				return nil, errors.NewConflictError(msgEmailTaken)
			}
			existing.Email = email
		}
	}

	if input.FirstName != nil {
		if len(*input.FirstName) > maxNameLen {
			return nil, errors.NewValidationError(msgNameTooLong)
		}
		existing.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		if len(*input.LastName) > maxNameLen {
			return nil, errors.NewValidationError(msgNameTooLong)
		}
		existing.LastName = *input.LastName
	}

	if err := s.users.Update(ctx, existing); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(msgEmailTaken)
		}
		s.logger.Errorw("failed to update user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to update user")
	}

	return existing.PublicView(), nil
}

// ChangePassword verifies the old password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return errors.NewValidationError(msgPasswordsRequired)
	}
	if len(newPassword) < minChangePasswordLen {
		return errors.NewValidationError(msgNewPasswordRules)
	}
	if len(newPassword) > maxPasswordLen {
		return errors.NewValidationError(msgPasswordTooLong)
	}

	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to get user", err.Error())
	}
	if existing == nil {
		return errors.NewNotFoundError(msgUserNotFound)
	}

	if err := s.hasher.Verify(oldPassword, existing.PasswordHash); err != nil {
		return errors.NewValidationError(msgOldPasswordWrong)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return errors.NewInternalError("failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.NewInternalError("failed to update password")
	}

	s.logger.Infow("password changed", "user_id", userID)
	return nil
}

// GetUserByID returns the public view, or a not-found error.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*user.PublicUser, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err.Error())
	}
	if existing == nil {
		return nil, errors.NewNotFoundError(msgUserNotFound)
	}
	return existing.PublicView(), nil
}

// DeleteAccount runs the cascading delete.
func (s *Service) DeleteAccount(ctx context.Context, userID uint) error {
	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to get user", err.Error())
	}
	if existing == nil {
		return errors.NewNotFoundError(msgUserNotFound)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return errors.NewInternalError("failed to delete account")
	}

	s.logger.Infow("account deleted", "user_id", userID)
	return nil
}
