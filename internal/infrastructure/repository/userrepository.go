package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

// UserRepository implements the user repository port on gorm.
type UserRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists the user together with its stats row in one transaction,
// so a crash cannot leave a user without stats.
func (r *UserRepository) Create(ctx context.Context, entity *user.User) error {
	model := toUserModel(entity)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		stats := &models.UserStatsModel{UserID: model.ID}
		return tx.Create(stats).Error
	})
	if err != nil {
		// Uniqueness violations are expected under concurrent duplicate
		// registration; the caller translates them. Do not log as error.
		return err
	}

	entity.ID = model.ID
	entity.CreatedAt = model.CreatedAt
	entity.UpdatedAt = model.UpdatedAt

	r.logger.Infow("user created", "id", model.ID, "email", model.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&model), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&model), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check email existence", "error", err)
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, entity *user.User) error {
	updates := map[string]interface{}{
		"email":      entity.Email,
		"first_name": entity.FirstName,
		"last_name":  entity.LastName,
	}

	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", entity.ID).Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error; err != nil {
		r.logger.Errorw("failed to update password", "id", id, "error", err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", id).
		Update("last_login_at", at).Error; err != nil {
		r.logger.Errorw("failed to stamp last login", "id", id, "error", err)
		return fmt.Errorf("failed to stamp last login: %w", err)
	}
	return nil
}

// AddPoints increments points with an atomic column expression so two
// concurrent completions cannot lose an update, then derives the level from
// the incremented value inside the same transaction.
func (r *UserRepository) AddPoints(ctx context.Context, id uint, points int) (int, int, error) {
	var newPoints, newLevel int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserModel{}).Where("id = ?", id).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return err
		}

		var model models.UserModel
		if err := tx.Select("points").First(&model, id).Error; err != nil {
			return err
		}

		newPoints = model.Points
		newLevel = newPoints/100 + 1

		return tx.Model(&models.UserModel{}).Where("id = ?", id).
			Update("level", newLevel).Error
	})
	if err != nil {
		r.logger.Errorw("failed to add points", "id", id, "error", err)
		return 0, 0, fmt.Errorf("failed to add points: %w", err)
	}

	return newPoints, newLevel, nil
}

// Delete cascades over every dependent table inside one transaction:
// badges, stats, beck analyses, exercise sessions, craving entries,
// strategies, then the user itself.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserBadgeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserStatsModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.BeckAnalysisModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ExerciseSessionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CravingEntryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AntiCravingStrategyModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.UserModel{}, id).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete user", "id", id, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.Infow("user deleted", "id", id)
	return nil
}

func toUserModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           entity.ID,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		FirstName:    entity.FirstName,
		LastName:     entity.LastName,
		Role:         string(entity.Role),
		IsActive:     entity.IsActive,
		Points:       entity.Points,
		Level:        entity.Level,
		LastLoginAt:  entity.LastLoginAt,
	}
}

func toUserEntity(model *models.UserModel) *user.User {
	return &user.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Role:         user.Role(model.Role),
		IsActive:     model.IsActive,
		Points:       model.Points,
		Level:        model.Level,
		LastLoginAt:  model.LastLoginAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
