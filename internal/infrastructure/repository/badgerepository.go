package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	appErrors "sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

type BadgeRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBadgeRepository(db *gorm.DB, logger logger.Interface) progress.BadgeRepository {
	return &BadgeRepository{
		db:     db,
		logger: logger,
	}
}

// Award inserts the badge row. The unique (user_id, badge_type) index is
// the source of truth for idempotence: a duplicate insert reports
// already-held instead of failing.
func (r *BadgeRepository) Award(ctx context.Context, badge *progress.UserBadge) (bool, error) {
	model := &models.UserBadgeModel{
		UserID:    badge.UserID,
		BadgeType: string(badge.BadgeType),
		EarnedAt:  badge.EarnedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if appErrors.IsDuplicateError(err) {
			return false, nil
		}
		r.logger.Errorw("failed to award badge", "user_id", badge.UserID, "badge", badge.BadgeType, "error", err)
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	badge.ID = model.ID
	r.logger.Infow("badge awarded", "user_id", badge.UserID, "badge", badge.BadgeType)
	return true, nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID uint) ([]*progress.UserBadge, error) {
	var badgeModels []*models.UserBadgeModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&badgeModels).Error; err != nil {
		r.logger.Errorw("failed to list badges", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	badges := make([]*progress.UserBadge, 0, len(badgeModels))
	for _, model := range badgeModels {
		badges = append(badges, &progress.UserBadge{
			ID:        model.ID,
			UserID:    model.UserID,
			BadgeType: progress.BadgeType(model.BadgeType),
			EarnedAt:  model.EarnedAt,
		})
	}
	return badges, nil
}
