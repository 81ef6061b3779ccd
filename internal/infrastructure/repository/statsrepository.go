package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

type StatsRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewStatsRepository(db *gorm.DB, logger logger.Interface) progress.StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *StatsRepository) GetByUserID(ctx context.Context, userID uint) (*progress.UserStats, error) {
	var model models.UserStatsModel

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return &progress.UserStats{
		UserID:             model.UserID,
		ExercisesCompleted: model.ExercisesCompleted,
		TotalDuration:      model.TotalDuration,
		CurrentStreak:      model.CurrentStreak,
		LongestStreak:      model.LongestStreak,
		AverageCraving:     model.AverageCraving,
		LastCompletedAt:    model.LastCompletedAt,
		UpdatedAt:          model.UpdatedAt,
	}, nil
}

// IncrementCompleted uses column expressions so concurrent completions for
// the same user cannot lose an update.
func (r *StatsRepository) IncrementCompleted(ctx context.Context, userID uint, durationSecs int) error {
	if err := r.db.WithContext(ctx).Model(&models.UserStatsModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"exercises_completed": gorm.Expr("exercises_completed + ?", 1),
			"total_duration":      gorm.Expr("total_duration + ?", durationSecs),
		}).Error; err != nil {
		r.logger.Errorw("failed to increment exercise stats", "user_id", userID, "error", err)
		return fmt.Errorf("failed to increment exercise stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpdateStreaks(ctx context.Context, userID uint, current, longest int, lastCompleted time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.UserStatsModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak":    current,
			"longest_streak":    longest,
			"last_completed_at": lastCompleted,
		}).Error; err != nil {
		r.logger.Errorw("failed to update streaks", "user_id", userID, "error", err)
		return fmt.Errorf("failed to update streaks: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpdateAverageCraving(ctx context.Context, userID uint, average int) error {
	if err := r.db.WithContext(ctx).Model(&models.UserStatsModel{}).
		Where("user_id = ?", userID).
		Update("average_craving", average).Error; err != nil {
		r.logger.Errorw("failed to update average craving", "user_id", userID, "error", err)
		return fmt.Errorf("failed to update average craving: %w", err)
	}
	return nil
}
