package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

type ExerciseSessionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewExerciseSessionRepository(db *gorm.DB, logger logger.Interface) progress.ExerciseSessionRepository {
	return &ExerciseSessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ExerciseSessionRepository) Create(ctx context.Context, session *progress.ExerciseSession) error {
	model := &models.ExerciseSessionModel{
		UserID:        session.UserID,
		ExerciseID:    session.ExerciseID,
		Duration:      session.Duration,
		Completed:     session.Completed,
		CravingBefore: session.CravingBefore,
		CravingAfter:  session.CravingAfter,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create exercise session", "user_id", session.UserID, "error", err)
		return fmt.Errorf("failed to create exercise session: %w", err)
	}

	session.ID = model.ID
	session.CreatedAt = model.CreatedAt
	return nil
}

func (r *ExerciseSessionRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*progress.ExerciseSession, error) {
	var sessionModels []*models.ExerciseSessionModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessionModels).Error; err != nil {
		r.logger.Errorw("failed to list exercise sessions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list exercise sessions: %w", err)
	}

	sessions := make([]*progress.ExerciseSession, 0, len(sessionModels))
	for _, model := range sessionModels {
		sessions = append(sessions, &progress.ExerciseSession{
			ID:            model.ID,
			UserID:        model.UserID,
			ExerciseID:    model.ExerciseID,
			Duration:      model.Duration,
			Completed:     model.Completed,
			CravingBefore: model.CravingBefore,
			CravingAfter:  model.CravingAfter,
			CreatedAt:     model.CreatedAt,
		})
	}
	return sessions, nil
}
