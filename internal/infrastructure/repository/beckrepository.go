package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

type BeckRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBeckRepository(db *gorm.DB, logger logger.Interface) progress.BeckRepository {
	return &BeckRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BeckRepository) Create(ctx context.Context, analysis *progress.BeckAnalysis) error {
	model := &models.BeckAnalysisModel{
		UserID:              analysis.UserID,
		Situation:           analysis.Situation,
		Emotions:            analysis.Emotions,
		EmotionIntensity:    analysis.EmotionIntensity,
		AutomaticThoughts:   analysis.AutomaticThoughts,
		AlternativeThoughts: analysis.AlternativeThoughts,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create beck analysis", "user_id", analysis.UserID, "error", err)
		return fmt.Errorf("failed to create beck analysis: %w", err)
	}

	analysis.ID = model.ID
	analysis.CreatedAt = model.CreatedAt
	return nil
}

func (r *BeckRepository) ListByUser(ctx context.Context, userID uint) ([]*progress.BeckAnalysis, error) {
	var analysisModels []*models.BeckAnalysisModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&analysisModels).Error; err != nil {
		r.logger.Errorw("failed to list beck analyses", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list beck analyses: %w", err)
	}

	analyses := make([]*progress.BeckAnalysis, 0, len(analysisModels))
	for _, model := range analysisModels {
		analyses = append(analyses, &progress.BeckAnalysis{
			ID:                  model.ID,
			UserID:              model.UserID,
			Situation:           model.Situation,
			Emotions:            model.Emotions,
			EmotionIntensity:    model.EmotionIntensity,
			AutomaticThoughts:   model.AutomaticThoughts,
			AlternativeThoughts: model.AlternativeThoughts,
			CreatedAt:           model.CreatedAt,
		})
	}
	return analyses, nil
}
