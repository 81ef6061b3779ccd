package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

type StrategyRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewStrategyRepository(db *gorm.DB, logger logger.Interface) progress.StrategyRepository {
	return &StrategyRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch persists all strategies or none of them.
func (r *StrategyRepository) CreateBatch(ctx context.Context, strategies []*progress.AntiCravingStrategy) error {
	strategyModels := make([]*models.AntiCravingStrategyModel, 0, len(strategies))
	for _, s := range strategies {
		strategyModels = append(strategyModels, &models.AntiCravingStrategyModel{
			UserID:        s.UserID,
			Context:       string(s.Context),
			Exercise:      s.Exercise,
			Effort:        string(s.Effort),
			Duration:      s.Duration,
			CravingBefore: s.CravingBefore,
			CravingAfter:  s.CravingAfter,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&strategyModels).Error
	})
	if err != nil {
		r.logger.Errorw("failed to create strategy batch", "count", len(strategies), "error", err)
		return fmt.Errorf("failed to create strategy batch: %w", err)
	}

	for i, model := range strategyModels {
		strategies[i].ID = model.ID
		strategies[i].CreatedAt = model.CreatedAt
	}
	return nil
}

func (r *StrategyRepository) ListByUser(ctx context.Context, userID uint) ([]*progress.AntiCravingStrategy, error) {
	var strategyModels []*models.AntiCravingStrategyModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategyModels).Error; err != nil {
		r.logger.Errorw("failed to list strategies", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}

	strategies := make([]*progress.AntiCravingStrategy, 0, len(strategyModels))
	for _, model := range strategyModels {
		strategies = append(strategies, &progress.AntiCravingStrategy{
			ID:            model.ID,
			UserID:        model.UserID,
			Context:       progress.StrategyContext(model.Context),
			Exercise:      model.Exercise,
			Effort:        progress.StrategyEffort(model.Effort),
			Duration:      model.Duration,
			CravingBefore: model.CravingBefore,
			CravingAfter:  model.CravingAfter,
			CreatedAt:     model.CreatedAt,
		})
	}
	return strategies, nil
}
