package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sobrio/internal/domain/progress"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/logger"
)

type CravingRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCravingRepository(db *gorm.DB, logger logger.Interface) progress.CravingRepository {
	return &CravingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CravingRepository) Create(ctx context.Context, entry *progress.CravingEntry) error {
	model := &models.CravingEntryModel{
		UserID:    entry.UserID,
		Intensity: entry.Intensity,
		Triggers:  datatypes.NewJSONSlice(entry.Triggers),
		Emotions:  datatypes.NewJSONSlice(entry.Emotions),
		Notes:     entry.Notes,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create craving entry", "user_id", entry.UserID, "error", err)
		return fmt.Errorf("failed to create craving entry: %w", err)
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return nil
}

func (r *CravingRepository) ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]*progress.CravingEntry, error) {
	var entryModels []*models.CravingEntryModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		r.logger.Errorw("failed to list craving entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list craving entries: %w", err)
	}

	return toCravingEntities(entryModels), nil
}

func (r *CravingRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*progress.CravingEntry, error) {
	var entryModels []*models.CravingEntryModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entryModels).Error; err != nil {
		r.logger.Errorw("failed to list craving entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list craving entries: %w", err)
	}

	return toCravingEntities(entryModels), nil
}

func toCravingEntities(entryModels []*models.CravingEntryModel) []*progress.CravingEntry {
	entries := make([]*progress.CravingEntry, 0, len(entryModels))
	for _, model := range entryModels {
		entries = append(entries, &progress.CravingEntry{
			ID:        model.ID,
			UserID:    model.UserID,
			Intensity: model.Intensity,
			Triggers:  model.Triggers,
			Emotions:  model.Emotions,
			Notes:     model.Notes,
			CreatedAt: model.CreatedAt,
		})
	}
	return entries
}
