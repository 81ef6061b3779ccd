// Package beck manages cognitive-restructuring worksheet entries (Beck
// column technique). Entries are append-only.
package beck

import (
	"context"
	"strings"

	"sobrio/internal/domain/progress"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

const (
	msgSituationRequired = "La situation est requise"
	msgIntensityRange    = "L'intensité émotionnelle doit être comprise entre 0 et 10"
)

type CreateInput struct {
	Situation           string
	Emotions            string
	EmotionIntensity    int
	AutomaticThoughts   string
	AlternativeThoughts string
}

type Journal struct {
	analyses progress.BeckRepository
	logger   logger.Interface
}

func NewJournal(analyses progress.BeckRepository, logger logger.Interface) *Journal {
	return &Journal{
		analyses: analyses,
		logger:   logger,
	}
}

func (j *Journal) Create(ctx context.Context, userID uint, input CreateInput) (*progress.BeckAnalysis, error) {
	if strings.TrimSpace(input.Situation) == "" {
		return nil, errors.NewValidationError(msgSituationRequired)
	}
	if input.EmotionIntensity < 0 || input.EmotionIntensity > 10 {
		return nil, errors.NewValidationError(msgIntensityRange)
	}

	analysis := &progress.BeckAnalysis{
		UserID:              userID,
		Situation:           strings.TrimSpace(input.Situation),
		Emotions:            input.Emotions,
		EmotionIntensity:    input.EmotionIntensity,
		AutomaticThoughts:   input.AutomaticThoughts,
		AlternativeThoughts: input.AlternativeThoughts,
	}

	if err := j.analyses.Create(ctx, analysis); err != nil {
		return nil, errors.NewInternalError("failed to record beck analysis")
	}

	return analysis, nil
}

func (j *Journal) List(ctx context.Context, userID uint) ([]*progress.BeckAnalysis, error) {
	analyses, err := j.analyses.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load beck analyses")
	}
	return analyses, nil
}
