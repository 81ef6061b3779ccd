// Package strategy validates and persists batches of anti-craving strategy
// trials. A batch is all-or-nothing: the first invalid element rejects the
// whole submission with its 1-based index and the offending fields.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"sobrio/internal/domain/progress"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

// Input is one strategy trial. Craving ratings are pointers because 0 is a
// valid rating and must be distinguishable from an absent field.
type Input struct {
	Context       string  `json:"context" validate:"required,oneof=leisure home work"`
	Exercise      string  `json:"exercise" validate:"required"`
	Effort        string  `json:"effort" validate:"required,oneof=faible modéré intense"`
	Duration      float64 `json:"duration" validate:"required,gt=0"`
	CravingBefore *int    `json:"cravingBefore" validate:"required,min=0,max=10"`
	CravingAfter  *int    `json:"cravingAfter" validate:"required,min=0,max=10"`
}

type Validator struct {
	strategies progress.StrategyRepository
	validate   *validator.Validate
	logger     logger.Interface
}

func NewValidator(strategies progress.StrategyRepository, logger logger.Interface) *Validator {
	return &Validator{
		strategies: strategies,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Submit validates every element before any persistence, then writes the
// whole batch in one transaction.
func (v *Validator) Submit(ctx context.Context, userID uint, inputs []Input) ([]*progress.AntiCravingStrategy, error) {
	if len(inputs) == 0 {
		return nil, errors.NewValidationError("La liste de stratégies est vide")
	}

	for i, input := range inputs {
		if err := v.validate.Struct(input); err != nil {
			fields := invalidFields(err)
			return nil, errors.NewValidationError(
				fmt.Sprintf("Stratégie %d invalide", i+1),
				fmt.Sprintf("champs manquants ou invalides: %s", strings.Join(fields, ", ")),
			)
		}
	}

	strategies := make([]*progress.AntiCravingStrategy, 0, len(inputs))
	for _, input := range inputs {
		strategies = append(strategies, &progress.AntiCravingStrategy{
			UserID:        userID,
			Context:       progress.StrategyContext(input.Context),
			Exercise:      input.Exercise,
			Effort:        progress.StrategyEffort(input.Effort),
			Duration:      int(input.Duration),
			CravingBefore: *input.CravingBefore,
			CravingAfter:  *input.CravingAfter,
		})
	}

	if err := v.strategies.CreateBatch(ctx, strategies); err != nil {
		return nil, errors.NewInternalError("failed to save strategies")
	}

	v.logger.Infow("strategy batch saved", "user_id", userID, "count", len(strategies))
	return strategies, nil
}

// List returns the user's recorded strategies, newest first.
func (v *Validator) List(ctx context.Context, userID uint) ([]*progress.AntiCravingStrategy, error) {
	strategies, err := v.strategies.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load strategies")
	}
	return strategies, nil
}

// invalidFields extracts the lower-cased JSON field names from a
// validator error.
func invalidFields(err error) []string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"inconnu"}
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		name := fieldErr.Field()
		fields = append(fields, strings.ToLower(name[:1])+name[1:])
	}
	return fields
}
