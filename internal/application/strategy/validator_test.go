package strategy

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sobrio/internal/domain/progress"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

type fakeStrategyRepo struct {
	batches [][]*progress.AntiCravingStrategy
}

func (r *fakeStrategyRepo) CreateBatch(ctx context.Context, strategies []*progress.AntiCravingStrategy) error {
	for i, s := range strategies {
		s.ID = uint(len(r.batches)*100 + i + 1)
	}
	r.batches = append(r.batches, strategies)
	return nil
}

func (r *fakeStrategyRepo) ListByUser(ctx context.Context, userID uint) ([]*progress.AntiCravingStrategy, error) {
	var all []*progress.AntiCravingStrategy
	for _, batch := range r.batches {
		all = append(all, batch...)
	}
	return all, nil
}

func newTestValidator(repo *fakeStrategyRepo) *Validator {
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewValidator(repo, log)
}

func intPtr(v int) *int { return &v }

func validInput() Input {
	return Input{
		Context:       "leisure",
		Exercise:      "respiration profonde",
		Effort:        "modéré",
		Duration:      10,
		CravingBefore: intPtr(8),
		CravingAfter:  intPtr(3),
	}
}

func TestSubmit_ValidBatch(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	saved, err := v.Submit(context.Background(), 42, []Input{validInput(), validInput()})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	require.Len(t, repo.batches, 1, "one transaction for the whole batch")

	first := saved[0]
	assert.Equal(t, uint(42), first.UserID)
	assert.Equal(t, progress.ContextLeisure, first.Context)
	assert.Equal(t, progress.EffortModere, first.Effort)
	assert.Equal(t, 8, first.CravingBefore)
	assert.Equal(t, 3, first.CravingAfter)
}

func TestSubmit_EmptyBatch(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	_, err := v.Submit(context.Background(), 42, nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, repo.batches)
}

func TestSubmit_MissingFieldRejectsWholeBatch(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	second := validInput()
	second.CravingAfter = nil

	_, err := v.Submit(context.Background(), 42, []Input{validInput(), second, validInput()})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, "Stratégie 2", "error names the 1-based index")
	assert.Contains(t, appErr.Details, "cravingAfter")

	assert.Empty(t, repo.batches, "no partial writes")
}

func TestSubmit_ZeroCravingIsValid(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	input := validInput()
	input.CravingAfter = intPtr(0)

	saved, err := v.Submit(context.Background(), 42, []Input{input})
	require.NoError(t, err)
	assert.Equal(t, 0, saved[0].CravingAfter)
}

func TestSubmit_InvalidEnumValues(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	badContext := validInput()
	badContext.Context = "vacances"
	_, err := v.Submit(context.Background(), 42, []Input{badContext})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	badEffort := validInput()
	badEffort.Effort = "énorme"
	_, err = v.Submit(context.Background(), 42, []Input{badEffort})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	badDuration := validInput()
	badDuration.Duration = 0
	_, err = v.Submit(context.Background(), 42, []Input{badDuration})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	assert.Empty(t, repo.batches)
}

func TestSubmit_CravingOutOfRange(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	input := validInput()
	input.CravingBefore = intPtr(11)

	_, err := v.Submit(context.Background(), 42, []Input{input})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestList_ReturnsSavedStrategies(t *testing.T) {
	repo := &fakeStrategyRepo{}
	v := newTestValidator(repo)

	_, err := v.Submit(context.Background(), 42, []Input{validInput()})
	require.NoError(t, err)

	strategies, err := v.List(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, strategies, 1)
}
