package progress

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sobrio/internal/domain/progress"
	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/infrastructure/repository"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type engineFixture struct {
	engine *Engine
	users  user.Repository
	stats  progress.StatsRepository
	badges progress.BadgeRepository
	userID uint
	now    time.Time
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.UserStatsModel{},
		&models.CravingEntryModel{},
		&models.ExerciseSessionModel{},
		&models.AntiCravingStrategyModel{},
		&models.UserBadgeModel{},
		&models.BeckAnalysisModel{},
	))

	log := discardLogger()
	users := repository.NewUserRepository(db, log)
	cravings := repository.NewCravingRepository(db, log)
	sessions := repository.NewExerciseSessionRepository(db, log)
	stats := repository.NewStatsRepository(db, log)
	badges := repository.NewBadgeRepository(db, log)

	engine := NewEngine(cravings, sessions, stats, badges, users, log)

	fixture := &engineFixture{
		engine: engine,
		users:  users,
		stats:  stats,
		badges: badges,
		now:    time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	engine.now = func() time.Time { return fixture.now }

	u := &user.User{
		Email:        "marie@example.com",
		PasswordHash: "hash",
		Role:         user.RolePatient,
		IsActive:     true,
		Level:        1,
	}
	require.NoError(t, users.Create(context.Background(), u))
	fixture.userID = u.ID

	return fixture
}

func completedSession(f *engineFixture, t *testing.T, duration int) {
	t.Helper()
	_, err := f.engine.RecordExerciseSession(context.Background(), f.userID, RecordSessionInput{
		ExerciseID: 1,
		Duration:   duration,
		Completed:  true,
	})
	require.NoError(t, err)
}

// ---------------------------------------------------------------------
// Trend computation
// ---------------------------------------------------------------------

func trendEntries(intensities ...int) []*progress.CravingEntry {
	entries := make([]*progress.CravingEntry, 0, len(intensities))
	for _, intensity := range intensities {
		entries = append(entries, &progress.CravingEntry{Intensity: intensity})
	}
	return entries
}

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name        string
		intensities []int
		wantAverage float64
		wantTrend   int
	}{
		{"no entries", nil, 0, 0},
		{"single entry", []int{7}, 7, 0},
		{"falling by three quarters", []int{8, 8, 2, 2}, 5, -75},
		{"flat", []int{4, 4, 4, 4}, 4, 0},
		{"rising", []int{2, 2, 4, 4}, 3, 100},
		{"zero first half guards division", []int{0, 0, 5, 5}, 2.5, 0},
		{"average rounded to one decimal", []int{3, 4, 4}, 3.7, 33},
		{"odd count splits at floor", []int{2, 4, 6}, 4, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTrend(trendEntries(tt.intensities...))
			assert.Equal(t, tt.wantAverage, got.Average)
			assert.Equal(t, tt.wantTrend, got.Trend)
		})
	}
}

// ---------------------------------------------------------------------
// Cravings
// ---------------------------------------------------------------------

func TestRecordCraving_ValidatesIntensity(t *testing.T) {
	f := setupEngine(t)

	for _, intensity := range []int{-1, 11} {
		_, err := f.engine.RecordCraving(context.Background(), f.userID, RecordCravingInput{Intensity: intensity})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	}
}

func TestRecordCraving_PersistsAndRefreshesAverage(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	entry, err := f.engine.RecordCraving(ctx, f.userID, RecordCravingInput{
		Intensity: 7,
		Triggers:  []string{"stress"},
		Emotions:  []string{"anxiété"},
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	_, err = f.engine.RecordCraving(ctx, f.userID, RecordCravingInput{Intensity: 4})
	require.NoError(t, err)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, stats)
	// Rolling average (7+4)/2 = 5.5 rounds to 6.
	assert.Equal(t, 6, stats.AverageCraving)
}

func TestRecordCraving_NilSlicesBecomeEmpty(t *testing.T) {
	f := setupEngine(t)

	entry, err := f.engine.RecordCraving(context.Background(), f.userID, RecordCravingInput{Intensity: 3})
	require.NoError(t, err)
	assert.NotNil(t, entry.Triggers)
	assert.NotNil(t, entry.Emotions)
	assert.Empty(t, entry.Triggers)
	assert.Empty(t, entry.Emotions)
}

func TestListCravings_NewestFirst(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	for _, intensity := range []int{1, 2, 3} {
		_, err := f.engine.RecordCraving(ctx, f.userID, RecordCravingInput{Intensity: intensity})
		require.NoError(t, err)
	}

	entries, err := f.engine.ListCravings(ctx, f.userID, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

// ---------------------------------------------------------------------
// Exercise sessions, points, levels, badges
// ---------------------------------------------------------------------

func TestRecordExerciseSession_ValidatesInput(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.engine.RecordExerciseSession(ctx, f.userID, RecordSessionInput{ExerciseID: 1, Duration: 0})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	bad := 11
	_, err = f.engine.RecordExerciseSession(ctx, f.userID, RecordSessionInput{
		ExerciseID: 1, Duration: 60, CravingBefore: &bad,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRecordExerciseSession_IncompleteDoesNotTouchStats(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	_, err := f.engine.RecordExerciseSession(ctx, f.userID, RecordSessionInput{
		ExerciseID: 1,
		Duration:   60,
		Completed:  false,
	})
	require.NoError(t, err)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ExercisesCompleted)
	assert.Equal(t, 0, stats.CurrentStreak)

	u, err := f.users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Points)
	assert.Equal(t, 1, u.Level)
}

func TestRecordExerciseSession_CompletedGrantsPoints(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	completedSession(f, t, 120)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ExercisesCompleted)
	assert.Equal(t, 120, stats.TotalDuration)
	assert.Equal(t, 1, stats.CurrentStreak)
	require.NotNil(t, stats.LastCompletedAt)

	u, err := f.users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.Points)
	assert.Equal(t, 1, u.Level)
}

func TestFiftyCompletedSessions_PointsLevelAndSingleBadge(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		completedSession(f, t, 60)
	}

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.ExercisesCompleted)
	assert.Equal(t, 3000, stats.TotalDuration)

	u, err := f.users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 500, u.Points)
	assert.Equal(t, 6, u.Level, "500 points / 100 + 1")

	badges, err := f.badges.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, badges, 1, "badge is awarded exactly once")
	assert.Equal(t, progress.Badge50Exercises, badges[0].BadgeType)
}

func TestCheckAndAwardBadges_Idempotent(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		completedSession(f, t, 60)
	}

	awarded, err := f.engine.CheckAndAwardBadges(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, awarded, "re-evaluation grants nothing new")

	badges, err := f.badges.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

// ---------------------------------------------------------------------
// Streaks
// ---------------------------------------------------------------------

func TestStreak_ConsecutiveDaysExtend(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	completedSession(f, t, 60)
	f.now = f.now.AddDate(0, 0, 1)
	completedSession(f, t, 60)
	f.now = f.now.AddDate(0, 0, 1)
	completedSession(f, t, 60)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestStreak_SameDayRepeatDoesNotExtend(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	completedSession(f, t, 60)
	f.now = f.now.Add(2 * time.Hour)
	completedSession(f, t, 60)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestStreak_GapResetsButLongestSurvives(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	completedSession(f, t, 60)
	f.now = f.now.AddDate(0, 0, 1)
	completedSession(f, t, 60)

	f.now = f.now.AddDate(0, 0, 3)
	completedSession(f, t, 60)

	stats, err := f.stats.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

// ---------------------------------------------------------------------
// Stats view
// ---------------------------------------------------------------------

func TestStats_UnknownUser(t *testing.T) {
	f := setupEngine(t)

	_, err := f.engine.Stats(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListBadges_EmptyForNewUser(t *testing.T) {
	f := setupEngine(t)

	badges, err := f.engine.ListBadges(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, badges)
}
