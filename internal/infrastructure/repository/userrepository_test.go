package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sobrio/internal/domain/progress"
	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/persistence/models"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

func setupDB(t *testing.T) *gorm.DB {
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

	return db
}

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestUser(email string) *user.User {
	return &user.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Marie",
		LastName:     "Dupont",
		Role:         user.RolePatient,
		IsActive:     true,
		Level:        1,
	}
}

func TestUserRepository_CreateAlsoCreatesStats(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())
	stats := NewStatsRepository(db, testLogger())
	ctx := context.Background()

	u := newTestUser("marie@example.com")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	row, err := stats.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, row, "stats row is created with the user")
	assert.Equal(t, 0, row.ExercisesCompleted)
}

func TestUserRepository_DuplicateEmailIsDuplicateError(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("marie@example.com")))

	err := repo.Create(ctx, newTestUser("marie@example.com"))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestUserRepository_GetByIDMissingReturnsNil(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())

	got, err := repo.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("marie@example.com")))

	got, err := repo.GetByEmail(ctx, "marie@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Marie", got.FirstName)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("marie@example.com")))

	exists, err := repo.ExistsByEmail(ctx, "marie@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_AddPoints(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	u := newTestUser("marie@example.com")
	require.NoError(t, repo.Create(ctx, u))

	points, level, err := repo.AddPoints(ctx, u.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, points)
	assert.Equal(t, 1, level)

	for i := 0; i < 9; i++ {
		points, level, err = repo.AddPoints(ctx, u.ID, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, points)
	assert.Equal(t, 2, level, "level crosses at 100 points")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Points)
	assert.Equal(t, 2, got.Level)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	log := testLogger()
	users := NewUserRepository(db, log)
	cravings := NewCravingRepository(db, log)
	sessions := NewExerciseSessionRepository(db, log)
	strategies := NewStrategyRepository(db, log)
	badges := NewBadgeRepository(db, log)
	becks := NewBeckRepository(db, log)
	stats := NewStatsRepository(db, log)
	ctx := context.Background()

	u := newTestUser("marie@example.com")
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, cravings.Create(ctx, &progress.CravingEntry{UserID: u.ID, Intensity: 5}))
	require.NoError(t, sessions.Create(ctx, &progress.ExerciseSession{UserID: u.ID, ExerciseID: 1, Duration: 60}))
	require.NoError(t, strategies.CreateBatch(ctx, []*progress.AntiCravingStrategy{{
		UserID:  u.ID,
		Context: progress.ContextHome,
		Effort:  progress.EffortFaible,
	}}))
	_, err := badges.Award(ctx, &progress.UserBadge{UserID: u.ID, BadgeType: progress.Badge50Exercises})
	require.NoError(t, err)
	require.NoError(t, becks.Create(ctx, &progress.BeckAnalysis{UserID: u.ID, Situation: "seul à la maison"}))

	require.NoError(t, users.Delete(ctx, u.ID))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	row, err := stats.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, row)

	entries, err := cravings.ListByUser(ctx, u.ID, 100)
	require.NoError(t, err)
	assert.Empty(t, entries)

	sessionList, err := sessions.ListByUser(ctx, u.ID, 100)
	require.NoError(t, err)
	assert.Empty(t, sessionList)

	strategyList, err := strategies.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, strategyList)

	badgeList, err := badges.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, badgeList)

	beckList, err := becks.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, beckList)
}

func TestBadgeRepository_AwardIsIdempotent(t *testing.T) {
	db := setupDB(t)
	log := testLogger()
	users := NewUserRepository(db, log)
	badges := NewBadgeRepository(db, log)
	ctx := context.Background()

	u := newTestUser("marie@example.com")
	require.NoError(t, users.Create(ctx, u))

	created, err := badges.Award(ctx, &progress.UserBadge{UserID: u.ID, BadgeType: progress.Badge50Exercises})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = badges.Award(ctx, &progress.UserBadge{UserID: u.ID, BadgeType: progress.Badge50Exercises})
	require.NoError(t, err)
	assert.False(t, created, "second award reports already-held")

	list, err := badges.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCravingRepository_JSONRoundTrip(t *testing.T) {
	db := setupDB(t)
	log := testLogger()
	users := NewUserRepository(db, log)
	cravings := NewCravingRepository(db, log)
	ctx := context.Background()

	u := newTestUser("marie@example.com")
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, cravings.Create(ctx, &progress.CravingEntry{
		UserID:    u.ID,
		Intensity: 6,
		Triggers:  []string{"stress", "fatigue"},
		Emotions:  []string{"colère"},
	}))

	entries, err := cravings.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"stress", "fatigue"}, entries[0].Triggers)
	assert.Equal(t, []string{"colère"}, entries[0].Emotions)
}
