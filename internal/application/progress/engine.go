// Package progress turns raw event logs (craving entries, exercise
// sessions) into derived state: rolling craving averages and trends,
// streaks, points, levels and badges.
package progress

import (
	"context"
	"math"
	"time"

	"sobrio/internal/domain/progress"
	"sobrio/internal/domain/user"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

const (
	// DefaultTrendWindowDays is the rolling window for the craving trend.
	DefaultTrendWindowDays = 30

	pointsPerExercise = 10
)

const (
	msgIntensityRange = "L'intensité doit être comprise entre 0 et 10"
	msgDurationRange  = "La durée doit être positive"
	msgCravingRange   = "Les niveaux de craving doivent être compris entre 0 et 10"
)

// badgeRules maps each badge to its threshold on completed exercises. New
// badges are added here without touching the evaluation loop.
var badgeRules = map[progress.BadgeType]int{
	progress.Badge50Exercises: 50,
}

type RecordCravingInput struct {
	Intensity int
	Triggers  []string
	Emotions  []string
	Notes     string
}

type RecordSessionInput struct {
	ExerciseID    uint
	Duration      int
	Completed     bool
	CravingBefore *int
	CravingAfter  *int
}

// Engine recomputes derived statistics whenever a new event is recorded.
// Within one call the order is fixed: persist the event, increment stats,
// add points, update streaks, then evaluate badges.
type Engine struct {
	cravings progress.CravingRepository
	sessions progress.ExerciseSessionRepository
	stats    progress.StatsRepository
	badges   progress.BadgeRepository
	users    user.Repository
	logger   logger.Interface
	now      func() time.Time
}

func NewEngine(
	cravings progress.CravingRepository,
	sessions progress.ExerciseSessionRepository,
	stats progress.StatsRepository,
	badges progress.BadgeRepository,
	users user.Repository,
	logger logger.Interface,
) *Engine {
	return &Engine{
		cravings: cravings,
		sessions: sessions,
		stats:    stats,
		badges:   badges,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordCraving persists the entry and refreshes the user's rolling
// average craving.
func (e *Engine) RecordCraving(ctx context.Context, userID uint, input RecordCravingInput) (*progress.CravingEntry, error) {
	if input.Intensity < 0 || input.Intensity > 10 {
		return nil, errors.NewValidationError(msgIntensityRange)
	}

	entry := &progress.CravingEntry{
		UserID:    userID,
		Intensity: input.Intensity,
		Triggers:  input.Triggers,
		Emotions:  input.Emotions,
		Notes:     input.Notes,
	}
	if entry.Triggers == nil {
		entry.Triggers = []string{}
	}
	if entry.Emotions == nil {
		entry.Emotions = []string{}
	}

	if err := e.cravings.Create(ctx, entry); err != nil {
		return nil, errors.NewInternalError("failed to record craving")
	}

	trend, err := e.CravingStats(ctx, userID, DefaultTrendWindowDays)
	if err != nil {
		return nil, err
	}
	if err := e.stats.UpdateAverageCraving(ctx, userID, int(math.Round(trend.Average))); err != nil {
		e.logger.Warnw("failed to refresh average craving", "user_id", userID, "error", err)
	}

	return entry, nil
}

// CravingStats computes the rolling average and trend over the given
// window. Entries are split into halves by index; the trend is the percent
// change of the second half's mean over the first half's.
func (e *Engine) CravingStats(ctx context.Context, userID uint, days int) (*progress.CravingTrend, error) {
	if days <= 0 {
		days = DefaultTrendWindowDays
	}

	since := e.now().AddDate(0, 0, -days)
	entries, err := e.cravings.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, errors.NewInternalError("failed to load craving entries")
	}

	return computeTrend(entries), nil
}

func computeTrend(entries []*progress.CravingEntry) *progress.CravingTrend {
	if len(entries) == 0 {
		return &progress.CravingTrend{Average: 0, Trend: 0}
	}

	sum := 0
	for _, entry := range entries {
		sum += entry.Intensity
	}
	average := float64(sum) / float64(len(entries))
	// Round to one decimal place.
	average = math.Round(average*10) / 10

	if len(entries) < 2 {
		return &progress.CravingTrend{Average: average, Trend: 0}
	}

	split := len(entries) / 2
	firstHalfAvg := meanIntensity(entries[:split])
	secondHalfAvg := meanIntensity(entries[split:])

	trend := 0
	if firstHalfAvg > 0 {
		trend = int(math.Round((secondHalfAvg - firstHalfAvg) / firstHalfAvg * 100))
	}

	return &progress.CravingTrend{Average: average, Trend: trend}
}

func meanIntensity(entries []*progress.CravingEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, entry := range entries {
		sum += entry.Intensity
	}
	return float64(sum) / float64(len(entries))
}

// RecordExerciseSession persists the session. A completed session
// increments the exercise counters, grants points, extends the streak and
// re-evaluates badge rules, in that order.
func (e *Engine) RecordExerciseSession(ctx context.Context, userID uint, input RecordSessionInput) (*progress.ExerciseSession, error) {
	if input.Duration <= 0 {
		return nil, errors.NewValidationError(msgDurationRange)
	}
	for _, rating := range []*int{input.CravingBefore, input.CravingAfter} {
		if rating != nil && (*rating < 0 || *rating > 10) {
			return nil, errors.NewValidationError(msgCravingRange)
		}
	}

	session := &progress.ExerciseSession{
		UserID:        userID,
		ExerciseID:    input.ExerciseID,
		Duration:      input.Duration,
		Completed:     input.Completed,
		CravingBefore: input.CravingBefore,
		CravingAfter:  input.CravingAfter,
	}

	if err := e.sessions.Create(ctx, session); err != nil {
		return nil, errors.NewInternalError("failed to record exercise session")
	}

	if !input.Completed {
		return session, nil
	}

	if err := e.stats.IncrementCompleted(ctx, userID, input.Duration); err != nil {
		return nil, errors.NewInternalError("failed to update stats")
	}

	points, level, err := e.users.AddPoints(ctx, userID, pointsPerExercise)
	if err != nil {
		return nil, errors.NewInternalError("failed to add points")
	}

	if err := e.updateStreak(ctx, userID); err != nil {
		e.logger.Warnw("failed to update streak", "user_id", userID, "error", err)
	}

	if _, err := e.CheckAndAwardBadges(ctx, userID); err != nil {
		e.logger.Warnw("failed to evaluate badges", "user_id", userID, "error", err)
	}

	e.logger.Infow("exercise session completed",
		"user_id", userID,
		"exercise_id", input.ExerciseID,
		"points", points,
		"level", level)

	return session, nil
}

// updateStreak extends the streak on consecutive calendar days, keeps it on
// a same-day repeat and resets it after a gap. LongestStreak never drops
// below CurrentStreak.
func (e *Engine) updateStreak(ctx context.Context, userID uint) error {
	stats, err := e.stats.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if stats == nil {
		return nil
	}

	now := e.now()
	today := truncateToDay(now)

	current := stats.CurrentStreak
	switch {
	case stats.LastCompletedAt == nil:
		current = 1
	case truncateToDay(*stats.LastCompletedAt).Equal(today):
		// Same-day repeat, streak unchanged.
		if current == 0 {
			current = 1
		}
	case truncateToDay(*stats.LastCompletedAt).Equal(today.AddDate(0, 0, -1)):
		current++
	default:
		current = 1
	}

	longest := stats.LongestStreak
	if current > longest {
		longest = current
	}

	return e.stats.UpdateStreaks(ctx, userID, current, longest, now)
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// CheckAndAwardBadges evaluates every badge rule against the user's stats.
// Awarding is idempotent; only newly earned badges are returned.
func (e *Engine) CheckAndAwardBadges(ctx context.Context, userID uint) ([]*progress.UserBadge, error) {
	stats, err := e.stats.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, nil
	}

	var awarded []*progress.UserBadge
	for badgeType, threshold := range badgeRules {
		if stats.ExercisesCompleted < threshold {
			continue
		}
		badge := &progress.UserBadge{
			UserID:    userID,
			BadgeType: badgeType,
			EarnedAt:  e.now(),
		}
		created, err := e.badges.Award(ctx, badge)
		if err != nil {
			return awarded, err
		}
		if created {
			awarded = append(awarded, badge)
		}
	}

	return awarded, nil
}

// ListCravings returns the user's craving entries, newest first.
func (e *Engine) ListCravings(ctx context.Context, userID uint, limit int) ([]*progress.CravingEntry, error) {
	entries, err := e.cravings.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to load craving entries")
	}
	return entries, nil
}

// ListSessions returns the user's exercise sessions, newest first.
func (e *Engine) ListSessions(ctx context.Context, userID uint, limit int) ([]*progress.ExerciseSession, error) {
	sessions, err := e.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to load exercise sessions")
	}
	return sessions, nil
}

// ListBadges returns every badge the user has earned.
func (e *Engine) ListBadges(ctx context.Context, userID uint) ([]*progress.UserBadge, error) {
	badges, err := e.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load badges")
	}
	return badges, nil
}

// Stats returns the user's derived stats row.
func (e *Engine) Stats(ctx context.Context, userID uint) (*progress.UserStats, error) {
	stats, err := e.stats.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load stats")
	}
	if stats == nil {
		return nil, errors.NewNotFoundError("Statistiques introuvables")
	}
	return stats, nil
}
