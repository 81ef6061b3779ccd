package progress

import (
	"context"
	"time"
)

type CravingRepository interface {
	Create(ctx context.Context, entry *CravingEntry) error
	// ListByUserSince returns entries created at or after the cutoff,
	// oldest first. Chronological order matters for the trend split.
	ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]*CravingEntry, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]*CravingEntry, error)
}

type ExerciseSessionRepository interface {
	Create(ctx context.Context, session *ExerciseSession) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*ExerciseSession, error)
}

type StatsRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*UserStats, error)
	// IncrementCompleted adds one completed exercise and its duration as
	// atomic column increments at the storage layer.
	IncrementCompleted(ctx context.Context, userID uint, durationSecs int) error
	UpdateStreaks(ctx context.Context, userID uint, current, longest int, lastCompleted time.Time) error
	UpdateAverageCraving(ctx context.Context, userID uint, average int) error
}

type BadgeRepository interface {
	// Award inserts the badge if the user does not hold it yet. Returns
	// false when the badge was already held; awarding is idempotent.
	Award(ctx context.Context, badge *UserBadge) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*UserBadge, error)
}

type StrategyRepository interface {
	// CreateBatch persists the whole batch in one transaction.
	CreateBatch(ctx context.Context, strategies []*AntiCravingStrategy) error
	ListByUser(ctx context.Context, userID uint) ([]*AntiCravingStrategy, error)
}

type BeckRepository interface {
	Create(ctx context.Context, analysis *BeckAnalysis) error
	ListByUser(ctx context.Context, userID uint) ([]*BeckAnalysis, error)
}
