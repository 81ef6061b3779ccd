// Package progress holds the event entities (craving entries, exercise
// sessions, anti-craving strategies, beck analyses) and the derived state
// (stats, badges) computed from them.
package progress

import "time"

// CravingEntry is an append-only self-report of urge strength.
type CravingEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Intensity int       `json:"intensity"`
	Triggers  []string  `json:"triggers"`
	Emotions  []string  `json:"emotions"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExerciseSession records one guided-exercise attempt. Craving ratings are
// optional here, unlike on strategies.
type ExerciseSession struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"userId"`
	ExerciseID    uint      `json:"exerciseId"`
	Duration      int       `json:"duration"` // seconds
	Completed     bool      `json:"completed"`
	CravingBefore *int      `json:"cravingBefore,omitempty"`
	CravingAfter  *int      `json:"cravingAfter,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserStats is the one-to-one derived state row, created together with the
// user. Invariant: LongestStreak >= CurrentStreak.
type UserStats struct {
	UserID             uint       `json:"userId"`
	ExercisesCompleted int        `json:"exercisesCompleted"`
	TotalDuration      int        `json:"totalDuration"` // seconds
	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	AverageCraving     int        `json:"averageCraving"`
	LastCompletedAt    *time.Time `json:"lastCompletedAt,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type StrategyContext string

const (
	ContextLeisure StrategyContext = "leisure"
	ContextHome    StrategyContext = "home"
	ContextWork    StrategyContext = "work"
)

type StrategyEffort string

const (
	EffortFaible  StrategyEffort = "faible"
	EffortModere  StrategyEffort = "modéré"
	EffortIntense StrategyEffort = "intense"
)

// AntiCravingStrategy is a logged real-world coping action with before and
// after craving ratings. Submitted in batches, all-or-nothing.
type AntiCravingStrategy struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"userId"`
	Context       StrategyContext `json:"context"`
	Exercise      string          `json:"exercise"`
	Effort        StrategyEffort  `json:"effort"`
	Duration      int             `json:"duration"` // minutes
	CravingBefore int             `json:"cravingBefore"`
	CravingAfter  int             `json:"cravingAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type BadgeType string

const (
	Badge50Exercises BadgeType = "50_exercises"
)

// UserBadge is an idempotent achievement marker: at most one row per
// (user, badge type).
type UserBadge struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	BadgeType BadgeType `json:"badgeType"`
	EarnedAt  time.Time `json:"earnedAt"`
}

// BeckAnalysis is a cognitive-restructuring worksheet entry (Beck column
// technique), append-only.
type BeckAnalysis struct {
	ID                  uint      `json:"id"`
	UserID              uint      `json:"userId"`
	Situation           string    `json:"situation"`
	Emotions            string    `json:"emotions"`
	EmotionIntensity    int       `json:"emotionIntensity"`
	AutomaticThoughts   string    `json:"automaticThoughts"`
	AlternativeThoughts string    `json:"alternativeThoughts"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CravingTrend is the read-side view of the rolling craving window:
// average rounded to one decimal, trend in whole percent.
type CravingTrend struct {
	Average float64 `json:"average"`
	Trend   int     `json:"trend"`
}
