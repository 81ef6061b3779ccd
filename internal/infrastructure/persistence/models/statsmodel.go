package models

import "time"

type UserStatsModel struct {
	UserID             uint `gorm:"primarykey"`
	ExercisesCompleted int  `gorm:"not null;default:0"`
	TotalDuration      int  `gorm:"not null;default:0"`
	CurrentStreak      int  `gorm:"not null;default:0"`
	LongestStreak      int  `gorm:"not null;default:0"`
	AverageCraving     int  `gorm:"not null;default:0"`
	LastCompletedAt    *time.Time
	UpdatedAt          time.Time
}

func (UserStatsModel) TableName() string {
	return "user_stats"
}
