package models

import "time"

type ExerciseSessionModel struct {
	ID            uint `gorm:"primarykey"`
	UserID        uint `gorm:"not null;index"`
	ExerciseID    uint `gorm:"not null"`
	Duration      int  `gorm:"not null"`
	Completed     bool `gorm:"not null;default:false"`
	CravingBefore *int
	CravingAfter  *int
	CreatedAt     time.Time
}

func (ExerciseSessionModel) TableName() string {
	return "exercise_sessions"
}
