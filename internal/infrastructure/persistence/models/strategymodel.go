package models

import "time"

type AntiCravingStrategyModel struct {
	ID            uint   `gorm:"primarykey"`
	UserID        uint   `gorm:"not null;index"`
	Context       string `gorm:"not null;size:20"`
	Exercise      string `gorm:"not null;size:255"`
	Effort        string `gorm:"not null;size:20"`
	Duration      int    `gorm:"not null"`
	CravingBefore int    `gorm:"not null"`
	CravingAfter  int    `gorm:"not null"`
	CreatedAt     time.Time
}

func (AntiCravingStrategyModel) TableName() string {
	return "anti_craving_strategies"
}
