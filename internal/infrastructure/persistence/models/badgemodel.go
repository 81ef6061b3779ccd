package models

import "time"

type UserBadgeModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeType string `gorm:"not null;size:50;uniqueIndex:idx_user_badge"`
	EarnedAt  time.Time
}

func (UserBadgeModel) TableName() string {
	return "user_badges"
}
