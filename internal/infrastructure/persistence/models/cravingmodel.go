package models

import (
	"time"

	"gorm.io/datatypes"
)

type CravingEntryModel struct {
	ID        uint                        `gorm:"primarykey"`
	UserID    uint                        `gorm:"not null;index:idx_craving_user_created"`
	Intensity int                         `gorm:"not null"`
	Triggers  datatypes.JSONSlice[string] `gorm:"type:json"`
	Emotions  datatypes.JSONSlice[string] `gorm:"type:json"`
	Notes     string                      `gorm:"type:text"`
	CreatedAt time.Time                   `gorm:"index:idx_craving_user_created"`
}

func (CravingEntryModel) TableName() string {
	return "craving_entries"
}
