package models

import "time"

type BeckAnalysisModel struct {
	ID                  uint   `gorm:"primarykey"`
	UserID              uint   `gorm:"not null;index"`
	Situation           string `gorm:"type:text"`
	Emotions            string `gorm:"size:255"`
	EmotionIntensity    int    `gorm:"not null;default:0"`
	AutomaticThoughts   string `gorm:"type:text"`
	AlternativeThoughts string `gorm:"type:text"`
	CreatedAt           time.Time
}

func (BeckAnalysisModel) TableName() string {
	return "beck_analyses"
}
