// Package models holds the gorm persistence models, the anti-corruption
// layer between the domain entities and the database schema.
package models

import "time"

type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `gorm:"not null;size:255"`
	FirstName    string `gorm:"size:50"`
	LastName     string `gorm:"size:50"`
	Role         string `gorm:"not null;default:patient;size:20"`
	IsActive     bool   `gorm:"not null;default:true"`
	Points       int    `gorm:"not null;default:0"`
	Level        int    `gorm:"not null;default:1"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}
