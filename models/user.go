package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DisplayName  string    `gorm:"not null" json:"display_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	HasAccess    bool      `gorm:"default:false" json:"has_access"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
