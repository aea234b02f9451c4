package models

import "time"

type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserName    string    `gorm:"size:100" json:"user_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordEnc string    `gorm:"not null" json:"-"`
	DateOfBirth time.Time `json:"date_of_birth"`
	DeviceToken string    `gorm:"index" json:"device_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
