package models

import (
	"time"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:150"`

	// Credentials, hex-encoded scrypt digest and its per-user salt
	Password     string `json:"-" gorm:"not null;size:128"`
	PasswordSalt string `json:"-" gorm:"not null;size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "mbtmi_user"
}
