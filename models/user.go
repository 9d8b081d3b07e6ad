package models

import (
	"time"
)

// User model. AccessToken/RefreshToken hold the current session pair;
// logout clears both together, so they are either both set or both NULL.
type User struct {
	ID             string `gorm:"primaryKey;size:36"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Email          string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	AccessToken    *string    `gorm:"size:512;index"`
	RefreshToken   *string    `gorm:"size:512"`
	APIKeys        []APIKey   `gorm:"foreignKey:UserID;references:ID"`
}
