package models

import "time"

// APIKey stores an issued bearer key. The key string is the lookup handle;
// a key is active while ValidUntil is strictly in the future. Revocation sets
// ValidUntil to the current time instead of deleting the row.
type APIKey struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Key        string    `gorm:"size:255;not null;uniqueIndex"`
	UserID     string    `gorm:"size:36;index;not null"`
	ValidUntil time.Time `gorm:"index;not null"`
}
