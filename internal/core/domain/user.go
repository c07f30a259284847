package domain

import "time"

// User is a registered account. Email is unique across the writer store.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Name      *string   `gorm:"size:100"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
