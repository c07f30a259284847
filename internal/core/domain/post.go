package domain

import "time"

// Post is an article written by a User.
//
// Author is resolved at read time from the reader store and is never
// persisted on the post row. AuthorID carries no database-level foreign key
// because users and posts may live in physically separate stores.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:255;not null"`
	Content   *string   `gorm:"type:text"`
	Published bool      `gorm:"not null;default:false"`
	AuthorID  int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Author *User `gorm:"-"`
}
