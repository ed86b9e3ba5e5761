// Package models contains the persisted entities and the shapes derived from them.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry. It is never updated or deleted once created.
type Post struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"type:text;not null" json:"title"`
	Content string    `gorm:"type:text;not null" json:"content"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string {
	return "blog_posts"
}

// BeforeCreate assigns a fresh UUID when the caller did not set one.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostSummary is one row of the post listing.
type PostSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	NumComments int64     `json:"num_comments"`
}

// PostWithComments is a post composed with its full comment set.
type PostWithComments struct {
	Post
	Comments []Comment `json:"comments"`
}
