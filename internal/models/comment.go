package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a text reply attached to exactly one Post.
type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	PostID  uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a fresh UUID when the caller did not set one.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
