package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is the comment-shaped content item. A nil ParentCommentID means a
// top-level comment on the post; otherwise it is the post author's reply to
// that comment. The unique index on parent_comment_id caps replies at one
// per comment.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	Post            Post       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"parent_comment_id,omitempty"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author          User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Body            string     `gorm:"size:255;not null" json:"body"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Computed at query time, not persisted
	LikesCount int64 `gorm:"-" json:"likes_count"`
	Liked      bool  `gorm:"-" json:"liked"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// CommentLike mirrors PostLike for the comment flavor.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_unique,priority:1" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_unique,priority:2;index" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
