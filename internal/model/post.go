package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxBodyLength is the hard bound on authored text, enforced in the
// services at creation and edit time, not just at the client.
const MaxBodyLength = 67

// Relationship tags. A post is exactly one of these; transitions between
// them never happen in place (a repost is created and hard-deleted, never
// converted).
const (
	RelationshipOriginal      = "original"
	RelationshipRepost        = "repost"
	RelationshipQuote         = "quote"
	RelationshipCommentRepost = "comment_repost"
)

// Post is the post-shaped content item. Reposts and quotes reference their
// resolved original through OriginalPostID; comment reposts reference a
// comment instead. The composite unique indexes back the one-repost-and-
// one-quote-per-user rule at the storage layer, so two callers racing to
// create the same relationship collapse into a single row.
type Post struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_posts_relationship_unique,priority:1;uniqueIndex:idx_posts_comment_repost_unique,priority:1" json:"author_id"`
	Author       User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Body         string     `gorm:"size:255;not null" json:"body"`
	Relationship string     `gorm:"size:20;not null;default:original;uniqueIndex:idx_posts_relationship_unique,priority:3" json:"relationship"`

	// Repost / quote fields. OriginalPostID always points at the resolved
	// original, never at another repost (chains of length >1 do not exist).
	OriginalPostID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_posts_relationship_unique,priority:2" json:"original_post_id,omitempty"`

	// Comment repost fields.
	OriginalCommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_posts_comment_repost_unique,priority:2" json:"original_comment_id,omitempty"`
	OriginalAuthorID  *uuid.UUID `gorm:"type:uuid" json:"original_author_id,omitempty"`
	IsReplyRepost     bool       `gorm:"default:false" json:"is_reply_repost"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Computed at query time, not persisted
	LikesCount int64 `gorm:"-" json:"likes_count"`
	Liked      bool  `gorm:"-" json:"liked"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// PostLike records that a user liked a post. The (user, post) pair is
// unique, so a duplicate like is rejected by the store even if the
// idempotency check in the service raced.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_unique,priority:1" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_unique,priority:2;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
