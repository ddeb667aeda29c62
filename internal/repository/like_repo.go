package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	LikePost(ctx context.Context, userID, postID uuid.UUID) error
	UnlikePost(ctx context.Context, userID, postID uuid.UUID) error
	IsPostLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountPostLikes(ctx context.Context, postID uuid.UUID) (int64, error)

	LikeComment(ctx context.Context, userID, commentID uuid.UUID) error
	UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) error
	IsCommentLiked(ctx context.Context, userID, commentID uuid.UUID) (bool, error)
	CountCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// LikePost inserts the membership row. ON CONFLICT DO NOTHING makes liking
// an already-liked post a no-op, so the toggle is idempotent even under
// racing callers.
func (r *likeRepository) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	like := model.PostLike{
		UserID: userID,
		PostID: postID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *likeRepository) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{}).Error
}

func (r *likeRepository) IsPostLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountPostLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) LikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	like := model.CommentLike{
		UserID:    userID,
		CommentID: commentID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *likeRepository) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.CommentLike{}).Error
}

func (r *likeRepository) IsCommentLiked(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}
