package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/pkg/apperror"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	DeleteTree(ctx context.Context, id uuid.UUID) error

	FindTopLevelByPostID(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
	FindReplies(ctx context.Context, parentCommentID uuid.UUID) ([]*model.Comment, error)
	HasReply(ctx context.Context, parentCommentID uuid.UUID) (bool, error)
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteTree removes a comment plus all of its direct and indirect replies,
// their like rows, and any comment reposts republishing them, in a single
// transaction.
func (r *commentRepository) DeleteTree(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doomed := []uuid.UUID{id}
		frontier := []uuid.UUID{id}
		for len(frontier) > 0 {
			var children []uuid.UUID
			if err := tx.Model(&model.Comment{}).
				Where("parent_comment_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			doomed = append(doomed, children...)
			frontier = children
		}

		var repostIDs []uuid.UUID
		if err := tx.Model(&model.Post{}).
			Where("original_comment_id IN ?", doomed).
			Pluck("id", &repostIDs).Error; err != nil {
			return err
		}
		if len(repostIDs) > 0 {
			if err := tx.Where("post_id IN ?", repostIDs).Delete(&model.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", repostIDs).Delete(&model.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("comment_id IN ?", doomed).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&model.Comment{}).Error
	})
}

// FindTopLevelByPostID returns the post's top-level comments in
// conversational (oldest first) order.
func (r *commentRepository) FindTopLevelByPostID(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindReplies(ctx context.Context, parentCommentID uuid.UUID) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("parent_comment_id = ?", parentCommentID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) HasReply(ctx context.Context, parentCommentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("parent_comment_id = ?", parentCommentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
