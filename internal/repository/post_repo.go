package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/pkg/apperror"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	FindRepostByAuthor(ctx context.Context, authorID, originalPostID uuid.UUID) (*model.Post, error)
	FindQuoteByAuthor(ctx context.Context, authorID, originalPostID uuid.UUID) (*model.Post, error)
	FindCommentRepostByAuthor(ctx context.Context, authorID, commentID uuid.UUID) (*model.Post, error)

	FindByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindLikedBy(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindRepostedBy(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindFeed(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*model.Post, int64, error)

	CountReposts(ctx context.Context, originalPostID uuid.UUID) (int64, error)
	CountQuotes(ctx context.Context, originalPostID uuid.UUID) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes exactly one row and its like rows. Callers that may have
// derived content hanging off the post use DeleteCascade instead.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, "id = ?", id).Error
	})
}

// DeleteCascade removes a post together with everything transitively derived
// from it: reposts and quotes pointing at any doomed post (a quote can itself
// be reposted), every doomed post's comment tree, comment reposts of those
// comments, and every like row touching any of the removed items. All of it
// happens in one transaction so a failure leaves the store untouched.
func (r *postRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doomed := []uuid.UUID{id}
		frontier := doomed
		var commentIDs []uuid.UUID

		// Derivation chains are short (repost -> quote -> original at most),
		// so this settles in a couple of rounds.
		for len(frontier) > 0 {
			var next []uuid.UUID
			if err := tx.Model(&model.Post{}).
				Where("original_post_id IN ?", frontier).
				Pluck("id", &next).Error; err != nil {
				return err
			}

			var frontierComments []uuid.UUID
			if err := tx.Model(&model.Comment{}).
				Where("post_id IN ?", frontier).
				Pluck("id", &frontierComments).Error; err != nil {
				return err
			}
			if len(frontierComments) > 0 {
				commentIDs = append(commentIDs, frontierComments...)

				var commentRepostIDs []uuid.UUID
				if err := tx.Model(&model.Post{}).
					Where("original_comment_id IN ?", frontierComments).
					Pluck("id", &commentRepostIDs).Error; err != nil {
					return err
				}
				next = append(next, commentRepostIDs...)
			}

			doomed = append(doomed, next...)
			frontier = next
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id IN ?", doomed).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&model.Post{}).Error
	})
}

func (r *postRepository) FindRepostByAuthor(ctx context.Context, authorID, originalPostID uuid.UUID) (*model.Post, error) {
	return r.findRelated(ctx, authorID, originalPostID, model.RelationshipRepost)
}

func (r *postRepository) FindQuoteByAuthor(ctx context.Context, authorID, originalPostID uuid.UUID) (*model.Post, error) {
	return r.findRelated(ctx, authorID, originalPostID, model.RelationshipQuote)
}

func (r *postRepository) findRelated(ctx context.Context, authorID, originalPostID uuid.UUID, relationship string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND original_post_id = ? AND relationship = ?", authorID, originalPostID, relationship).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindCommentRepostByAuthor(ctx context.Context, authorID, commentID uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND original_comment_id = ? AND relationship = ?", authorID, commentID, model.RelationshipCommentRepost).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID)
	return r.paginate(query, offset, limit)
}

func (r *postRepository) FindLikedBy(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.user_id = ?", userID)
	return r.paginate(query, offset, limit)
}

// FindRepostedBy returns the original posts the user has reposted or quoted,
// not the pointer rows themselves.
func (r *postRepository) FindRepostedBy(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	sub := r.db.Model(&model.Post{}).
		Select("original_post_id").
		Where("author_id = ? AND relationship IN ?", userID, []string{model.RelationshipRepost, model.RelationshipQuote})

	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id IN (?)", sub)
	return r.paginate(query, offset, limit)
}

func (r *postRepository) FindFeed(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id IN ?", authorIDs)
	return r.paginate(query, offset, limit)
}

func (r *postRepository) paginate(query *gorm.DB, offset, limit int) ([]*model.Post, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) CountReposts(ctx context.Context, originalPostID uuid.UUID) (int64, error) {
	return r.countRelated(ctx, originalPostID, model.RelationshipRepost)
}

func (r *postRepository) CountQuotes(ctx context.Context, originalPostID uuid.UUID) (int64, error) {
	return r.countRelated(ctx, originalPostID, model.RelationshipQuote)
}

func (r *postRepository) countRelated(ctx context.Context, originalPostID uuid.UUID, relationship string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("original_post_id = ? AND relationship = ?", originalPostID, relationship).
		Count(&count).Error
	return count, err
}
