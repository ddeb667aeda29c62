package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
)

// LikeService keeps likedBy membership. The database row is the authority;
// redis sets only cache counts and membership for cheap reads. Toggling is
// idempotent in both directions: liking twice or unliking an unliked item
// is a no-op that returns the unchanged item.
type LikeService interface {
	TogglePostLike(ctx context.Context, userID, postID uuid.UUID, like bool) (*dto.PostResponse, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID, like bool) (*dto.CommentResponse, error)
	GetPostLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	GetCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error)
	CheckUserLikedPost(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CheckUserLikedComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error)
}

type likeService struct {
	redisClient         *redis.Client
	likeRepo            repository.LikeRepository
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	notificationService NotificationService
}

func NewLikeService(redisClient *redis.Client, likeRepo repository.LikeRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository, notificationService NotificationService) LikeService {
	return &likeService{
		redisClient:         redisClient,
		likeRepo:            likeRepo,
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		notificationService: notificationService,
	}
}

func postLikesKey(postID uuid.UUID) string {
	return fmt.Sprintf("post_likes:%s", postID.String())
}

func commentLikesKey(commentID uuid.UUID) string {
	return fmt.Sprintf("comment_likes:%s", commentID.String())
}

func (s *likeService) TogglePostLike(ctx context.Context, userID, postID uuid.UUID, like bool) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	alreadyLiked, err := s.likeRepo.IsPostLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if like && !alreadyLiked {
		if err := s.likeRepo.LikePost(ctx, userID, postID); err != nil {
			return nil, err
		}
		if s.redisClient != nil {
			_ = s.redisClient.SAdd(ctx, postLikesKey(postID), userID.String()).Err()
		}
		if post.AuthorID != userID && s.notificationService != nil {
			s.notificationService.Enqueue(ctx, &model.Notification{
				UserID:     post.AuthorID,
				ActorID:    userID,
				EntityID:   postID,
				EntityType: "post",
				Type:       "like_post",
				Message:    "Someone liked your post",
			})
		}
	} else if !like && alreadyLiked {
		if err := s.likeRepo.UnlikePost(ctx, userID, postID); err != nil {
			return nil, err
		}
		if s.redisClient != nil {
			_ = s.redisClient.SRem(ctx, postLikesKey(postID), userID.String()).Err()
		}
	}

	likes, err := s.GetPostLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return mapPostToResponse(post, likes, like), nil
}

func (s *likeService) ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID, like bool) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	alreadyLiked, err := s.likeRepo.IsCommentLiked(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	if like && !alreadyLiked {
		if err := s.likeRepo.LikeComment(ctx, userID, commentID); err != nil {
			return nil, err
		}
		if s.redisClient != nil {
			_ = s.redisClient.SAdd(ctx, commentLikesKey(commentID), userID.String()).Err()
		}
		if comment.AuthorID != userID && s.notificationService != nil {
			s.notificationService.Enqueue(ctx, &model.Notification{
				UserID:     comment.AuthorID,
				ActorID:    userID,
				EntityID:   commentID,
				EntityType: "comment",
				Type:       "like_comment",
				Message:    "Someone liked your comment",
			})
		}
	} else if !like && alreadyLiked {
		if err := s.likeRepo.UnlikeComment(ctx, userID, commentID); err != nil {
			return nil, err
		}
		if s.redisClient != nil {
			_ = s.redisClient.SRem(ctx, commentLikesKey(commentID), userID.String()).Err()
		}
	}

	likes, err := s.GetCommentLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return mapCommentToResponse(comment, likes, like), nil
}

// GetPostLikes prefers the cached set and falls back to the store when the
// cache is cold or unreachable.
func (s *likeService) GetPostLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	if s.redisClient != nil {
		count, err := s.redisClient.SCard(ctx, postLikesKey(postID)).Result()
		if err == nil && count > 0 {
			return count, nil
		}
	}
	return s.likeRepo.CountPostLikes(ctx, postID)
}

func (s *likeService) GetCommentLikes(ctx context.Context, commentID uuid.UUID) (int64, error) {
	if s.redisClient != nil {
		count, err := s.redisClient.SCard(ctx, commentLikesKey(commentID)).Result()
		if err == nil && count > 0 {
			return count, nil
		}
	}
	return s.likeRepo.CountCommentLikes(ctx, commentID)
}

func (s *likeService) CheckUserLikedPost(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if s.redisClient != nil {
		isMember, err := s.redisClient.SIsMember(ctx, postLikesKey(postID), userID.String()).Result()
		if err == nil && isMember {
			return true, nil
		}
	}
	return s.likeRepo.IsPostLiked(ctx, userID, postID)
}

func (s *likeService) CheckUserLikedComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	if s.redisClient != nil {
		isMember, err := s.redisClient.SIsMember(ctx, commentLikesKey(commentID), userID.String()).Result()
		if err == nil && isMember {
			return true, nil
		}
	}
	return s.likeRepo.IsCommentLiked(ctx, userID, commentID)
}
