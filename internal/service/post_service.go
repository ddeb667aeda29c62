package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/reverbhq/reverb/internal/config"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/apperror"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, callerID, postID uuid.UUID) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, callerID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, callerID, postID uuid.UUID) error

	GetByAuthor(ctx context.Context, callerID, authorID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error)
	GetLikedBy(ctx context.Context, callerID, userID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error)
	GetRepostedBy(ctx context.Context, callerID, userID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error)
	GetFeed(ctx context.Context, callerID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error)
	SearchPosts(ctx context.Context, filter dto.SearchPostFilter) ([]SearchHit, int64, error)
}

type postService struct {
	postRepo      repository.PostRepository
	followRepo    repository.FollowRepository
	likeService   LikeService
	searchService SearchService
	redisClient   *redis.Client
	cfg           *config.Config
}

func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository, likeService LikeService, searchService SearchService, redisClient *redis.Client, cfg *config.Config) PostService {
	return &postService{
		postRepo:      postRepo,
		followRepo:    followRepo,
		likeService:   likeService,
		searchService: searchService,
		redisClient:   redisClient,
		cfg:           cfg,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	if err := validateBody(req.Body); err != nil {
		return nil, err
	}

	// Global cooldown
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, authorID, "global", s.cfg.RateLimitGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, authorID, "global")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	// Post-specific cooldown
	allowed, err = CheckAndSetRateLimit(ctx, s.redisClient, authorID, "post", s.cfg.RateLimitPost)
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, authorID, "post")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you can only post every %.0f seconds. Please wait %.0f seconds", s.cfg.RateLimitPost.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
			_ = ClearRateLimit(ctx, s.redisClient, authorID, "post")
		}
	}()

	post := &model.Post{
		AuthorID:     authorID,
		Body:         req.Body,
		Relationship: model.RelationshipOriginal,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload for the author association
	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err == nil {
		post = created
	}

	creationFailed = false

	if s.searchService != nil {
		if err := s.searchService.IndexPost(post); err != nil {
			logIndexError(post.ID, err)
		}
	}

	return mapPostToResponse(post, 0, false), nil
}

func (s *postService) GetPost(ctx context.Context, callerID, postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.mapWithState(ctx, callerID, post), nil
}

func (s *postService) UpdatePost(ctx context.Context, callerID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != callerID {
		return nil, apperror.ErrForbidden
	}

	// Plain reposts have no authored text to edit.
	if post.Relationship == model.RelationshipRepost {
		return nil, apperror.ErrInvalidInput
	}

	if err := validateBody(req.Body); err != nil {
		return nil, err
	}

	post.Body = req.Body
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if s.searchService != nil {
		if err := s.searchService.IndexPost(post); err != nil {
			logIndexError(post.ID, err)
		}
	}

	return s.mapWithState(ctx, callerID, post), nil
}

func (s *postService) DeletePost(ctx context.Context, callerID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != callerID {
		return apperror.ErrForbidden
	}

	if err := s.postRepo.DeleteCascade(ctx, post.ID); err != nil {
		return err
	}

	if s.searchService != nil {
		_ = s.searchService.DeletePost(post.ID.String())
		_ = s.searchService.DeleteByOriginalPost(post.ID.String())
	}
	return nil
}

func (s *postService) GetByAuthor(ctx context.Context, callerID, authorID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error) {
	normalizePage(&filter)
	posts, total, err := s.postRepo.FindByAuthor(ctx, authorID, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}
	return s.paginated(ctx, callerID, posts, total, filter), nil
}

func (s *postService) GetLikedBy(ctx context.Context, callerID, userID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error) {
	normalizePage(&filter)
	posts, total, err := s.postRepo.FindLikedBy(ctx, userID, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}
	return s.paginated(ctx, callerID, posts, total, filter), nil
}

func (s *postService) GetRepostedBy(ctx context.Context, callerID, userID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error) {
	normalizePage(&filter)
	posts, total, err := s.postRepo.FindRepostedBy(ctx, userID, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}
	return s.paginated(ctx, callerID, posts, total, filter), nil
}

// GetFeed returns posts authored by the caller or anyone they follow,
// newest first.
func (s *postService) GetFeed(ctx context.Context, callerID uuid.UUID, filter dto.PageFilter) (*dto.PaginatedPostResponse, error) {
	normalizePage(&filter)

	authorIDs, err := s.followRepo.FolloweeIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, callerID)

	posts, total, err := s.postRepo.FindFeed(ctx, authorIDs, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}
	return s.paginated(ctx, callerID, posts, total, filter), nil
}

func (s *postService) SearchPosts(ctx context.Context, filter dto.SearchPostFilter) ([]SearchHit, int64, error) {
	if s.searchService == nil {
		return nil, 0, apperror.ErrInternal
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	return s.searchService.SearchPosts(filter.Query, filter.Page, filter.Limit)
}

func (s *postService) paginated(ctx context.Context, callerID uuid.UUID, posts []*model.Post, total int64, filter dto.PageFilter) *dto.PaginatedPostResponse {
	data := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		data = append(data, *s.mapWithState(ctx, callerID, post))
	}
	return &dto.PaginatedPostResponse{
		Data: data,
		Meta: paginationMeta(filter.Page, filter.Limit, total),
	}
}

func (s *postService) mapWithState(ctx context.Context, callerID uuid.UUID, post *model.Post) *dto.PostResponse {
	var likes int64
	var liked bool
	if s.likeService != nil {
		likes, _ = s.likeService.GetPostLikes(ctx, post.ID)
		if callerID != uuid.Nil {
			liked, _ = s.likeService.CheckUserLikedPost(ctx, callerID, post.ID)
		}
	}
	return mapPostToResponse(post, likes, liked)
}
