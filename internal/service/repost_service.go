package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/apperror"
)

// RepostService owns the relationship rules between a post and the reposts,
// quotes and comment reposts derived from it. Every operation resolves its
// target to the true original first, so querying by a repost's id behaves
// exactly like querying by the original's id.
type RepostService interface {
	CreateRepost(ctx context.Context, callerID, targetID uuid.UUID) (*dto.PostResponse, error)
	UndoRepost(ctx context.Context, callerID, contentID uuid.UUID) error
	CreateQuote(ctx context.Context, callerID, targetID uuid.UUID, quoteBody string) (*dto.PostResponse, error)
	UndoQuote(ctx context.Context, callerID, contentID uuid.UUID) error
	CreateCommentRepost(ctx context.Context, callerID, commentID uuid.UUID, body string, originalAuthorID uuid.UUID, isReply bool) (*dto.PostResponse, error)

	HasReposted(ctx context.Context, callerID, contentID uuid.UUID, isComment bool) (bool, error)
	HasQuoted(ctx context.Context, callerID, contentID uuid.UUID) (bool, error)
	GetUserQuoteOf(ctx context.Context, callerID, contentID uuid.UUID) (*dto.PostResponse, error)
	IsOwnRepost(ctx context.Context, callerID, contentID uuid.UUID) (bool, error)
	IsOwnQuote(ctx context.Context, callerID, contentID uuid.UUID) (bool, error)
}

type repostService struct {
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	userRepo            repository.UserRepository
	likeService         LikeService
	searchService       SearchService
	notificationService NotificationService
}

func NewRepostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, likeService LikeService, searchService SearchService, notificationService NotificationService) RepostService {
	return &repostService{
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		userRepo:            userRepo,
		likeService:         likeService,
		searchService:       searchService,
		notificationService: notificationService,
	}
}

// resolveOriginal follows a repost pointer to the post it rebroadcasts.
// Chains never exceed one hop: a repost's OriginalPostID is guaranteed to
// point at a non-repost, so a single step suffices. Quotes and comment
// reposts carry their own authored content and resolve to themselves.
func resolveOriginal(target *model.Post) uuid.UUID {
	if target.Relationship == model.RelationshipRepost && target.OriginalPostID != nil {
		return *target.OriginalPostID
	}
	return target.ID
}

func (s *repostService) CreateRepost(ctx context.Context, callerID, targetID uuid.UUID) (*dto.PostResponse, error) {
	target, err := s.postRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Reposting your own repost is rejected outright, before the duplicate
	// check, so the caller learns the real reason.
	if target.Relationship == model.RelationshipRepost && target.AuthorID == callerID {
		return nil, apperror.ErrSelfRepost
	}

	originalID := resolveOriginal(target)

	if _, err := s.postRepo.FindRepostByAuthor(ctx, callerID, originalID); err == nil {
		return nil, apperror.ErrAlreadyReposted
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	repost := &model.Post{
		AuthorID:       callerID,
		Relationship:   model.RelationshipRepost,
		OriginalPostID: &originalID,
	}
	if err := s.postRepo.Create(ctx, repost); err != nil {
		return nil, fmt.Errorf("failed to create repost: %w", err)
	}

	created, err := s.postRepo.FindByID(ctx, repost.ID)
	if err == nil {
		repost = created
	}

	s.notifyDerived(ctx, callerID, originalID, "repost", "Someone reposted your post")

	return mapPostToResponse(repost, 0, false), nil
}

func (s *repostService) UndoRepost(ctx context.Context, callerID, contentID uuid.UUID) error {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return err
	}

	if item.Relationship == model.RelationshipRepost {
		if item.AuthorID != callerID {
			return apperror.ErrForbidden
		}
		return s.postRepo.DeleteCascade(ctx, item.ID)
	}

	repost, err := s.postRepo.FindRepostByAuthor(ctx, callerID, item.ID)
	if err != nil {
		return err
	}
	// Comments may be attached to the repost row itself, so the removal
	// cascades rather than deleting the single row.
	return s.postRepo.DeleteCascade(ctx, repost.ID)
}

func (s *repostService) CreateQuote(ctx context.Context, callerID, targetID uuid.UUID, quoteBody string) (*dto.PostResponse, error) {
	if err := validateBody(quoteBody); err != nil {
		return nil, err
	}

	target, err := s.postRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// No quote-of-quote chains. Quoting a repost falls through to quoting
	// the post it rebroadcasts.
	if target.Relationship == model.RelationshipQuote {
		return nil, apperror.ErrQuoteOfQuote
	}

	originalID := resolveOriginal(target)

	if _, err := s.postRepo.FindQuoteByAuthor(ctx, callerID, originalID); err == nil {
		return nil, apperror.ErrAlreadyQuoted
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	quote := &model.Post{
		AuthorID:       callerID,
		Body:           quoteBody,
		Relationship:   model.RelationshipQuote,
		OriginalPostID: &originalID,
	}
	if err := s.postRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	created, err := s.postRepo.FindByID(ctx, quote.ID)
	if err == nil {
		quote = created
	}

	if s.searchService != nil {
		if err := s.searchService.IndexPost(quote); err != nil {
			logIndexError(quote.ID, err)
		}
	}

	s.notifyDerived(ctx, callerID, originalID, "quote", "Someone quoted your post")

	return mapPostToResponse(quote, 0, false), nil
}

func (s *repostService) UndoQuote(ctx context.Context, callerID, contentID uuid.UUID) error {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return err
	}

	var quote *model.Post
	if item.Relationship == model.RelationshipQuote {
		if item.AuthorID != callerID {
			return apperror.ErrForbidden
		}
		quote = item
	} else {
		quote, err = s.postRepo.FindQuoteByAuthor(ctx, callerID, resolveOriginal(item))
		if err != nil {
			return err
		}
	}

	// A quote is content in its own right: reposts may point at it and
	// comments may be attached to it, so undoing takes the whole derivation
	// set with it.
	if err := s.postRepo.DeleteCascade(ctx, quote.ID); err != nil {
		return err
	}
	if s.searchService != nil {
		_ = s.searchService.DeletePost(quote.ID.String())
	}
	return nil
}

func (s *repostService) CreateCommentRepost(ctx context.Context, callerID, commentID uuid.UUID, body string, originalAuthorID uuid.UUID, isReply bool) (*dto.PostResponse, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.FindCommentRepostByAuthor(ctx, callerID, commentID); err == nil {
		return nil, apperror.ErrAlreadyReposted
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	repost := &model.Post{
		AuthorID:          callerID,
		Body:              body,
		Relationship:      model.RelationshipCommentRepost,
		OriginalCommentID: &commentID,
		OriginalAuthorID:  &originalAuthorID,
		IsReplyRepost:     isReply,
	}
	if err := s.postRepo.Create(ctx, repost); err != nil {
		return nil, fmt.Errorf("failed to create comment repost: %w", err)
	}

	created, err := s.postRepo.FindByID(ctx, repost.ID)
	if err == nil {
		repost = created
	}

	if comment.AuthorID != callerID && s.notificationService != nil {
		s.notificationService.Enqueue(ctx, &model.Notification{
			UserID:     comment.AuthorID,
			ActorID:    callerID,
			EntityID:   repost.ID,
			EntityType: "post",
			Type:       "repost",
			Message:    "Someone reposted your comment",
		})
	}

	return mapPostToResponse(repost, 0, false), nil
}

func (s *repostService) HasReposted(ctx context.Context, callerID, contentID uuid.UUID, isComment bool) (bool, error) {
	if isComment {
		_, err := s.postRepo.FindCommentRepostByAuthor(ctx, callerID, contentID)
		return s.foundOrNot(err)
	}

	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return false, err
	}
	_, err = s.postRepo.FindRepostByAuthor(ctx, callerID, resolveOriginal(item))
	return s.foundOrNot(err)
}

func (s *repostService) HasQuoted(ctx context.Context, callerID, contentID uuid.UUID) (bool, error) {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return false, err
	}
	_, err = s.postRepo.FindQuoteByAuthor(ctx, callerID, resolveOriginal(item))
	return s.foundOrNot(err)
}

func (s *repostService) GetUserQuoteOf(ctx context.Context, callerID, contentID uuid.UUID) (*dto.PostResponse, error) {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	quote, err := s.postRepo.FindQuoteByAuthor(ctx, callerID, resolveOriginal(item))
	if err != nil {
		return nil, err
	}

	loaded, err := s.postRepo.FindByID(ctx, quote.ID)
	if err == nil {
		quote = loaded
	}

	likes, liked := s.likeState(ctx, callerID, quote.ID)
	return mapPostToResponse(quote, likes, liked), nil
}

func (s *repostService) IsOwnRepost(ctx context.Context, callerID, contentID uuid.UUID) (bool, error) {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return false, err
	}
	return item.Relationship == model.RelationshipRepost && item.AuthorID == callerID, nil
}

func (s *repostService) IsOwnQuote(ctx context.Context, callerID, contentID uuid.UUID) (bool, error) {
	item, err := s.postRepo.FindByID(ctx, contentID)
	if err != nil {
		return false, err
	}
	return item.Relationship == model.RelationshipQuote && item.AuthorID == callerID, nil
}

func (s *repostService) foundOrNot(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *repostService) likeState(ctx context.Context, callerID, postID uuid.UUID) (int64, bool) {
	if s.likeService == nil {
		return 0, false
	}
	likes, _ := s.likeService.GetPostLikes(ctx, postID)
	liked, _ := s.likeService.CheckUserLikedPost(ctx, callerID, postID)
	return likes, liked
}

func (s *repostService) notifyDerived(ctx context.Context, callerID, originalID uuid.UUID, notifType, message string) {
	if s.notificationService == nil {
		return
	}
	original, err := s.postRepo.FindByID(ctx, originalID)
	if err != nil || original.AuthorID == callerID {
		return
	}
	s.notificationService.Enqueue(ctx, &model.Notification{
		UserID:     original.AuthorID,
		ActorID:    callerID,
		EntityID:   originalID,
		EntityType: "post",
		Type:       notifType,
		Message:    message,
	})
}
