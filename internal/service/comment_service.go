package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/apperror"
)

type CommentService interface {
	CreateComment(ctx context.Context, callerID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	CreateReply(ctx context.Context, callerID, parentCommentID uuid.UUID, req dto.CreateReplyRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, callerID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, callerID, commentID uuid.UUID) error
	GetTopLevel(ctx context.Context, callerID, postID uuid.UUID) ([]dto.CommentResponse, error)
	GetReplies(ctx context.Context, callerID, parentCommentID uuid.UUID) ([]dto.CommentResponse, error)
}

type commentService struct {
	commentRepo         repository.CommentRepository
	postRepo            repository.PostRepository
	likeService         LikeService
	notificationService NotificationService
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, likeService LikeService, notificationService NotificationService) CommentService {
	return &commentService{
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		likeService:         likeService,
		notificationService: notificationService,
	}
}

func (s *commentService) CreateComment(ctx context.Context, callerID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := validateBody(req.Body); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: callerID,
		Body:     req.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err == nil {
		comment = created
	}

	if post.AuthorID != callerID && s.notificationService != nil {
		s.notificationService.Enqueue(ctx, &model.Notification{
			UserID:     post.AuthorID,
			ActorID:    callerID,
			EntityID:   comment.ID,
			EntityType: "comment",
			Type:       "comment",
			Message:    "Someone commented on your post",
		})
	}

	return mapCommentToResponse(comment, 0, false), nil
}

// CreateReply is restricted to the post's author, once per comment. The
// second attempt fails inside the mutation itself rather than relying on
// the client hiding the form.
func (s *commentService) CreateReply(ctx context.Context, callerID, parentCommentID uuid.UUID, req dto.CreateReplyRequest) (*dto.CommentResponse, error) {
	if err := validateBody(req.Body); err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.FindByID(ctx, parentCommentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentCommentID != nil {
		// Replies don't nest further.
		return nil, apperror.ErrInvalidInput
	}

	post, err := s.postRepo.FindByID(ctx, parent.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, apperror.ErrForbidden
	}

	hasReply, err := s.commentRepo.HasReply(ctx, parentCommentID)
	if err != nil {
		return nil, err
	}
	if hasReply {
		return nil, apperror.ErrAlreadyReplied
	}

	reply := &model.Comment{
		PostID:          parent.PostID,
		ParentCommentID: &parentCommentID,
		AuthorID:        callerID,
		Body:            req.Body,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.FindByID(ctx, reply.ID)
	if err == nil {
		reply = created
	}

	if parent.AuthorID != callerID && s.notificationService != nil {
		s.notificationService.Enqueue(ctx, &model.Notification{
			UserID:     parent.AuthorID,
			ActorID:    callerID,
			EntityID:   reply.ID,
			EntityType: "comment",
			Type:       "reply",
			Message:    "The author replied to your comment",
		})
	}

	return mapCommentToResponse(reply, 0, false), nil
}

func (s *commentService) UpdateComment(ctx context.Context, callerID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != callerID {
		return nil, apperror.ErrForbidden
	}
	if err := validateBody(req.Body); err != nil {
		return nil, err
	}

	comment.Body = req.Body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.mapWithState(ctx, callerID, comment), nil
}

// DeleteComment removes the comment and its whole reply tree.
func (s *commentService) DeleteComment(ctx context.Context, callerID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != callerID {
		return apperror.ErrForbidden
	}
	return s.commentRepo.DeleteTree(ctx, commentID)
}

func (s *commentService) GetTopLevel(ctx context.Context, callerID, postID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindTopLevelByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		node := s.mapWithState(ctx, callerID, comment)

		replies, err := s.commentRepo.FindReplies(ctx, comment.ID)
		if err != nil {
			return nil, err
		}
		if len(replies) > 0 {
			node.Reply = s.mapWithState(ctx, callerID, replies[0])
		}
		result = append(result, *node)
	}
	return result, nil
}

func (s *commentService) GetReplies(ctx context.Context, callerID, parentCommentID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.commentRepo.FindByID(ctx, parentCommentID); err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.FindReplies(ctx, parentCommentID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CommentResponse, 0, len(replies))
	for _, reply := range replies {
		result = append(result, *s.mapWithState(ctx, callerID, reply))
	}
	return result, nil
}

func (s *commentService) mapWithState(ctx context.Context, callerID uuid.UUID, comment *model.Comment) *dto.CommentResponse {
	var likes int64
	var liked bool
	if s.likeService != nil {
		likes, _ = s.likeService.GetCommentLikes(ctx, comment.ID)
		if callerID != uuid.Nil {
			liked, _ = s.likeService.CheckUserLikedComment(ctx, callerID, comment.ID)
		}
	}
	return mapCommentToResponse(comment, likes, liked)
}
