package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/apperror"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error)
}

type followService struct {
	followRepo          repository.FollowRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, notificationService NotificationService) FollowService {
	return &followService{
		followRepo:          followRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return apperror.ErrSelfFollow
	}
	if _, err := s.userRepo.FindByID(ctx, followeeID); err != nil {
		return err
	}

	already, err := s.followRepo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if already {
		return apperror.ErrAlreadyFollowing
	}

	if err := s.followRepo.Follow(ctx, followerID, followeeID); err != nil {
		return err
	}

	if s.notificationService != nil {
		s.notificationService.Enqueue(ctx, &model.Notification{
			UserID:     followeeID,
			ActorID:    followerID,
			EntityID:   followerID,
			EntityType: "user",
			Type:       "follow",
			Message:    "Someone started following you",
		})
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.followRepo.Unfollow(ctx, followerID, followeeID)
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *followService) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
