package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/storage"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, callerID uuid.UUID, username string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	followRepo   repository.FollowRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(userRepo repository.UserRepository, followRepo repository.FollowRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		followRepo:   followRepo,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetByUsername(ctx context.Context, callerID uuid.UUID, username string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, callerID, user.ID, username)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil && *input.DisplayName != "" {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = normalizeOptional(input.Bio)
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		if user.AvatarURL != nil {
			if err := s.imageStorage.DeleteImage(ctx, *user.AvatarURL); err != nil {
				logStorageError("avatar delete", err)
			}
		}
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.buildProfile(ctx, userID, user.ID, user.Username)
}

func (s *profileService) buildProfile(ctx context.Context, callerID, userID uuid.UUID, username string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if callerID != uuid.Nil && callerID != userID {
		isFollowing, err = s.followRepo.IsFollowing(ctx, callerID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ProfileResponse{
		User:           user,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}
