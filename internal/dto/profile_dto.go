package dto

import "github.com/reverbhq/reverb/internal/model"

type ProfileResponse struct {
	User           *model.User `json:"user"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
}
