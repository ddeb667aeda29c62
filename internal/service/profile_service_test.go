package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/pkg/apperror"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewProfileService(env.userRepo, env.followRepo, nil)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	require.NoError(t, env.follows.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, env.follows.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))

	t.Run("counts and following flag for a viewer", func(t *testing.T) {
		profile, err := svc.GetByUsername(ctx, bob.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, profile.User.ID)
		assert.Equal(t, int64(2), profile.FollowersCount)
		assert.Equal(t, int64(1), profile.FollowingCount)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("anonymous viewer never shows following", func(t *testing.T) {
		profile, err := svc.GetByUsername(ctx, uuid.Nil, "alice")
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("own profile does not report following", func(t *testing.T) {
		profile, err := svc.GetByUsername(ctx, alice.ID, "alice")
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.GetByUsername(ctx, bob.ID, "nobody")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewProfileService(env.userRepo, env.followRepo, nil)

	alice := env.createUser(t, "alice")

	t.Run("updates display name and bio", func(t *testing.T) {
		name := "Alice A."
		bio := "hello there"
		profile, err := svc.UpdateProfile(ctx, alice.ID, dto.UpdateProfileInput{
			DisplayName: &name,
			Bio:         &bio,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Alice A.", profile.User.DisplayName)
		require.NotNil(t, profile.User.Bio)
		assert.Equal(t, "hello there", *profile.User.Bio)
	})

	t.Run("blank bio clears the field", func(t *testing.T) {
		blank := "   "
		profile, err := svc.UpdateProfile(ctx, alice.ID, dto.UpdateProfileInput{Bio: &blank}, nil)
		require.NoError(t, err)
		assert.Nil(t, profile.User.Bio)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, uuid.New(), dto.UpdateProfileInput{}, nil)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
