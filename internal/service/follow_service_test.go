package service

import (
	"context"
	"testing"

	"github.com/reverbhq/reverb/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("follow and unfollow", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")

		require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))

		following, err := env.follows.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		followers, _, err := env.follows.Counts(ctx, bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, followers)

		require.NoError(t, env.follows.Unfollow(ctx, alice.ID, bob.ID))
		following, err = env.follows.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")

		err := env.follows.Follow(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, apperror.ErrSelfFollow)
	})

	t.Run("double follow is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")

		require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))
		err := env.follows.Follow(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, apperror.ErrAlreadyFollowing)
	})

	t.Run("following a missing user is not found", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		ghost := env.createUser(t, "ghost")
		require.NoError(t, env.userRepo.Delete(ctx, ghost.ID))

		err := env.follows.Follow(ctx, alice.ID, ghost.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
