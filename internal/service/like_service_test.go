package service

import (
	"context"
	"testing"

	"github.com/reverbhq/reverb/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTogglePostLike(t *testing.T) {
	ctx := context.Background()

	t.Run("liking twice keeps a single like", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		res, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.LikesCount)
		assert.True(t, res.Liked)

		res, err = env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.LikesCount)
	})

	t.Run("unliking twice is a no-op after the first", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		_, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		require.NoError(t, err)

		res, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, false)
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.LikesCount)

		res, err = env.likes.TogglePostLike(ctx, bob.ID, post.ID, false)
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.LikesCount)
	})

	t.Run("liking a missing post is not found", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "gone soon")
		require.NoError(t, env.postRepo.Delete(ctx, post.ID))

		_, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("likes from different users accumulate", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		carol := env.createUser(t, "carol")
		post := env.createPost(t, alice.ID, "hello")

		_, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		require.NoError(t, err)
		res, err := env.likes.TogglePostLike(ctx, carol.ID, post.ID, true)
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.LikesCount)

		liked, err := env.likes.CheckUserLikedPost(ctx, bob.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
	})
}

func TestToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice.ID, "hello")
	comment := env.createComment(t, bob.ID, post.ID, "nice")

	res, err := env.likes.ToggleCommentLike(ctx, alice.ID, comment.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.LikesCount)

	res, err = env.likes.ToggleCommentLike(ctx, alice.ID, comment.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.LikesCount)

	res, err = env.likes.ToggleCommentLike(ctx, alice.ID, comment.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.LikesCount)
}
