package service

import (
	"context"
	"strings"
	"testing"

	"github.com/reverbhq/reverb/internal/dto"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an original", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")

		res, err := env.posts.CreatePost(ctx, alice.ID, dto.CreatePostRequest{Body: "hello world"})
		require.NoError(t, err)

		assert.Equal(t, model.RelationshipOriginal, res.Relationship)
		assert.Equal(t, "hello world", res.Body)
		assert.Equal(t, "alice", res.Author.Username)
		assert.NotEmpty(t, res.ShareToken)
	})

	t.Run("rejects empty and oversized bodies", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")

		_, err := env.posts.CreatePost(ctx, alice.ID, dto.CreatePostRequest{Body: "  "})
		assert.ErrorIs(t, err, apperror.ErrEmptyContent)

		_, err = env.posts.CreatePost(ctx, alice.ID, dto.CreatePostRequest{Body: strings.Repeat("a", model.MaxBodyLength+1)})
		assert.ErrorIs(t, err, apperror.ErrContentTooLong)

		_, err = env.posts.CreatePost(ctx, alice.ID, dto.CreatePostRequest{Body: strings.Repeat("a", model.MaxBodyLength)})
		require.NoError(t, err)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("author edits within bounds", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		post := env.createPost(t, alice.ID, "draft")

		res, err := env.posts.UpdatePost(ctx, alice.ID, post.ID, dto.UpdatePostRequest{Body: "final"})
		require.NoError(t, err)
		assert.Equal(t, "final", res.Body)
	})

	t.Run("an over-long edit leaves the stored body untouched", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		post := env.createPost(t, alice.ID, "draft")

		_, err := env.posts.UpdatePost(ctx, alice.ID, post.ID, dto.UpdatePostRequest{Body: strings.Repeat("a", model.MaxBodyLength+1)})
		assert.ErrorIs(t, err, apperror.ErrContentTooLong)

		stored, err := env.postRepo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "draft", stored.Body)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "draft")

		_, err := env.posts.UpdatePost(ctx, bob.ID, post.ID, dto.UpdatePostRequest{Body: "hijack"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("plain reposts have nothing to edit", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		repost, err := env.reposts.CreateRepost(ctx, bob.ID, post.ID)
		require.NoError(t, err)

		_, err = env.posts.UpdatePost(ctx, bob.ID, repost.ID, dto.UpdatePostRequest{Body: "text"})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("a quote's body is editable", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		quote, err := env.reposts.CreateQuote(ctx, bob.ID, post.ID, "first draft")
		require.NoError(t, err)

		res, err := env.posts.UpdatePost(ctx, bob.ID, quote.ID, dto.UpdatePostRequest{Body: "better take"})
		require.NoError(t, err)
		assert.Equal(t, "better take", res.Body)
		assert.Equal(t, model.RelationshipQuote, res.Relationship)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("only the author may delete", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		err := env.posts.DeletePost(ctx, bob.ID, post.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("delete removes like history", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		_, err := env.likes.TogglePostLike(ctx, bob.ID, post.ID, true)
		require.NoError(t, err)

		require.NoError(t, env.posts.DeletePost(ctx, alice.ID, post.ID))

		var likeCount int64
		require.NoError(t, env.db.Model(&model.PostLike{}).Count(&likeCount).Error)
		assert.EqualValues(t, 0, likeCount)
	})
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	env.createPost(t, alice.ID, "from alice")
	env.createPost(t, bob.ID, "from bob")
	env.createPost(t, carol.ID, "from carol")

	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))

	feed, err := env.posts.GetFeed(ctx, alice.ID, dto.PageFilter{})
	require.NoError(t, err)

	authors := make(map[string]bool)
	for _, post := range feed.Data {
		authors[post.Author.Username] = true
	}
	assert.True(t, authors["alice"], "own posts belong in the feed")
	assert.True(t, authors["bob"], "followed authors belong in the feed")
	assert.False(t, authors["carol"], "unfollowed authors stay out")
}

func TestGetByAuthorPagination(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	for i := 0; i < 12; i++ {
		env.createPost(t, alice.ID, "post")
	}

	page, err := env.posts.GetByAuthor(ctx, alice.ID, alice.ID, dto.PageFilter{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.EqualValues(t, 12, page.Meta.TotalItems)
	assert.Equal(t, 3, page.Meta.TotalPages)

	last, err := env.posts.GetByAuthor(ctx, alice.ID, alice.ID, dto.PageFilter{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last.Data, 2)
}

func TestGetRepostedBy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice.ID, "hello")
	env.createPost(t, alice.ID, "not reposted")

	_, err := env.reposts.CreateRepost(ctx, bob.ID, post.ID)
	require.NoError(t, err)

	page, err := env.posts.GetRepostedBy(ctx, bob.ID, bob.ID, dto.PageFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, post.ID, page.Data[0].ID)
}
