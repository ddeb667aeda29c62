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

func TestCreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("comment lands on the post", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")

		res, err := env.comments.CreateComment(ctx, bob.ID, post.ID, dto.CreateCommentRequest{Body: "nice"})
		require.NoError(t, err)
		assert.Equal(t, post.ID, res.PostID)
		assert.Nil(t, res.ParentCommentID)
		assert.Equal(t, "bob", res.Author.Username)
	})

	t.Run("body bounds apply to comments too", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		post := env.createPost(t, alice.ID, "hello")

		_, err := env.comments.CreateComment(ctx, alice.ID, post.ID, dto.CreateCommentRequest{Body: strings.Repeat("x", model.MaxBodyLength+1)})
		assert.ErrorIs(t, err, apperror.ErrContentTooLong)
	})
}

func TestCreateReply(t *testing.T) {
	ctx := context.Background()

	t.Run("post author replies once", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")
		comment := env.createComment(t, bob.ID, post.ID, "question?")

		res, err := env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "answer"})
		require.NoError(t, err)
		require.NotNil(t, res.ParentCommentID)
		assert.Equal(t, comment.ID, *res.ParentCommentID)

		_, err = env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "again"})
		assert.ErrorIs(t, err, apperror.ErrAlreadyReplied)
	})

	t.Run("only the post author may reply", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		carol := env.createUser(t, "carol")
		post := env.createPost(t, alice.ID, "hello")
		comment := env.createComment(t, bob.ID, post.ID, "question?")

		_, err := env.comments.CreateReply(ctx, carol.ID, comment.ID, dto.CreateReplyRequest{Body: "not mine"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("replies do not nest", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")
		comment := env.createComment(t, bob.ID, post.ID, "question?")

		reply, err := env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "answer"})
		require.NoError(t, err)

		_, err = env.comments.CreateReply(ctx, alice.ID, reply.ID, dto.CreateReplyRequest{Body: "deeper"})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("delete then reply again", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice")
		bob := env.createUser(t, "bob")
		post := env.createPost(t, alice.ID, "hello")
		comment := env.createComment(t, bob.ID, post.ID, "question?")

		reply, err := env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "answer"})
		require.NoError(t, err)
		require.NoError(t, env.comments.DeleteComment(ctx, alice.ID, reply.ID))

		_, err = env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "rewritten"})
		require.NoError(t, err)
	})
}

func TestGetTopLevel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice.ID, "hello")

	first := env.createComment(t, bob.ID, post.ID, "first")
	env.createComment(t, bob.ID, post.ID, "second")
	_, err := env.comments.CreateReply(ctx, alice.ID, first.ID, dto.CreateReplyRequest{Body: "answer"})
	require.NoError(t, err)

	list, err := env.comments.GetTopLevel(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "first", list[0].Body)
	require.NotNil(t, list[0].Reply)
	assert.Equal(t, "answer", list[0].Reply.Body)
	assert.Nil(t, list[1].Reply)
}

func TestDeleteCommentCascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice.ID, "hello")
	comment := env.createComment(t, bob.ID, post.ID, "nice one")

	_, err := env.comments.CreateReply(ctx, alice.ID, comment.ID, dto.CreateReplyRequest{Body: "thanks"})
	require.NoError(t, err)

	// A comment repost derived from the comment goes too.
	commentRepost, err := env.reposts.CreateCommentRepost(ctx, alice.ID, comment.ID, comment.Body, bob.ID, false)
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(ctx, bob.ID, comment.ID))

	assert.EqualValues(t, 0, env.countComments(t))
	_, err = env.postRepo.FindByID(ctx, commentRepost.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice.ID, "hello")
	comment := env.createComment(t, bob.ID, post.ID, "draft")

	_, err := env.comments.UpdateComment(ctx, alice.ID, comment.ID, dto.UpdateCommentRequest{Body: "hijack"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := env.comments.UpdateComment(ctx, bob.ID, comment.ID, dto.UpdateCommentRequest{Body: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", res.Body)
}
