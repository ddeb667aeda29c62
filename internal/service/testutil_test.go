package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/reverbhq/reverb/internal/config"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		RateLimitGlobal: 5 * time.Second,
		RateLimitPost:   15 * time.Second,
	}
}

// testEnv wires the services against an in-memory database, with redis,
// search and cloudinary left out.
type testEnv struct {
	db *gorm.DB

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	followRepo  repository.FollowRepository

	likes    LikeService
	posts    PostService
	reposts  RepostService
	comments CommentService
	follows  FollowService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.CommentLike{},
		&model.Follow{},
		&model.Notification{},
	))

	env := &testEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		likeRepo:    repository.NewLikeRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}

	env.likes = NewLikeService(nil, env.likeRepo, env.postRepo, env.commentRepo, nil)
	env.posts = NewPostService(env.postRepo, env.followRepo, env.likes, nil, nil, testConfig())
	env.reposts = NewRepostService(env.postRepo, env.commentRepo, env.userRepo, env.likes, nil, nil)
	env.comments = NewCommentService(env.commentRepo, env.postRepo, env.likes, nil)
	env.follows = NewFollowService(env.followRepo, env.userRepo, nil)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hashed",
		DisplayName:  username,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, authorID uuid.UUID, body string) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID:     authorID,
		Body:         body,
		Relationship: model.RelationshipOriginal,
	}
	require.NoError(t, e.postRepo.Create(context.Background(), post))
	return post
}

func (e *testEnv) createComment(t *testing.T, authorID, postID uuid.UUID, body string) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}
	require.NoError(t, e.commentRepo.Create(context.Background(), comment))
	return comment
}

func (e *testEnv) countPosts(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.Post{}).Count(&count).Error)
	return count
}

func (e *testEnv) countComments(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.Comment{}).Count(&count).Error)
	return count
}
