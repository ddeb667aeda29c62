package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reverbhq/reverb/internal/dto"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.userRepo, nil)

	t.Run("register returns token and sanitized user", func(t *testing.T) {
		resp, err := svc.Register(ctx, dto.RegisterInput{
			Username:    "carol",
			Email:       "carol@example.com",
			Password:    "s3cretpass",
			DisplayName: "Carol",
		}, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "carol", resp.User.Username)
		assert.Empty(t, resp.User.PasswordHash)

		claims := &jwt.RegisteredClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(resp.AccessToken, claims)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID.String(), claims.Subject)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, dto.RegisterInput{
			Username:    "carol2",
			Email:       "carol@example.com",
			Password:    "s3cretpass",
			DisplayName: "Carol Two",
		}, nil)
		assert.EqualError(t, err, "email already registered")
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, dto.RegisterInput{
			Username:    "carol",
			Email:       "other@example.com",
			Password:    "s3cretpass",
			DisplayName: "Other Carol",
		}, nil)
		assert.EqualError(t, err, "username already taken")
	})

	t.Run("login with correct password", func(t *testing.T) {
		resp, err := svc.Login(ctx, dto.LoginInput{Email: "carol@example.com", Password: "s3cretpass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "carol", resp.User.Username)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginInput{Email: "carol@example.com", Password: "wrong"})
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "s3cretpass"})
		assert.EqualError(t, err, "invalid credentials")
	})
}
