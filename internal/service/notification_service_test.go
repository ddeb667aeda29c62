package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/pkg/apperror"
)

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewNotificationService(repository.NewNotificationRepository(env.db), nil)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	notification := &model.Notification{
		UserID:     alice.ID,
		ActorID:    bob.ID,
		EntityID:   alice.ID,
		EntityType: "user",
		Type:       "follow",
		Message:    "Someone followed you",
	}
	require.NoError(t, svc.CreateNotification(ctx, notification))

	t.Run("other users cannot mark it read", func(t *testing.T) {
		err := svc.MarkAsRead(bob.ID, notification.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		unread, err := svc.UnreadCount(alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, unread)
	})

	t.Run("owner marks it read", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(alice.ID, notification.ID))

		unread, err := svc.UnreadCount(alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, unread)
	})
}
