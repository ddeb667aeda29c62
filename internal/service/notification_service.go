package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
)

const notificationQueueKey = "notification_queue"

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	// Enqueue hands the notification to the background worker so the
	// calling mutation stays synchronous. Falls back to a direct write
	// when redis is not configured.
	Enqueue(ctx context.Context, notification *model.Notification)
	GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(userID, id uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
	StartWorker(ctx context.Context)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) Enqueue(ctx context.Context, notification *model.Notification) {
	if s.redisClient == nil {
		if err := s.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to create notification: %v", err)
		}
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		log.Printf("failed to marshal notification: %v", err)
		return
	}
	if err := s.redisClient.RPush(ctx, notificationQueueKey, payload).Err(); err != nil {
		log.Printf("failed to enqueue notification, writing directly: %v", err)
		if err := s.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to create notification: %v", err)
		}
	}
}

func (s *notificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(userID, limit, offset)
}

func (s *notificationService) MarkAsRead(userID, id uuid.UUID) error {
	return s.repo.MarkAsRead(userID, id)
}

func (s *notificationService) MarkAllAsRead(userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(userID)
}

// StartWorker drains the notification queue. Run it in its own goroutine;
// it returns when the context is cancelled.
func (s *notificationService) StartWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	log.Println("notification worker started")
	for {
		// BLPOP with 0 timeout blocks until an item is available
		res, err := s.redisClient.BLPop(ctx, 0, notificationQueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("redis BLPOP error: %v, retrying in 1s...", err)
			time.Sleep(1 * time.Second)
			continue
		}

		// res[0] is key, res[1] is value
		if len(res) < 2 {
			continue
		}

		var notification model.Notification
		if err := json.Unmarshal([]byte(res[1]), &notification); err != nil {
			log.Printf("invalid notification payload: %v", err)
			continue
		}

		if err := s.CreateNotification(ctx, &notification); err != nil {
			log.Printf("failed to persist notification %+v: %v", notification, err)
		}
	}
}
