package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/reverbhq/reverb/internal/config"
	"github.com/reverbhq/reverb/internal/handler"
	"github.com/reverbhq/reverb/internal/middleware"
	"github.com/reverbhq/reverb/internal/model"
	"github.com/reverbhq/reverb/internal/repository"
	"github.com/reverbhq/reverb/internal/service"
	"github.com/reverbhq/reverb/pkg/database"
	"github.com/reverbhq/reverb/pkg/storage"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage disabled: %v", err)
		imageStorage = nil
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	searchSvc := service.NewSearchService(meiliClient)
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	likeSvc := service.NewLikeService(redisClient, likeRepo, postRepo, commentRepo, notificationSvc)
	postSvc := service.NewPostService(postRepo, followRepo, likeSvc, searchSvc, redisClient, cfg)
	repostSvc := service.NewRepostService(postRepo, commentRepo, userRepo, likeSvc, searchSvc, notificationSvc)
	commentSvc := service.NewCommentService(commentRepo, postRepo, likeSvc, notificationSvc)
	followSvc := service.NewFollowService(followRepo, userRepo, notificationSvc)
	authSvc := service.NewAuthService(userRepo, imageStorage)
	profileSvc := service.NewProfileService(userRepo, followRepo, imageStorage)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	postHandler := handler.NewPostHandler(postSvc)
	repostHandler := handler.NewRepostHandler(repostSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	likeHandler := handler.NewLikeHandler(likeSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	// Background notification fan-out
	if redisClient != nil {
		go notificationSvc.StartWorker(context.Background())
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg.AllowedOrigins)

	ipLimiter := middleware.NewIPRateLimiter(rate.Limit(10), 20)
	router.Use(middleware.RateLimit(ipLimiter))

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/posts/search", postHandler.SearchPosts)
		public.GET("/posts/:id", postHandler.GetPost)
		public.GET("/posts/:id/comments", commentHandler.GetComments)
		public.GET("/comments/:id/replies", commentHandler.GetReplies)
		public.GET("/users/:id/posts", postHandler.GetUserPosts)
		public.GET("/users/:id/likes", postHandler.GetLikedPosts)
		public.GET("/users/:id/reposts", postHandler.GetRepostedPosts)
		public.GET("/profiles/:username", profileHandler.GetProfile)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/feed", postHandler.GetFeed)

		protected.POST("/posts", postHandler.CreatePost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)
		protected.GET("/posts/:id/repost-status", repostHandler.GetRepostStatus)

		protected.POST("/reposts", repostHandler.CreateRepost)
		protected.DELETE("/reposts", repostHandler.UndoRepost)
		protected.POST("/quotes", repostHandler.CreateQuote)
		protected.DELETE("/quotes", repostHandler.UndoQuote)
		protected.POST("/comment-reposts", repostHandler.CreateCommentRepost)

		protected.POST("/posts/:id/comments", commentHandler.CreateComment)
		protected.POST("/comments/:id/replies", commentHandler.CreateReply)
		protected.PUT("/comments/:id", commentHandler.UpdateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		protected.POST("/posts/:id/like", likeHandler.LikePost)
		protected.DELETE("/posts/:id/like", likeHandler.UnlikePost)
		protected.GET("/posts/:id/like", likeHandler.CheckPostLike)
		protected.POST("/comments/:id/like", likeHandler.LikeComment)
		protected.DELETE("/comments/:id/like", likeHandler.UnlikeComment)
		protected.GET("/comments/:id/like", likeHandler.CheckCommentLike)

		protected.POST("/users/:id/follow", followHandler.Follow)
		protected.DELETE("/users/:id/follow", followHandler.Unfollow)
		protected.GET("/users/:id/follow", followHandler.CheckFollowing)

		protected.PUT("/profile", profileHandler.UpdateProfile)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.CommentLike{},
		&model.Follow{},
		&model.Notification{},
	)
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, redis features disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, continuing without it: %v", err)
		return nil
	}

	return client
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
