package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/handler"
	"socialnet/internal/queue"
	"socialnet/internal/redis"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	authmw "socialnet/internal/transport/http/middleware"
	"socialnet/internal/worker"
)

// Run wires every layer together and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	followRepo := repository.NewFollowRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Redis-backed infrastructure
	storyCache := cache.NewStoryCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to init media service: %w", err)
	}
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	followService := service.NewFollowService(followRepo, userRepo, db)
	friendshipService := service.NewFriendshipService(friendshipRepo, userRepo)
	postService := service.NewPostService(postRepo, db, mediaService)
	commentService := service.NewCommentService(commentRepo, postRepo, db)
	groupService := service.NewGroupService(groupRepo)
	storyService := service.NewStoryService(storyRepo, storyCache, publisher,
		mediaService, time.Duration(cfg.StoryTTLHours)*time.Hour)
	photoService := service.NewPhotoService(photoRepo, mediaService)

	// Background workers: story event consumers + expiry sweeper
	workerHandler := worker.NewHandler(storyCache)
	managerCfg := worker.DefaultManagerConfig()
	managerCfg.WorkerCount = cfg.WorkerCount
	manager := worker.NewManager(consumer, workerHandler, storyCache, storyRepo, managerCfg)
	if err := manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// HTTP layer
	router := NewRouter(RouterConfig{
		AuthHandler:       handler.NewAuthHandler(userService, authService),
		UserHandler:       handler.NewUserHandler(userService),
		FollowHandler:     handler.NewFollowHandler(followService),
		FriendshipHandler: handler.NewFriendshipHandler(friendshipService),
		PostHandler:       handler.NewPostHandler(postService, mediaService),
		CommentHandler:    handler.NewCommentHandler(commentService),
		GroupHandler:      handler.NewGroupHandler(groupService),
		StoryHandler:      handler.NewStoryHandler(storyService, mediaService),
		PhotoHandler:      handler.NewPhotoHandler(photoService, mediaService),
		RateLimiter:       authmw.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		JWTSecret:         cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("[Server] Stopped cleanly")
	return nil
}
