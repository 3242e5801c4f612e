package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/gcolon75/Project-Valine-sub011/internal/auth"
	"github.com/gcolon75/Project-Valine-sub011/internal/cache"
	"github.com/gcolon75/Project-Valine-sub011/internal/config"
	"github.com/gcolon75/Project-Valine-sub011/internal/email"
	"github.com/gcolon75/Project-Valine-sub011/internal/handlers"
	"github.com/gcolon75/Project-Valine-sub011/internal/kafka"
	"github.com/gcolon75/Project-Valine-sub011/internal/logger"
	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
	"github.com/gcolon75/Project-Valine-sub011/internal/routes"
	"github.com/gcolon75/Project-Valine-sub011/internal/service"
	"github.com/gcolon75/Project-Valine-sub011/internal/storage"
	"github.com/gcolon75/Project-Valine-sub011/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("JOINT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Development: cfg.App.Env != "production",
		Level:       cfg.Log.Level,
	})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	mc, err := repository.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	rdb, err := cache.New(cfg)
	if err != nil {
		zlog.Fatalw("redis init", "err", err)
	}
	defer rdb.Close()

	store, err := storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
	if err != nil {
		zlog.Fatalw("s3 init", "err", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, zlog)

	userRepo := repository.NewUserRepo(db.Collection("users"))
	threadRepo := repository.NewThreadRepo(db.Collection("threads"))
	messageRepo := repository.NewMessageRepo(db.Collection("messages"))
	postRepo := repository.NewPostRepo(db.Collection("posts"))
	markRepo := repository.NewMarkRepo(db.Collection("post_marks"))
	commentRepo := repository.NewCommentRepo(db.Collection("comments"))
	mediaRepo := repository.NewMediaRepo(db.Collection("media"))
	accessRepo := repository.NewAccessRepo(db.Collection("access_requests"))
	followRepo := repository.NewFollowRepo(db.Collection("follows"))
	notifRepo := repository.NewNotificationRepo(db.Collection("notifications"))

	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessMinutes, cfg.JWT.RefreshDays)
	mailer := email.NewClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.Sender, zlog)
	hub := ws.NewHub()

	authSvc := service.NewAuthService(userRepo, rdb, mailer, jwtMgr,
		cfg.JWT.VerifyCodeTTLDuration(), cfg.JWT.AuthRatePerHr, zlog)
	threadSvc := service.NewThreadService(threadRepo, messageRepo, userRepo, producer, zlog)
	postSvc := service.NewPostService(postRepo, markRepo, followRepo, accessRepo, producer, zlog)
	commentSvc := service.NewCommentService(commentRepo, postRepo, producer, zlog)
	mediaSvc := service.NewMediaService(mediaRepo, postRepo, accessRepo, store, rdb, postSvc, producer,
		cfg.PresignTTL, zlog)
	profileSvc := service.NewProfileService(userRepo, followRepo, producer, zlog)
	notifSvc := service.NewNotificationService(notifRepo, hub, zlog)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go consumer.Run(consumerCtx, notifSvc.HandleEvent)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             service.MaxUploadBytes + 1024*1024,
	})
	routes.Register(app, routes.Deps{
		Auth:          handlers.NewAuthHandler(authSvc),
		Threads:       handlers.NewThreadHandler(threadSvc),
		Posts:         handlers.NewPostHandler(postSvc),
		Comments:      handlers.NewCommentHandler(commentSvc),
		Media:         handlers.NewMediaHandler(mediaSvc),
		Profiles:      handlers.NewProfileHandler(profileSvc),
		Notifications: handlers.NewNotificationHandler(notifSvc),
		JWT:           jwtMgr,
		Hub:           hub,
		IPLimiter:     middleware.NewIPRateLimiter(cfg.JWT.IPRatePerMin, zlog),
		Log:           zlog,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	go func() {
		zlog.Infow("joint-server starting", "addr", addr, "env", cfg.App.Env)
		if err := app.Listen(addr); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	stopConsumer()
	_ = producer.Close()
	_ = consumer.Close()
	zlog.Info("joint-server stopped")
}
