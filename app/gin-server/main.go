package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rozgar/jobportal/config"
	"github.com/rozgar/jobportal/internal/api/handlers"
	"github.com/rozgar/jobportal/internal/api/middleware"
	"github.com/rozgar/jobportal/internal/api/routes"
	"github.com/rozgar/jobportal/internal/cache"
	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/logger"
	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	pgrepo "github.com/rozgar/jobportal/internal/repositories/postgres"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel)

	// Init MongoDB
	if err := config.InitMongo(cfg.MongoURI); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	db := config.MongoDatabase(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(db); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.WithField("db", cfg.MongoDB).Info("MongoDB connected")

	// Init PostgreSQL (application history)
	var audit pgrepo.ApplicationEventRepository
	if cfg.PostgresURI != "" {
		if err := config.InitPostgres(cfg.PostgresURI); err != nil {
			log.WithError(err).Fatal("PostgreSQL init error")
		}
		audit = pgrepo.NewApplicationEventRepo(config.PostgresDB)
		log.Info("PostgreSQL connected")
	} else {
		log.Warn("POSTGRES_URI not set; application history disabled")
	}

	// Init Redis (cache, live feed, fan-out stream)
	var (
		c           cache.Cache = cache.Noop{}
		broadcaster services.Broadcaster
	)
	if cfg.RedisAddr != "" {
		if err := config.InitRedis(cfg.RedisAddr); err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		c = cache.NewRedisCache(config.RedisClient)
		broadcaster = services.NewRedisBroadcaster(config.RedisClient)
		log.Info("Redis connected")
	}

	// Init GCS (resumes)
	var files storage.Store = storage.Disabled{}
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		files = gcs
	} else {
		log.Warn("GCS_BUCKET not set; resume upload disabled")
	}

	users := mongorepo.NewUserRepo(db)
	jobs := mongorepo.NewJobRepo(db)
	apps := mongorepo.NewApplicationRepo(db)
	notifs := mongorepo.NewNotificationRepo(db)

	notifSvc := services.NewNotificationService(notifs, users, c, broadcaster, log, cfg.FanoutConcurrency)

	var pub events.Publisher
	switch cfg.FanoutMode {
	case config.FanoutStream:
		pub = events.NewRedisStreamPublisher(config.RedisClient)
	default:
		pub = events.NewInlinePublisher(notifSvc)
	}
	log.WithField("mode", cfg.FanoutMode).Info("job posted fan-out")

	authSvc := services.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := services.NewUserService(users, files, log)
	jobSvc := services.NewJobService(jobs, c, pub, log)
	appSvc := services.NewApplicationService(apps, jobs, users, audit, notifSvc,
		models.TransitionPolicyFor(cfg.StrictTransitions), log)

	gin.SetMode(envGinMode())
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:    cfg.JWTSecret,
		Users:        users,
		Auth:         handlers.NewAuthHandler(authSvc),
		User:         handlers.NewUserHandler(userSvc),
		Job:          handlers.NewJobHandler(jobSvc),
		Application:  handlers.NewApplicationHandler(appSvc),
		Notification: handlers.NewNotificationHandler(notifSvc),
		WS:           handlers.NewWSHandler(config.RedisClient, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := config.CloseMongo(ctx); err != nil {
		log.WithError(err).Error("mongo disconnect")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
}

func envGinMode() string {
	if m := os.Getenv("GIN_MODE"); m != "" {
		return m
	}
	return gin.ReleaseMode
}
