package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rozgar/jobportal/config"
	"github.com/rozgar/jobportal/internal/cache"
	"github.com/rozgar/jobportal/internal/logger"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/workers"
)

// notify-worker consumes the job posted stream and writes per-worker
// notifications. It is only needed with NOTIFY_FANOUT_MODE=stream.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Fatal("notify-worker requires REDIS_ADDR")
	}
	if cfg.FanoutMode != config.FanoutStream {
		log.WithField("mode", cfg.FanoutMode).Warn("API is not publishing to the stream; worker will sit idle")
	}

	if err := config.InitMongo(cfg.MongoURI); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	db := config.MongoDatabase(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(db); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	if err := config.InitRedis(cfg.RedisAddr); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}

	notifSvc := services.NewNotificationService(
		mongorepo.NewNotificationRepo(db),
		mongorepo.NewUserRepo(db),
		cache.NewRedisCache(config.RedisClient),
		services.NewRedisBroadcaster(config.RedisClient),
		log,
		cfg.FanoutConcurrency,
	)

	host, _ := os.Hostname()
	if host == "" {
		host = "notify"
	}
	pool := &workers.JobPostedPool{
		Redis:          config.RedisClient,
		Handler:        notifSvc,
		NumWorkers:     cfg.FanoutWorkers,
		Logger:         log,
		ConsumerPrefix: host,
		ReclaimIdle:    cfg.ReclaimIdle,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("worker pool")
	}
	sched := workers.NewReclaimScheduler(pool, log, "@every 1m")
	if err := sched.Start(ctx); err != nil {
		log.WithError(err).Fatal("reclaim scheduler")
	}
	log.WithField("workers", cfg.FanoutWorkers).Info("notify-worker running")

	<-ctx.Done()
	log.Info("shutting down")

	sched.Stop()
	pool.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = config.CloseMongo(shutdownCtx)
	_ = config.RedisClient.Close()
}
