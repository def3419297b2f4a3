package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"linewall/internal/config"
	"linewall/internal/line"
	"linewall/internal/pkg/logger"
	"linewall/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().LogFatal("failed to load configuration", err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "linewall-worker",
	})

	log.Info("starting linewall delivery worker",
		"queue", cfg.Resend.QueueName,
		"max_attempts", cfg.Resend.MaxAttempts,
	)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.LogFatal("failed to ping Redis", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := worker.Deps{
		RDB:         rdb,
		Pusher:      line.New(cfg.Line, log),
		QueueName:   cfg.Resend.QueueName,
		MaxAttempts: cfg.Resend.MaxAttempts,
		Log:         log,
	}

	if err := worker.Run(ctx, deps); err != nil && err != context.Canceled {
		log.LogFatal("worker stopped", err)
	}
	log.Info("worker stopped")
}
