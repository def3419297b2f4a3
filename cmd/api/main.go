package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"linewall/internal/cache"
	"linewall/internal/catalog"
	"linewall/internal/compositor"
	"linewall/internal/config"
	"linewall/internal/httpapi"
	"linewall/internal/line"
	"linewall/internal/otp"
	"linewall/internal/pipeline"
	"linewall/internal/pkg/logger"
	"linewall/internal/pkg/shutdown"
	"linewall/internal/publisher"
	"linewall/internal/repositories"
	"linewall/internal/storage"
	"linewall/internal/worker/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().LogFatal("failed to load configuration", err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "linewall-api",
	})

	log.Info("starting linewall API",
		"version", "0.1.0",
		"env", cfg.AppEnv,
	)

	ctx := context.Background()

	shutdownMgr := shutdown.NewManager(log, cfg.ShutdownTimeout)

	log.Info("connecting to PostgreSQL")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.LogFatal("failed to connect to PostgreSQL", err)
	}
	shutdownMgr.RegisterSimple("postgres", pool.Close)

	if err := pool.Ping(ctx); err != nil {
		log.LogFatal("failed to ping PostgreSQL", err)
	}
	log.Info("PostgreSQL connected")

	log.Info("connecting to Redis")
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownMgr.Register("redis", func(ctx context.Context) error {
		return rdb.Close()
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.LogFatal("failed to ping Redis", err)
	}
	log.Info("Redis connected")

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		log.LogFatal("failed to initialize object store", err)
	}
	log.Info("object store initialized", "provider", store.Provider())

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		log.LogFatal("failed to load template catalog", err)
	}
	log.Info("template catalog loaded", "templates", cat.Len())

	renderer := compositor.New(cfg.Catalog.TemplateDir, cfg.Catalog.FontPath, log)
	pub := publisher.New(store, log)
	pusher := line.New(cfg.Line, log)
	resendQueue := queue.NewRedisQueue(rdb, cfg.Resend.QueueName)
	downloads := repositories.NewDownloadRepository(pool)

	pipe := pipeline.New(pipeline.Deps{
		Catalog:   cat,
		Renderer:  renderer,
		Publisher: pub,
		Pusher:    pusher,
		Resend:    resendQueue,
		Downloads: downloads,
		Log:       log,
	})

	var localRoot string
	if cfg.Storage.Provider == "localfs" {
		localRoot = cfg.Storage.LocalRoot
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Pool:      pool,
		RDB:       rdb,
		Pipeline:  pipe,
		Publisher: pub,
		Catalog:   cat,
		Users:     repositories.NewUserRepository(pool),
		OTPRepo:   repositories.NewOTPRepository(pool),
		OTP:       otp.New(cfg.OTP, log),
		Limiter:   cache.NewLimiter(rdb, cfg.OTP.SendsPerWindow, cfg.OTP.SendWindow),
		Store:     store,
		Log:       log,

		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		LocalObjectRoot:    localRoot,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", cfg.HTTPPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
