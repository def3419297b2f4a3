// Package httpapi wires the chi router for the wallpaper service.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"linewall/internal/catalog"
	"linewall/internal/httpapi/handlers"
	"linewall/internal/httpkit"
	"linewall/internal/pkg/logger"
	"linewall/internal/pkg/middleware"
	"linewall/internal/ports"
)

type Deps struct {
	Pool      *pgxpool.Pool
	RDB       *redis.Client
	Pipeline  handlers.Orchestrator
	Publisher handlers.AssetPublisher
	Catalog   *catalog.Catalog
	Users     handlers.UserStore
	OTPRepo   handlers.OTPStore
	OTP       ports.OTPProvider
	Limiter   handlers.SendLimiter
	Store     ports.ObjectStore
	Log       *logger.Logger

	CORSAllowedOrigins []string

	// LocalObjectRoot, when set, serves published localfs objects under
	// /objects/ so development deployments have a working public URL.
	LocalObjectRoot string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logging(d.Log))

	allowedOrigins := d.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Pool:      d.Pool,
		RDB:       d.RDB,
		Pipeline:  d.Pipeline,
		Publisher: d.Publisher,
		Catalog:   d.Catalog,
		Users:     d.Users,
		OTPRepo:   d.OTPRepo,
		OTP:       d.OTP,
		Limiter:   d.Limiter,
		Store:     d.Store,
		Log:       d.Log,
	})

	r.Get("/health", h.Health)

	r.Post("/generate", h.PostGenerate)
	r.Post("/publish", h.PostPublish)
	r.Post("/push", h.PostPush)

	r.Get("/templates", h.ListTemplates)

	r.Post("/users", h.PostUser)
	r.Get("/users/{lineUserID}", h.GetUser)

	r.Post("/otp/send", h.PostSendOTP)
	r.Post("/otp/verify", h.PostVerifyOTP)

	if d.LocalObjectRoot != "" {
		fs := http.StripPrefix("/objects/", http.FileServer(http.Dir(d.LocalObjectRoot)))
		r.Get("/objects/*", fs.ServeHTTP)
	}

	return r
}
