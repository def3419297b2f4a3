// Package handlers implements the wallpaper service HTTP endpoints.
package handlers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"linewall/internal/catalog"
	"linewall/internal/models"
	"linewall/internal/pipeline"
	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

// Orchestrator is the pipeline surface the handlers call.
type Orchestrator interface {
	Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.Result, error)
	Resend(ctx context.Context, recipientID, imageURL string) error
}

// AssetPublisher uploads raw bytes on behalf of the publish endpoint.
type AssetPublisher interface {
	Publish(ctx context.Context, data []byte, contentType, namingHint string) (ports.PublishedAsset, error)
}

// UserStore persists LINE user profiles.
type UserStore interface {
	Save(ctx context.Context, u *models.User) error
	GetByLineUUID(ctx context.Context, lineUUID string) (*models.User, error)
}

// OTPStore persists issued phone verification challenges.
type OTPStore interface {
	Create(ctx context.Context, phoneNumber, token, refCode string) (*models.OTPVerification, error)
	GetPending(ctx context.Context, phoneNumber string) (*models.OTPVerification, error)
	MarkVerified(ctx context.Context, id int64) error
}

// SendLimiter throttles OTP sends per phone number.
type SendLimiter interface {
	AllowSend(ctx context.Context, phoneNumber string) (bool, time.Duration, error)
}

type Deps struct {
	Pool      *pgxpool.Pool
	RDB       *redis.Client
	Pipeline  Orchestrator
	Publisher AssetPublisher
	Catalog   *catalog.Catalog
	Users     UserStore
	OTPRepo   OTPStore
	OTP       ports.OTPProvider
	Limiter   SendLimiter
	Store     ports.ObjectStore
	Log       *logger.Logger
}

type Handler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	pipeline  Orchestrator
	publisher AssetPublisher
	catalog   *catalog.Catalog
	users     UserStore
	otpRepo   OTPStore
	otp       ports.OTPProvider
	limiter   SendLimiter
	store     ports.ObjectStore
	log       *logger.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		pool:      d.Pool,
		rdb:       d.RDB,
		pipeline:  d.Pipeline,
		publisher: d.Publisher,
		catalog:   d.Catalog,
		users:     d.Users,
		otpRepo:   d.OTPRepo,
		otp:       d.OTP,
		limiter:   d.Limiter,
		store:     d.Store,
		log:       d.Log,
	}
}
