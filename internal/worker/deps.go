package worker

import (
	"github.com/redis/go-redis/v9"

	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

type Deps struct {
	RDB         *redis.Client
	Pusher      ports.Pusher
	QueueName   string
	MaxAttempts int
	Log         *logger.Logger
}
