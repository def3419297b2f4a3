// Package queue holds the redis-backed resend queue for failed wallpaper
// deliveries.
package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"linewall/internal/pkg/errors"
)

// ResendJob is one pending chat delivery retry.
type ResendJob struct {
	RecipientID string `json:"recipientId"`
	ImageURL    string `json:"imageUrl"`
	Attempts    int    `json:"attempts"`
}

// RedisQueue pushes and pops resend jobs on a redis list.
type RedisQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName}
}

// EnqueueResend queues a first delivery attempt for a published wallpaper.
func (q *RedisQueue) EnqueueResend(ctx context.Context, recipientID, imageURL string) error {
	return q.Push(ctx, ResendJob{RecipientID: recipientID, ImageURL: imageURL})
}

// Push queues a job, preserving its attempt count.
func (q *RedisQueue) Push(ctx context.Context, job ResendJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "queue.Push", "marshal resend job")
	}
	if err := q.rdb.LPush(ctx, q.queueName, payload).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "queue.Push", "enqueue resend job")
	}
	return nil
}

// Pop blocks until a job is available (BRPOP).
func (q *RedisQueue) Pop(ctx context.Context) (*ResendJob, error) {
	res, err := q.rdb.BRPop(ctx, 0, q.queueName).Result()
	if err != nil {
		return nil, err
	}
	if len(res) < 2 {
		return nil, nil
	}
	var job ResendJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, errors.Wrap(err, "queue.Pop", "decode resend job")
	}
	return &job, nil
}
