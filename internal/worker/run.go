// Package worker drains the resend queue and retries failed chat
// deliveries.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
	"linewall/internal/worker/queue"
)

const defaultMaxAttempts = 3

func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("worker")

	maxAttempts := d.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	q := queue.NewRedisQueue(d.RDB, d.QueueName)

	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		// Bound each blocking pop so shutdown is never stuck on BRPOP.
		popCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		job, err := q.Pop(popCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}
			// An expired pop deadline just means the queue stayed
			// empty for the whole window.
			if emptyPoll(err) {
				continue
			}
			log.Warn("queue pop error, retrying",
				"error", err.Error(),
			)
			time.Sleep(1 * time.Second)
			continue
		}

		if job == nil {
			continue
		}

		deliveryID := uuid.NewString()
		jobCtx := logger.ContextWithDeliveryID(ctx, deliveryID)
		jobLog := log.WithDeliveryID(deliveryID)

		jobLog.Info("retrying delivery",
			"recipient", job.RecipientID,
			"attempt", job.Attempts+1,
		)
		startTime := time.Now()

		if err := deliver(jobCtx, d, q, job, maxAttempts, jobLog); err != nil {
			jobLog.Error("delivery retry failed",
				"error", err.Error(),
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		} else {
			jobLog.Info("delivery retry completed",
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		}
	}
}

type requeuer interface {
	Push(ctx context.Context, job queue.ResendJob) error
}

// emptyPoll reports whether a pop error only means no job arrived
// within the bounded BRPOP window.
func emptyPoll(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil)
}

// deliver pushes one queued wallpaper and requeues on delivery failure
// until the attempt budget is spent. Validation failures are dropped,
// retrying them cannot succeed.
func deliver(ctx context.Context, d Deps, q requeuer, job *queue.ResendJob, maxAttempts int, log *logger.Logger) error {
	err := d.Pusher.PushImage(ctx, job.RecipientID, job.ImageURL, "")
	if err == nil {
		return nil
	}

	if errors.IsValidation(err) || errors.GetCode(err) == errors.CodeNotConfigured {
		log.Warn("dropping undeliverable job",
			"recipient", job.RecipientID,
			"error", err.Error(),
		)
		return err
	}

	job.Attempts++
	if job.Attempts >= maxAttempts {
		log.Warn("delivery abandoned after max attempts",
			"recipient", job.RecipientID,
			"attempts", job.Attempts,
		)
		return err
	}

	if pushErr := q.Push(ctx, *job); pushErr != nil {
		log.Error("requeue failed", "error", pushErr.Error())
	}
	return err
}
