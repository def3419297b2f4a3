// Package cache provides the redis-backed OTP send limiter.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// otpSendPrefix is the redis key prefix for per-phone OTP send counts.
const otpSendPrefix = "otp:sends:"

// Limiter throttles OTP sends per phone number over a fixed window.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLimiter creates a Limiter allowing limit sends per window.
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// fixedWindowScript counts the send and sets the window expiry on the
// first hit, atomically.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if count > limit then
		return {0, ttl}
	end
	return {1, ttl}
`)

// AllowSend reports whether another OTP may be sent to the phone number
// and, when denied, how long until the window resets. Redis failures
// fail open so a cache outage never blocks verification.
func (l *Limiter) AllowSend(ctx context.Context, phoneNumber string) (bool, time.Duration, error) {
	key := otpSendPrefix + hashPhone(phoneNumber)

	result, err := fixedWindowScript.Run(ctx, l.client,
		[]string{key},
		l.limit, int(l.window.Seconds()),
	).Int64Slice()
	if err != nil {
		return true, 0, nil
	}

	allowed := result[0] == 1
	retryAfter := time.Duration(result[1]) * time.Second
	if allowed {
		retryAfter = 0
	}
	return allowed, retryAfter, nil
}

// hashPhone keeps raw phone numbers out of redis keys.
func hashPhone(phone string) string {
	hash := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(hash[:8])
}
