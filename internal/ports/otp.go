package ports

import (
	"context"
	"time"
)

// OTPChallenge is the provider handle for a pending verification.
type OTPChallenge struct {
	Token     string
	RefCode   string
	ExpiresAt time.Time
}

// OTPProvider is the SMS one-time-password contract. Anything beyond
// request/verify (campaigns, credits, sender ids) is out of scope.
type OTPProvider interface {
	Request(ctx context.Context, phoneNumber string) (OTPChallenge, error)
	Verify(ctx context.Context, token, pin string) (bool, error)
}
