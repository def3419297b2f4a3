package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"linewall/internal/httpkit"
	"linewall/internal/models"
)

var ErrOTPNotFound = errors.New("otp not found or expired")

const otpTTL = 5 * time.Minute

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create stores a freshly issued challenge token for the phone number.
func (r *OTPRepository) Create(ctx context.Context, phoneNumber, token, refCode string) (*models.OTPVerification, error) {
	var v models.OTPVerification
	err := r.db.QueryRow(ctx, `
		INSERT INTO otp_verifications (phone_number, otp_token, ref_code, expires_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id, phone_number, otp_token, ref_code, expires_at, verified, created_at
	`, phoneNumber, token, refCode, time.Now().Add(otpTTL)).Scan(
		&v.ID,
		&v.PhoneNumber,
		&v.Token,
		&v.RefCode,
		&v.ExpiresAt,
		&v.Verified,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetPending returns the latest unverified, unexpired challenge for the
// phone number.
func (r *OTPRepository) GetPending(ctx context.Context, phoneNumber string) (*models.OTPVerification, error) {
	var v models.OTPVerification
	err := r.db.QueryRow(ctx, `
		SELECT id, phone_number, otp_token, ref_code, expires_at, verified, created_at
		FROM otp_verifications
		WHERE phone_number = $1
		AND expires_at > NOW()
		AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, phoneNumber).Scan(
		&v.ID,
		&v.PhoneNumber,
		&v.Token,
		&v.RefCode,
		&v.ExpiresAt,
		&v.Verified,
		&v.CreatedAt,
	)
	if err != nil {
		if httpkit.IsNoRows(err) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *OTPRepository) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE otp_verifications SET verified = TRUE WHERE id = $1
	`, id)
	return err
}
