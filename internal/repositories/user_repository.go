package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"linewall/internal/httpkit"
	"linewall/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Save upserts the user keyed by LINE UUID so re-registering from the
// chat refreshes the profile instead of failing.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO users (line_uuid, title, first_name, last_name, gender, date_of_birth, email, phone_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (line_uuid)
		DO UPDATE SET
			title = $2,
			first_name = $3,
			last_name = $4,
			gender = $5,
			date_of_birth = $6,
			email = $7,
			phone_number = $8,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`, u.LineUUID, u.Title, u.FirstName, u.LastName, u.Gender, u.DateOfBirth, u.Email, u.PhoneNumber).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByLineUUID(ctx context.Context, lineUUID string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, line_uuid, title, first_name, last_name, gender, date_of_birth, email, phone_number, created_at, updated_at
		FROM users
		WHERE line_uuid = $1
	`, lineUUID).Scan(
		&u.ID,
		&u.LineUUID,
		&u.Title,
		&u.FirstName,
		&u.LastName,
		&u.Gender,
		&u.DateOfBirth,
		&u.Email,
		&u.PhoneNumber,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if httpkit.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
