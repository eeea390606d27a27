package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campusevents/internal/domain"
)

type otpRepository struct {
	DB *sql.DB
}

// NewOTPRepository returns a domain.OTPRepository implemented with Postgres.
func NewOTPRepository(db *sql.DB) domain.OTPRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Upsert(ctx context.Context, userID, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO otp_codes (user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, userID, codeHash, expiresAt)
	return err
}

func (r *otpRepository) Get(ctx context.Context, userID string) (string, time.Time, error) {
	var codeHash string
	var expiresAt time.Time
	query := `SELECT code_hash, expires_at FROM otp_codes WHERE user_id = $1`
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&codeHash, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, domain.ErrNotFound
		}
		return "", time.Time{}, err
	}
	return codeHash, expiresAt, nil
}

func (r *otpRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM otp_codes WHERE user_id = $1`, userID)
	return err
}
