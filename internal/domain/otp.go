package domain

import (
	"context"
	"time"
)

// OTPResult is the outcome of verifying a one-time code.
type OTPResult int

const (
	OTPInvalid OTPResult = iota
	OTPValid
	OTPExpired
)

// String returns the lowercase name of the result.
func (r OTPResult) String() string {
	switch r {
	case OTPValid:
		return "valid"
	case OTPExpired:
		return "expired"
	}
	return "invalid"
}

// OTPRepository stores at most one pending code per user. Codes are stored
// hashed; issuing a new code replaces any pending one.
type OTPRepository interface {
	Upsert(ctx context.Context, userID, codeHash string, expiresAt time.Time) error
	Get(ctx context.Context, userID string) (codeHash string, expiresAt time.Time, err error)
	Delete(ctx context.Context, userID string) error
}

// OTPEmailData holds data for the one-time code email.
type OTPEmailData struct {
	Email            string
	Name             string
	Code             string
	ExpiresInMinutes int
}

// NotificationService issues and verifies one-time codes for a user. The code
// is delivered out of band (email) and acts as a lightweight identity check
// before a paid registration is finalized.
type NotificationService interface {
	IssueOTP(ctx context.Context, userID string) error
	// VerifyOTP consumes the pending code on OTPValid and OTPExpired; a
	// mismatched code is retained so the user may retry.
	VerifyOTP(ctx context.Context, userID, code string) (OTPResult, error)
}
