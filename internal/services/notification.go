package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/domain"
)

const (
	otpDigits     = 6
	otpExpiryMins = 10
)

var otpCodeRegexp = regexp.MustCompile(`^\d{6}$`)

type notificationService struct {
	otpRepo      domain.OTPRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	now          func() time.Time
}

// NewNotificationService creates a NotificationService that stores hashed
// codes and delivers them by email.
func NewNotificationService(otpRepo domain.OTPRepository, userRepo domain.UserRepository, emailService domain.EmailService) domain.NotificationService {
	return &notificationService{
		otpRepo:      otpRepo,
		userRepo:     userRepo,
		emailService: emailService,
		now:          time.Now,
	}
}

func (s *notificationService) IssueOTP(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := generateOTPCode(otpDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiresAt := s.now().Add(otpExpiryMins * time.Minute)

	// Replaces any pending code for the user.
	if err := s.otpRepo.Upsert(ctx, userID, hashOTPCode(code), expiresAt); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}

	if s.emailService != nil {
		data := &domain.OTPEmailData{
			Email:            user.Email,
			Name:             user.Name,
			Code:             code,
			ExpiresInMinutes: otpExpiryMins,
		}
		if err := s.emailService.SendOTPCode(ctx, data); err != nil {
			return fmt.Errorf("send otp email: %w", err)
		}
	}
	return nil
}

func (s *notificationService) VerifyOTP(ctx context.Context, userID, code string) (domain.OTPResult, error) {
	code = strings.TrimSpace(code)
	if !otpCodeRegexp.MatchString(code) {
		return domain.OTPInvalid, nil
	}

	storedHash, expiresAt, err := s.otpRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OTPInvalid, nil
		}
		return domain.OTPInvalid, fmt.Errorf("get otp code: %w", err)
	}

	if !s.now().Before(expiresAt) {
		// An expired code with the correct value must report expired, not
		// valid or invalid. The stale code is cleared either way.
		if err := s.otpRepo.Delete(ctx, userID); err != nil {
			return domain.OTPInvalid, fmt.Errorf("clear expired otp code: %w", err)
		}
		return domain.OTPExpired, nil
	}

	if hashOTPCode(code) != storedHash {
		// Mismatch keeps the pending code so the user may retry.
		return domain.OTPInvalid, nil
	}

	if err := s.otpRepo.Delete(ctx, userID); err != nil {
		return domain.OTPInvalid, fmt.Errorf("consume otp code: %w", err)
	}
	return domain.OTPValid, nil
}

func generateOTPCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashOTPCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
