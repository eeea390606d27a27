package services

import (
	"context"
	"fmt"
	"log"

	"campusevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcome sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	log.Printf("[EMAIL] Welcome email sent to %s", data.Email)
	return nil
}

// SendOTPCode sends the one-time code email using the "otp_code" template.
func (s *emailService) SendOTPCode(ctx context.Context, data *domain.OTPEmailData) error {
	if data == nil {
		return fmt.Errorf("otp email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("otp_code", data)
	if err != nil {
		return fmt.Errorf("failed to render otp_code template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	log.Printf("[EMAIL] One-time code sent to %s", data.Email)
	return nil
}
