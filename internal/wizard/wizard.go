// Package wizard drives a student from intent-to-register to a persisted
// registration. Free events submit immediately; paid events pass through
// payment-proof capture and an OTP identity check before the single
// registration write is made.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/domain"
)

// Step identifies the wizard's current position in the flow.
type Step string

const (
	StepCollectingDetails Step = "collecting_details"
	StepAwaitingPayment   Step = "awaiting_payment"
	StepAwaitingOTP       Step = "awaiting_otp"
	StepPaymentConfirmed  Step = "payment_confirmed"
	StepConfirmed         Step = "confirmed"
	StepFailed            Step = "failed"
	StepAbandoned         Step = "abandoned"
)

// Terminal reports whether no further transitions are possible from s.
func (s Step) Terminal() bool {
	return s == StepConfirmed || s == StepFailed || s == StepAbandoned
}

var (
	// ErrInvalidStep is returned when an operation is called outside the step
	// it belongs to.
	ErrInvalidStep = errors.New("operation not valid in current step")
	// ErrAbandonBlocked is returned when the wizard is closed while the
	// payment-confirmed display is showing; the auto-advance must not be
	// interrupted.
	ErrAbandonBlocked = errors.New("cannot close while confirmation is displayed")
	// ErrNotReady is returned by Advance before the confirmation display delay
	// has elapsed.
	ErrNotReady = errors.New("confirmation display delay has not elapsed")
	// ErrOTPInvalid is returned for a mismatched code; the user may retry.
	ErrOTPInvalid = errors.New("incorrect code")
	// ErrOTPExpired is returned for an expired code; the user may request a resend.
	ErrOTPExpired = errors.New("code expired, request a new one")
)

// EventGetter reads the event to gate on its registration fee.
type EventGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

// OTPGateway issues and verifies one-time codes for the authenticated user.
type OTPGateway interface {
	IssueOTP(ctx context.Context, userID string) error
	VerifyOTP(ctx context.Context, userID, code string) (domain.OTPResult, error)
}

// Registrar performs the registration write. It is invoked exactly once, at
// the transition into StepConfirmed.
type Registrar interface {
	Register(ctx context.Context, eventID, studentID string) (*domain.Registration, bool, error)
}

var wizardEmailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Details are the attendee details collected in the first step.
type Details struct {
	Name      string
	Email     string
	StudentID string
	Phone     string
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !wizardEmailRegexp.MatchString(strings.TrimSpace(d.Email)) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(d.StudentID) == "" {
		return fmt.Errorf("%w: student id is required", domain.ErrInvalidInput)
	}
	return nil
}

const defaultDisplayDelay = 2 * time.Second

// Option configures a Wizard.
type Option func(*Wizard)

// WithDisplayDelay sets how long the payment-confirmed step is displayed
// before Advance may complete the registration.
func WithDisplayDelay(d time.Duration) Option {
	return func(w *Wizard) { w.displayDelay = d }
}

// WithClock overrides the wizard's clock.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// Wizard is a single-attempt registration flow for one (event, student) pair.
// It is cooperative, single-threaded UI logic: each method is a user action,
// and calling one outside its step returns ErrInvalidStep. A new attempt is a
// fresh Wizard; issuing a new code replaces any pending one.
type Wizard struct {
	events    EventGetter
	otp       OTPGateway
	registrar Registrar

	userID string
	event  *domain.Event

	step         Step
	details      Details
	txnRef       string
	confirmedAt  time.Time
	displayDelay time.Duration
	now          func() time.Time

	registration *domain.Registration
	failure      error
}

// Start opens a wizard for the given event and authenticated student. It
// reads the event up front so the fee gate is fixed for the whole attempt.
func Start(ctx context.Context, events EventGetter, otp OTPGateway, registrar Registrar, eventID, userID string, opts ...Option) (*Wizard, error) {
	event, err := events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	w := &Wizard{
		events:       events,
		otp:          otp,
		registrar:    registrar,
		userID:       userID,
		event:        event,
		step:         StepCollectingDetails,
		displayDelay: defaultDisplayDelay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step { return w.step }

// Event returns the event this attempt targets.
func (w *Wizard) Event() *domain.Event { return w.event }

// Details returns the collected attendee details.
func (w *Wizard) Details() Details { return w.details }

// TransactionRef returns the payment reference supplied in the payment step.
// It is recorded for the organizer's records only, never verified against a
// payment gateway; the OTP step is an identity check, not proof of payment.
func (w *Wizard) TransactionRef() string { return w.txnRef }

// Registration returns the persisted registration once the wizard is confirmed.
func (w *Wizard) Registration() *domain.Registration { return w.registration }

// Err returns the terminal failure, if the wizard ended in StepFailed.
func (w *Wizard) Err() error { return w.failure }

// SubmitDetails validates the attendee details. Free events register
// immediately and finish; paid events move on to payment-proof capture.
// A failed registration write for a free event leaves the wizard in the
// details step so the user may retry.
func (w *Wizard) SubmitDetails(ctx context.Context, details Details) error {
	if w.step != StepCollectingDetails {
		return ErrInvalidStep
	}
	if err := details.validate(); err != nil {
		return err
	}
	w.details = details

	if w.event.Free() {
		reg, _, err := w.registrar.Register(ctx, w.event.ID, w.userID)
		if err != nil {
			return err
		}
		w.registration = reg
		w.step = StepConfirmed
		return nil
	}

	w.step = StepAwaitingPayment
	return nil
}

// SubmitPaymentProof records the transaction reference and requests an OTP
// for the user. On issuance failure the wizard stays in the payment step and
// the user may retry.
func (w *Wizard) SubmitPaymentProof(ctx context.Context, txnRef string) error {
	if w.step != StepAwaitingPayment {
		return ErrInvalidStep
	}
	txnRef = strings.TrimSpace(txnRef)
	if txnRef == "" {
		return fmt.Errorf("%w: transaction reference is required", domain.ErrInvalidInput)
	}
	if err := w.otp.IssueOTP(ctx, w.userID); err != nil {
		return err
	}
	w.txnRef = txnRef
	w.step = StepAwaitingOTP
	return nil
}

// SubmitOTP verifies the code. A mismatch or expiry keeps the wizard in the
// OTP step; a valid code moves to the transient payment-confirmed display.
func (w *Wizard) SubmitOTP(ctx context.Context, code string) error {
	if w.step != StepAwaitingOTP {
		return ErrInvalidStep
	}
	result, err := w.otp.VerifyOTP(ctx, w.userID, code)
	if err != nil {
		return err
	}
	switch result {
	case domain.OTPValid:
		w.confirmedAt = w.now()
		w.step = StepPaymentConfirmed
		return nil
	case domain.OTPExpired:
		return ErrOTPExpired
	default:
		return ErrOTPInvalid
	}
}

// ResendOTP requests a fresh code, replacing the pending one.
func (w *Wizard) ResendOTP(ctx context.Context) error {
	if w.step != StepAwaitingOTP {
		return ErrInvalidStep
	}
	return w.otp.IssueOTP(ctx, w.userID)
}

// Advance completes the flow after the payment-confirmed display. It refuses
// until the display delay has elapsed, then makes the registration write:
// success finishes in StepConfirmed, failure lands in the explicit terminal
// StepFailed carrying the error. The failure is not auto-retried.
func (w *Wizard) Advance(ctx context.Context) error {
	if w.step != StepPaymentConfirmed {
		return ErrInvalidStep
	}
	if w.now().Sub(w.confirmedAt) < w.displayDelay {
		return ErrNotReady
	}

	reg, _, err := w.registrar.Register(ctx, w.event.ID, w.userID)
	if err != nil {
		w.failure = err
		w.step = StepFailed
		return err
	}
	w.registration = reg
	w.step = StepConfirmed
	return nil
}

// Abandon closes the wizard. Allowed from the details, payment, and OTP
// steps; blocked while the payment-confirmed display is showing.
func (w *Wizard) Abandon() error {
	switch w.step {
	case StepCollectingDetails, StepAwaitingPayment, StepAwaitingOTP:
		w.step = StepAbandoned
		return nil
	case StepPaymentConfirmed:
		return ErrAbandonBlocked
	default:
		return ErrInvalidStep
	}
}
