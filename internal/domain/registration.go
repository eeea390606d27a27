package domain

import (
	"context"
	"time"
)

// Registration status values. A (event, student) pair has at most one record;
// its status reflects the latest transition.
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
)

// Registration links one student to one event with a status. Records are
// never hard-deleted; cancelling flips the status and re-registering flips it
// back on the same record.
// swagger:model Registration
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event"`
	StudentID    string    `json:"student"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewRegistration creates a Registration with status registered. ID is set by
// the repository on create.
func NewRegistration(eventID, studentID string, registeredAt time.Time) *Registration {
	return &Registration{
		EventID:      eventID,
		StudentID:    studentID,
		Status:       RegistrationStatusRegistered,
		RegisteredAt: registeredAt,
		UpdatedAt:    registeredAt,
	}
}

// RegistrationRepository defines storage operations for registrations.
//
// Register is a single atomic conditional upsert: it creates a registered
// record for (event, student), or revives a cancelled one in place. If an
// active registered record already exists it returns ErrAlreadyRegistered and
// leaves the row untouched. The (event_id, student_id) uniqueness constraint
// is the serialization point for concurrent attempts.
type RegistrationRepository interface {
	// Register reports created=true when a new record was inserted and false
	// when a cancelled record was revived in place.
	Register(ctx context.Context, reg *Registration) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*Registration, error)
	ListByStudentID(ctx context.Context, studentID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RegistrationWithStudent, error)
	SetStatus(ctx context.Context, id, status string, updatedAt time.Time) (*Registration, error)
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// StudentSummary is the slice of a user exposed to organizers on attendee lists.
type StudentSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// RegistrationWithStudent bundles a registration with a summary of the student.
type RegistrationWithStudent struct {
	Registration *Registration   `json:"registration"`
	Student      *StudentSummary `json:"student"`
}

// RegistrationService owns the only valid transitions for a Registration.
type RegistrationService interface {
	// Register registers the student for the event. created is true when a new
	// record was made, false when a cancelled record was revived. Returns
	// ErrNotFound if the event does not exist and ErrAlreadyRegistered if an
	// active registration is present.
	Register(ctx context.Context, eventID, studentID string) (reg *Registration, created bool, err error)
	// Cancel sets the registration to cancelled. Only the owning student may
	// cancel; cancelling an already-cancelled registration is a no-op success.
	Cancel(ctx context.Context, registrationID, callerID string) (*Registration, error)
	// ListForStudent returns the student's registrations joined with their
	// events, most recently created first.
	ListForStudent(ctx context.Context, studentID string) ([]*RegistrationWithEvent, error)
	// ListForEvent returns the event's registrations joined with student
	// summaries. Restricted to organizer and admin roles.
	ListForEvent(ctx context.Context, eventID, callerRole string) ([]*RegistrationWithStudent, error)
}
