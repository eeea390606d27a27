package domain

import (
	"context"
	"time"
)

// Event categories are free text in practice (e.g. Cultural, Technical,
// Placement); no closed enum is enforced.

// Winners holds the announced results for a finished event.
// swagger:model Winners
type Winners struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// Event represents a college event open for registration.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	OrganizerID     string    `json:"organizer"`
	Category        string    `json:"category"`
	RegistrationFee int64     `json:"registrationFee"`
	Tags            []string  `json:"tags"`
	Image           string    `json:"image"`
	Winners         *Winners  `json:"winners,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Free reports whether the event charges no registration fee.
func (e *Event) Free() bool {
	return e.RegistrationFee == 0
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description string, date time.Time, location, organizerID, category string, fee int64, tags []string, image string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:           title,
		Description:     description,
		Date:            date,
		Location:        location,
		OrganizerID:     organizerID,
		Category:        category,
		RegistrationFee: fee,
		Tags:            tags,
		Image:           image,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Delete(ctx context.Context, id string) error
	SetWinners(ctx context.Context, id string, winners *Winners) (*Event, error)
}

// EventService defines organizer- and public-facing event operations.
// Callers pass the authenticated caller's identity and role explicitly; the
// service performs the capability checks itself rather than trusting an
// external route gate.
type EventService interface {
	Create(ctx context.Context, event *Event, callerID, callerRole string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Delete(ctx context.Context, id, callerRole string) error
	SetWinners(ctx context.Context, id string, winners *Winners, callerID, callerRole string) (*Event, error)
}
