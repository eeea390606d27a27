package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

// NewRegistrationService creates a RegistrationService with the given repositories.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, studentID string) (*domain.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Ensure the event exists.
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}

	// The repository upsert is the serialization point: it creates a record or
	// revives a cancelled one, and reports ErrAlreadyRegistered for an active
	// record without mutating it.
	reg := domain.NewRegistration(eventID, studentID, time.Now())
	created, err := s.registrationRepo.Register(ctx, reg)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, false, domain.ErrAlreadyRegistered
		}
		return nil, false, fmt.Errorf("register: %w", err)
	}
	return reg, created, nil
}

func (s *registrationService) Cancel(ctx context.Context, registrationID, callerID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.StudentID != callerID {
		return nil, domain.ErrForbidden
	}
	if reg.Status == domain.RegistrationStatusCancelled {
		// Repeated cancel is a no-op success.
		return reg, nil
	}

	updated, err := s.registrationRepo.SetStatus(ctx, registrationID, domain.RegistrationStatusCancelled, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cancel registration: %w", err)
	}
	return updated, nil
}

func (s *registrationService) ListForStudent(ctx context.Context, studentID string) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithEvent{}, nil
	}

	// Fetch events one by one (N+1). This keeps the implementation simple; we can optimize later if needed.
	eventsByID := make(map[string]*domain.Event)
	var result []*domain.RegistrationWithEvent

	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip this entry defensively.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}

	if result == nil {
		result = []*domain.RegistrationWithEvent{}
	}
	return result, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID, callerRole string) ([]*domain.RegistrationWithStudent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.OrganizerRole(callerRole) {
		return nil, domain.ErrForbidden
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	items, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	if items == nil {
		items = []*domain.RegistrationWithStudent{}
	}
	return items, nil
}
