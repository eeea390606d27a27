package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event, callerID, callerRole string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.OrganizerRole(callerRole) {
		return nil, domain.ErrForbidden
	}

	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if event.RegistrationFee < 0 {
		return nil, fmt.Errorf("%w: registration fee must not be negative", domain.ErrInvalidInput)
	}

	event.OrganizerID = callerID
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Tags == nil {
		event.Tags = []string{}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Delete removes an event. Only admin may delete; registrations referencing
// the event are kept (they are never hard-deleted).
func (s *eventService) Delete(ctx context.Context, id, callerRole string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) SetWinners(ctx context.Context, id string, winners *domain.Winners, callerID, callerRole string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if winners == nil || (winners.First == "" && winners.Second == "" && winners.Third == "") {
		return nil, fmt.Errorf("%w: at least one winner is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != callerID && callerRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	updated, err := s.eventRepo.SetWinners(ctx, id, winners)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set winners: %w", err)
	}
	return updated, nil
}
