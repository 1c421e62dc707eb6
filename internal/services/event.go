package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtualevents/internal/domain"
)

const defaultCapacity = 100

type eventService struct {
	eventRepo domain.EventRepository
}

// NewEventService creates an EventService with the given repository.
func NewEventService(eventRepo domain.EventRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.MeetingURL = strings.TrimSpace(event.MeetingURL)

	if event.Mode == "" {
		event.Mode = domain.ModeVirtual
	}
	if event.Status == "" {
		event.Status = domain.StatusDraft
	}
	if event.Capacity == 0 && !event.IsUnlimitedCapacity {
		event.Capacity = defaultCapacity
	}

	if err := event.Validate(); err != nil {
		return err
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Attendees = []string{}
	if event.Tags == nil {
		event.Tags = []string{}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Update merges the patch onto the stored event and re-validates the merged
// candidate before persisting, so cross-field invariants hold for the final
// state rather than for the patch in isolation.
func (s *eventService) Update(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	patch.ApplyTo(event)
	event.Title = strings.TrimSpace(event.Title)
	event.MeetingURL = strings.TrimSpace(event.MeetingURL)

	if err := event.Validate(); err != nil {
		return nil, err
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	// Deletion guard: events with registered attendees cannot be removed.
	if len(event.Attendees) > 0 {
		return fmt.Errorf("cannot delete event with registered attendees: %w", domain.ErrConflict)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
