package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"virtualevents/internal/domain"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	email            domain.EmailService
	logger           *slog.Logger
}

// NewRegistrationService creates the AttendeeService that implements the
// admission-control path.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	userRepo domain.UserRepository,
	email domain.EmailService,
	logger *slog.Logger,
) domain.AttendeeService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		email:            email,
		logger:           logger,
	}
}

// RegisterForEvent admits a user to an event.
//
// The eligibility decision is made by a single conditional atomic update on
// the event document (AddAttendee), never by a read-then-write sequence, so
// concurrent registrants cannot both pass the capacity check. When the write
// matches nothing, a diagnostic re-read classifies the rejection; that
// re-read never decides eligibility. After the attendee add, the
// registration row is upserted; a duplicate-key collision there means a
// concurrent duplicate request won the insert and is reported as
// already-registered. Any other upsert failure is compensated by removing
// the attendee again, best-effort.
func (s *registrationService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	now := time.Now()

	event, err := s.eventRepo.AddAttendee(ctx, eventID, userID, now)
	if err != nil {
		if errors.Is(err, domain.ErrConditionFailed) {
			return nil, s.classifyRejection(ctx, eventID, now)
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}

	reg, created, err := s.registrationRepo.Upsert(ctx, event.ID, userID, domain.SourceAPI, now)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent duplicate request inserted the row first. The
			// registration exists, so this request succeeded too.
			existing, gerr := s.registrationRepo.GetByEventAndUser(ctx, event.ID, userID)
			if gerr != nil {
				return nil, fmt.Errorf("load existing registration: %w", gerr)
			}
			return &domain.RegistrationResult{
				Registration:      existing,
				Event:             event,
				AlreadyRegistered: true,
			}, nil
		}

		// Compensate the attendee add so the denormalized set does not drift
		// further; its own failure is logged and the original error stands.
		if cerr := s.eventRepo.RemoveAttendee(ctx, eventID, userID); cerr != nil {
			s.logger.Error("compensating attendee removal failed",
				"event_id", eventID, "user_id", userID, "err", cerr)
		}
		return nil, fmt.Errorf("upsert registration: %w", err)
	}

	// The registration is durable; notification is fire-and-forget.
	go s.sendConfirmation(event, userID)

	return &domain.RegistrationResult{
		Registration:      reg,
		Event:             event,
		AlreadyRegistered: !created,
	}, nil
}

// classifyRejection explains an already-decided rejection for the caller, in
// priority order: not-found, not-published, deadline-passed, full, generic.
func (s *registrationService) classifyRejection(ctx context.Context, eventID string, now time.Time) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("diagnose rejection: %w", err)
	}
	switch {
	case event.Status != domain.StatusPublished:
		return domain.ErrEventNotOpen
	case event.RegistrationDeadline != nil && event.RegistrationDeadline.Before(now):
		return domain.ErrDeadlinePassed
	case !event.IsUnlimitedCapacity && len(event.Attendees) >= event.Capacity:
		return domain.ErrEventFull
	default:
		return domain.ErrNotEligible
	}
}

// sendConfirmation runs detached from the request; a failure here must never
// reach the caller, the registration is already durable.
func (s *registrationService) sendConfirmation(event *domain.Event, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("confirmation email skipped, user lookup failed",
			"user_id", userID, "event_id", event.ID, "err", err)
		return
	}
	if err := s.email.SendRegistrationConfirmation(ctx, user, event); err != nil {
		s.logger.Warn("confirmation email failed",
			"user_id", userID, "event_id", event.ID, "err", err)
	}
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := []*domain.EventRegistrationWithEvent{}
	for _, reg := range regs {
		event, ok := eventsByID[reg.EventID]
		if !ok {
			event, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the orphan.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = event
		}
		result = append(result, &domain.EventRegistrationWithEvent{
			Registration: reg,
			Event:        event,
		})
	}
	return result, nil
}

func (s *registrationService) ListAttendees(ctx context.Context, eventID string) ([]*domain.AttendeeInfo, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	users, err := s.userRepo.ListByIDs(ctx, event.Attendees)
	if err != nil {
		return nil, fmt.Errorf("list attendee users: %w", err)
	}

	attendees := make([]*domain.AttendeeInfo, 0, len(users))
	for _, u := range users {
		attendees = append(attendees, &domain.AttendeeInfo{Name: u.Name, Email: u.Email})
	}
	return attendees, nil
}
