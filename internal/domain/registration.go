package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the per-(event,user) registration state.
// Transitions: absent -> registered -> cancelled; registered -> registered
// is idempotent. Waitlist promotion is out of scope but the enum supports it.
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
)

// SourceAPI is the default registration source recorded on first insert.
const SourceAPI = "api"

// EventRegistration is the registration row for one (event, user) pair.
// Exactly one document exists per pair, enforced by a unique compound index.
// swagger:model EventRegistration
type EventRegistration struct {
	ID           string             `json:"id" bson:"_id,omitempty"`
	EventID      string             `json:"event_id" bson:"event"`
	UserID       string             `json:"user_id" bson:"user"`
	Status       RegistrationStatus `json:"status" bson:"status"`
	RegisteredAt time.Time          `json:"registered_at" bson:"registeredAt"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty" bson:"cancelledAt"`
	Source       string             `json:"source" bson:"source"`
	Metadata     map[string]any     `json:"metadata" bson:"metadata"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// EventRegistrationRepository defines storage operations for registrations.
// Rows are created and updated only through Upsert; no other path writes them.
type EventRegistrationRepository interface {
	// Upsert sets status registered and clears the cancellation timestamp for
	// the (event, user) row, creating it when absent. registeredAt and source
	// are written only on first insert so re-upserts never clobber the
	// original registration timestamp. Returns the row and whether it was
	// created. A duplicate-key collision under concurrent duplicate requests
	// yields ErrAlreadyExists.
	Upsert(ctx context.Context, eventID, userID, source string, now time.Time) (*EventRegistration, bool, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventRegistration, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRegistration, error)
}

// RegistrationResult is the outcome of a successful admission.
type RegistrationResult struct {
	Registration      *EventRegistration `json:"registration"`
	Event             *Event             `json:"event"`
	AlreadyRegistered bool               `json:"already_registered"`
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// AttendeeService defines attendee-facing operations such as event
// registration. RegisterForEvent is the admission-control core: the
// eligibility decision is made atomically in storage, rejections are
// classified into one of the admission sentinel errors, and a failed
// follow-up write is compensated by removing the attendee again.
type AttendeeService interface {
	RegisterForEvent(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*EventRegistrationWithEvent, error)
	// ListAttendees returns the name/contact projection of the event's
	// attendees, never credentials.
	ListAttendees(ctx context.Context, eventID string) ([]*AttendeeInfo, error)
}
