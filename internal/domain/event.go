package domain

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// EventMode describes how an event is attended.
type EventMode string

const (
	ModeVirtual  EventMode = "virtual"
	ModeInPerson EventMode = "in-person"
	ModeHybrid   EventMode = "hybrid"
)

// EventStatus is the lifecycle status of an event. Only published events
// accept registrations.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// Location is the postal address of an in-person or hybrid event.
type Location struct {
	AddressLine1 string `json:"address_line1" bson:"addressLine1"`
	AddressLine2 string `json:"address_line2" bson:"addressLine2"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Country      string `json:"country" bson:"country"`
	PostalCode   string `json:"postal_code" bson:"postalCode"`
}

// Event represents a virtual, in-person, or hybrid event.
// Attendees is a denormalized set of user ids; its size never exceeds
// Capacity unless IsUnlimitedCapacity is set.
// swagger:model Event
type Event struct {
	ID                   string      `json:"id" bson:"_id,omitempty"`
	Title                string      `json:"title" bson:"title"`
	Description          string      `json:"description" bson:"description"`
	Mode                 EventMode   `json:"mode" bson:"mode"`
	StartAt              time.Time   `json:"start_at" bson:"startAt"`
	EndAt                *time.Time  `json:"end_at,omitempty" bson:"endAt,omitempty"`
	RegistrationDeadline *time.Time  `json:"registration_deadline,omitempty" bson:"registrationDeadline,omitempty"`
	Capacity             int         `json:"capacity" bson:"capacity"`
	IsUnlimitedCapacity  bool        `json:"is_unlimited_capacity" bson:"isUnlimitedCapacity"`
	Attendees            []string    `json:"attendees" bson:"attendees"`
	MeetingURL           string      `json:"meeting_url,omitempty" bson:"meetingUrl,omitempty"`
	Location             Location    `json:"location" bson:"location"`
	Status               EventStatus `json:"status" bson:"status"`
	IsPublic             bool        `json:"is_public" bson:"isPublic"`
	Tags                 []string    `json:"tags" bson:"tags"`
	Price                float64     `json:"price" bson:"price"`
	OrganizerID          string      `json:"organizer_id" bson:"organizer"`
	CreatedAt            time.Time   `json:"created_at" bson:"createdAt"`
	UpdatedAt            time.Time   `json:"updated_at" bson:"updatedAt"`
}

// Validate checks field and cross-field constraints on a fully-constructed
// candidate event. It is pure: no persistence reads, no mutation.
func (e *Event) Validate() error {
	var fields []string

	if n := len(e.Title); n < 3 || n > 200 {
		fields = append(fields, "title must be between 3 and 200 characters")
	}
	if len(e.Description) > 5000 {
		fields = append(fields, "description must be at most 5000 characters")
	}
	switch e.Mode {
	case ModeVirtual, ModeInPerson, ModeHybrid:
	default:
		fields = append(fields, fmt.Sprintf("mode must be one of %q, %q, %q", ModeVirtual, ModeInPerson, ModeHybrid))
	}
	switch e.Status {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
	default:
		fields = append(fields, "status must be one of \"draft\", \"published\", \"cancelled\", \"completed\"")
	}
	if e.StartAt.IsZero() {
		fields = append(fields, "start_at is required")
	}
	if e.EndAt != nil && !e.StartAt.IsZero() && !e.EndAt.After(e.StartAt) {
		fields = append(fields, "end_at must be after start_at")
	}
	if e.RegistrationDeadline != nil && !e.StartAt.IsZero() && e.RegistrationDeadline.After(e.StartAt) {
		fields = append(fields, "registration_deadline must be on or before start_at")
	}
	if !e.IsUnlimitedCapacity && e.Capacity < 1 {
		fields = append(fields, "capacity must be at least 1")
	}
	if e.Price < 0 {
		fields = append(fields, "price must not be negative")
	}
	if e.MeetingURL == "" {
		if e.Mode != ModeInPerson {
			fields = append(fields, "meeting_url is required for virtual and hybrid events")
		}
	} else if u, err := url.Parse(e.MeetingURL); err != nil || u.Scheme == "" || u.Host == "" {
		fields = append(fields, "meeting_url must be a valid URL")
	}
	fields = append(fields, e.Location.validate()...)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (l Location) validate() []string {
	var fields []string
	if len(l.AddressLine1) > 200 {
		fields = append(fields, "location.address_line1 must be at most 200 characters")
	}
	if len(l.AddressLine2) > 200 {
		fields = append(fields, "location.address_line2 must be at most 200 characters")
	}
	if len(l.City) > 100 {
		fields = append(fields, "location.city must be at most 100 characters")
	}
	if len(l.State) > 100 {
		fields = append(fields, "location.state must be at most 100 characters")
	}
	if len(l.Country) > 100 {
		fields = append(fields, "location.country must be at most 100 characters")
	}
	if len(l.PostalCode) > 30 {
		fields = append(fields, "location.postal_code must be at most 30 characters")
	}
	return fields
}

// EventPatch is a partial update over the whitelisted mutable fields of an
// event. Nil pointers leave the current value untouched.
type EventPatch struct {
	Title                *string
	Description          *string
	Mode                 *EventMode
	StartAt              *time.Time
	EndAt                *time.Time
	RegistrationDeadline *time.Time
	Capacity             *int
	IsUnlimitedCapacity  *bool
	MeetingURL           *string
	Location             *Location
	Status               *EventStatus
	IsPublic             *bool
	Tags                 *[]string
	Price                *float64
}

// ApplyTo merges the patch onto the event in place.
func (p *EventPatch) ApplyTo(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Mode != nil {
		e.Mode = *p.Mode
	}
	if p.StartAt != nil {
		e.StartAt = *p.StartAt
	}
	if p.EndAt != nil {
		e.EndAt = p.EndAt
	}
	if p.RegistrationDeadline != nil {
		e.RegistrationDeadline = p.RegistrationDeadline
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.IsUnlimitedCapacity != nil {
		e.IsUnlimitedCapacity = *p.IsUnlimitedCapacity
	}
	if p.MeetingURL != nil {
		e.MeetingURL = *p.MeetingURL
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update persists the full current state of the event.
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error

	// AddAttendee adds userID to the event's attendee set with a single
	// conditional atomic update. The predicate requires, at the instant of
	// the write: status published, deadline absent or not before now, and
	// the user already attending OR unlimited capacity OR free seats.
	// Returns the updated event, or ErrConditionFailed when no document
	// matched (including an unknown id — callers classify afterwards).
	AddAttendee(ctx context.Context, eventID, userID string, now time.Time) (*Event, error)

	// RemoveAttendee removes userID from the attendee set. Used as the
	// best-effort compensating write when the registration upsert fails.
	RemoveAttendee(ctx context.Context, eventID, userID string) error
}

// EventService defines the event lifecycle operations.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	// Delete removes the event; ErrConflict when attendees exist.
	Delete(ctx context.Context, id string) error
}
