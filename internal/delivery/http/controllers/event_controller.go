package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"virtualevents/internal/delivery/http/helpers"
	"virtualevents/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// LocationDTO is the postal address block on event requests.
type LocationDTO struct {
	AddressLine1 string `json:"address_line1" validate:"max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	Country      string `json:"country" validate:"max=100"`
	PostalCode   string `json:"postal_code" validate:"max=30"`
}

func (l *LocationDTO) toDomain() domain.Location {
	return domain.Location{
		AddressLine1: l.AddressLine1,
		AddressLine2: l.AddressLine2,
		City:         l.City,
		State:        l.State,
		Country:      l.Country,
		PostalCode:   l.PostalCode,
	}
}

// CreateEventRequest is the request body for POST /events/create.
// Omitted optional fields take the documented defaults (mode virtual,
// status draft, capacity 100, is_public true).
type CreateEventRequest struct {
	Title                string       `json:"title" validate:"required,min=3,max=200"`
	Description          string       `json:"description" validate:"max=5000"`
	Mode                 string       `json:"mode" validate:"omitempty,oneof=virtual in-person hybrid"`
	StartAt              time.Time    `json:"start_at" validate:"required"`
	EndAt                *time.Time   `json:"end_at"`
	RegistrationDeadline *time.Time   `json:"registration_deadline"`
	Capacity             *int         `json:"capacity" validate:"omitempty,gte=1"`
	IsUnlimitedCapacity  bool         `json:"is_unlimited_capacity"`
	MeetingURL           string       `json:"meeting_url" validate:"omitempty,url"`
	Location             *LocationDTO `json:"location"`
	Status               string       `json:"status" validate:"omitempty,oneof=draft published cancelled completed"`
	IsPublic             *bool        `json:"is_public"`
	Tags                 []string     `json:"tags"`
	Price                *float64     `json:"price" validate:"omitempty,gte=0"`
}

// Validate implements helpers.Validator.
func (r CreateEventRequest) Validate() []string {
	return helpers.ValidateStruct(r)
}

func (r *CreateEventRequest) toDomain(organizerID string) *domain.Event {
	event := &domain.Event{
		Title:                r.Title,
		Description:          r.Description,
		Mode:                 domain.EventMode(r.Mode),
		StartAt:              r.StartAt,
		EndAt:                r.EndAt,
		RegistrationDeadline: r.RegistrationDeadline,
		IsUnlimitedCapacity:  r.IsUnlimitedCapacity,
		MeetingURL:           r.MeetingURL,
		Status:               domain.EventStatus(r.Status),
		IsPublic:             true,
		Tags:                 r.Tags,
		OrganizerID:          organizerID,
	}
	if r.Capacity != nil {
		event.Capacity = *r.Capacity
	}
	if r.IsPublic != nil {
		event.IsPublic = *r.IsPublic
	}
	if r.Location != nil {
		event.Location = r.Location.toDomain()
	}
	if r.Price != nil {
		event.Price = *r.Price
	}
	return event
}

// List godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/create [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := UserIDOr401(w, r)
	if !ok {
		return
	}

	event := req.toDomain(userID)
	if err := c.Service.Create(r.Context(), event); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, verr.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Get godoc
// @Summary Get an event by id
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.Get(r.Context(), r.PathValue("eventID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. All
// fields are optional; present fields are merged onto the stored event.
type UpdateEventRequest struct {
	Title                *string      `json:"title" validate:"omitempty,min=3,max=200"`
	Description          *string      `json:"description" validate:"omitempty,max=5000"`
	Mode                 *string      `json:"mode" validate:"omitempty,oneof=virtual in-person hybrid"`
	StartAt              *time.Time   `json:"start_at"`
	EndAt                *time.Time   `json:"end_at"`
	RegistrationDeadline *time.Time   `json:"registration_deadline"`
	Capacity             *int         `json:"capacity" validate:"omitempty,gte=1"`
	IsUnlimitedCapacity  *bool        `json:"is_unlimited_capacity"`
	MeetingURL           *string      `json:"meeting_url" validate:"omitempty,url"`
	Location             *LocationDTO `json:"location"`
	Status               *string      `json:"status" validate:"omitempty,oneof=draft published cancelled completed"`
	IsPublic             *bool        `json:"is_public"`
	Tags                 *[]string    `json:"tags"`
	Price                *float64     `json:"price" validate:"omitempty,gte=0"`
}

// Validate implements helpers.Validator.
func (r UpdateEventRequest) Validate() []string {
	return helpers.ValidateStruct(r)
}

func (r *UpdateEventRequest) toPatch() *domain.EventPatch {
	patch := &domain.EventPatch{
		Title:                r.Title,
		Description:          r.Description,
		StartAt:              r.StartAt,
		EndAt:                r.EndAt,
		RegistrationDeadline: r.RegistrationDeadline,
		Capacity:             r.Capacity,
		IsUnlimitedCapacity:  r.IsUnlimitedCapacity,
		MeetingURL:           r.MeetingURL,
		IsPublic:             r.IsPublic,
		Tags:                 r.Tags,
		Price:                r.Price,
	}
	if r.Mode != nil {
		mode := domain.EventMode(*r.Mode)
		patch.Mode = &mode
	}
	if r.Status != nil {
		status := domain.EventStatus(*r.Status)
		patch.Status = &status
	}
	if r.Location != nil {
		loc := r.Location.toDomain()
		patch.Location = &loc
	}
	return patch
}

// Update godoc
// @Summary Partially update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.Update(r.Context(), r.PathValue("eventID"), req.toPatch())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, verr.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes the event. Fails with a conflict when the event still has registered attendees.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: conflict (event has attendees)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.Service.Delete(r.Context(), r.PathValue("eventID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeConflict, "cannot delete event with registered attendees")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}
