package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"virtualevents/internal/delivery/http/helpers"
	"virtualevents/internal/domain"
)

// testLogger is a no-op logger so tests never assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerUser *domain.User
	registerErr  error
	loginToken   string
	loginErr     error

	lastName     string
	lastUsername string
	lastEmail    string
	lastPassword string
}

func (f *fakeAuthService) Register(ctx context.Context, name, username, email, password string) (*domain.User, error) {
	f.lastName, f.lastUsername, f.lastEmail, f.lastPassword = name, username, email, password
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerUser, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	listResult []*domain.Event
	listErr    error
	createErr  error
	getResult  *domain.Event
	getErr     error
	updated    *domain.Event
	updateErr  error
	deleteErr  error

	lastCreated  *domain.Event
	lastUpdateID string
	lastPatch    *domain.EventPatch
	lastDeleteID string
}

func (f *fakeEventService) Create(ctx context.Context, event *domain.Event) error {
	f.lastCreated = event
	return f.createErr
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return f.listResult, f.listErr
}

func (f *fakeEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeEventService) Update(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	f.lastUpdateID, f.lastPatch = id, patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func (f *fakeEventService) Delete(ctx context.Context, id string) error {
	f.lastDeleteID = id
	return f.deleteErr
}

// fakeAttendeeService implements domain.AttendeeService for handler tests.
type fakeAttendeeService struct {
	registerResult *domain.RegistrationResult
	registerErr    error
	listRegsResult []*domain.EventRegistrationWithEvent
	listRegsErr    error
	attendees      []*domain.AttendeeInfo
	attendeesErr   error

	lastEventID string
	lastUserID  string
}

func (f *fakeAttendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	f.lastEventID, f.lastUserID = eventID, userID
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResult, nil
}

func (f *fakeAttendeeService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	f.lastUserID = userID
	if f.listRegsErr != nil {
		return nil, f.listRegsErr
	}
	return f.listRegsResult, nil
}

func (f *fakeAttendeeService) ListAttendees(ctx context.Context, eventID string) ([]*domain.AttendeeInfo, error) {
	f.lastEventID = eventID
	if f.attendeesErr != nil {
		return nil, f.attendeesErr
	}
	return f.attendees, nil
}

// decodeResponse unmarshals the envelope written by the handler.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
