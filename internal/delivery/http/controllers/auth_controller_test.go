package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualevents/internal/domain"
)

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"name":"Ana","username":"anasilva","email":"ana@example.com","password":"hunter22"}`,
			svc: &fakeAuthService{registerUser: &domain.User{
				ID: "user-1", Name: "Ana", Username: "anasilva", Email: "ana@example.com", Role: domain.RoleAttendee,
			}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "unknown field rejected",
			body:       `{"name":"Ana","username":"anasilva","email":"ana@example.com","password":"hunter22","admin":true}`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "missing fields",
			body:       `{"email":"ana@example.com"}`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "service validation error",
			body:       `{"name":"Ana","username":"anasilva","email":"ana@example.com","password":"hunter22"}`,
			svc:        &fakeAuthService{registerErr: &domain.ValidationError{Fields: []string{"invalid email format"}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "duplicate user",
			body:       `{"name":"Ana","username":"anasilva","email":"ana@example.com","password":"hunter22"}`,
			svc:        &fakeAuthService{registerErr: domain.ErrConflict},
			wantStatus: http.StatusBadRequest,
			wantCode:   "conflict",
		},
		{
			name:       "internal error",
			body:       `{"name":"Ana","username":"anasilva","email":"ana@example.com","password":"hunter22"}`,
			svc:        &fakeAuthService{registerErr: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			ctrl.Register(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				return
			}
			require.Nil(t, resp.Error)
			body := rec.Body.String()
			assert.NotContains(t, body, "password")
			assert.NotContains(t, body, "hash")
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "ok",
			body:       `{"email":"ana@example.com","password":"hunter22"}`,
			svc:        &fakeAuthService{loginToken: "signed-token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing password",
			body:       `{"email":"ana@example.com"}`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "bad credentials",
			body:       `{"email":"ana@example.com","password":"wrong"}`,
			svc:        &fakeAuthService{loginErr: domain.ErrInvalidCredentials},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "internal error",
			body:       `{"email":"ana@example.com","password":"hunter22"}`,
			svc:        &fakeAuthService{loginErr: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			ctrl.Login(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				return
			}
			require.Nil(t, resp.Error)
			data, ok := resp.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "signed-token", data["token"])
			assert.Equal(t, "Bearer", data["token_type"])
		})
	}
}
