package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualevents/internal/domain"
)

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc := NewJWTTokenService("test-secret")

	token, err := svc.Issue("user-1", domain.RoleOrganizer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, domain.RoleOrganizer, role)
}

func TestJWTTokenService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTTokenService("secret-a").Issue("user-1", domain.RoleAttendee)
	require.NoError(t, err)

	_, _, err = NewJWTTokenService("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestJWTTokenService_RejectsGarbage(t *testing.T) {
	_, _, err := NewJWTTokenService("test-secret").Verify("not.a.token")
	assert.Error(t, err)
}
