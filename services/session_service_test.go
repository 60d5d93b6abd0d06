package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) *SessionService {
	t.Helper()
	return NewSessionService(newTestStore(t), "example@gmail.com", "example123")
}

func TestCurrentDefaultsToLoggedOutClient(t *testing.T) {
	service := newSessionService(t)

	state, err := service.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, RoleClient, state.Role)
}

func TestLoginWithDemoCredentials(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	ok, err := service.Login(ctx, "example@gmail.com", "example123")
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := service.Current(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	ok, err := service.Login(ctx, "example@gmail.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	state, err := service.Current(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsAuthenticated)
}

func TestSwitchRolePersists(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, service.SwitchRole(ctx, RoleEmployee))

	state, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, state.Role)
}

func TestSwitchRoleRejectsUnknownRole(t *testing.T) {
	service := newSessionService(t)

	err := service.SwitchRole(context.Background(), "admin")
	require.Error(t, err)
}

func TestLogoutClearsSession(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	_, err := service.Login(ctx, "example@gmail.com", "example123")
	require.NoError(t, err)
	require.NoError(t, service.SwitchRole(ctx, RoleEmployee))

	require.NoError(t, service.Logout(ctx))

	state, err := service.Current(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, RoleClient, state.Role)
}
