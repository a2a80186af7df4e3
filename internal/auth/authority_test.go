// FilePath: internal/auth/authority_test.go
package auth

import (
	"context"
	"testing"
	"time"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/repository/memory"
	"github.com/smartflowpark/hub/internal/timeutil"
	"github.com/stretchr/testify/require"
)

const tokenTTL = 8 * time.Hour

func newTestAuthority(t *testing.T) (*Authority, *timeutil.MockClock) {
	t.Helper()
	accounts := memory.NewAccountRepository()
	err := accounts.Create(context.Background(), &models.Account{
		ID:          "acc_test1",
		Username:    "operator",
		Password:    "hunter2",
		Permissions: []string{models.PermissionMonitor, models.PermissionZone},
	})
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	return NewAuthority(accounts, clock, tokenTTL), clock
}

func TestLoginAndAuthorize(t *testing.T) {
	authority, _ := newTestAuthority(t)

	token, permissions, err := authority.Login(context.Background(), "operator", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, []string{models.PermissionMonitor, models.PermissionZone}, permissions)

	principal, err := authority.Authorize(token, models.PermissionMonitor)
	require.NoError(t, err)
	require.Equal(t, "operator", principal.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	authority, _ := newTestAuthority(t)

	_, _, err := authority.Login(context.Background(), "operator", "wrong")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	require.Equal(t, 401, apiErr.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	authority, _ := newTestAuthority(t)

	_, _, err := authority.Login(context.Background(), "nobody", "hunter2")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	require.Equal(t, 401, apiErr.Code)
}

func TestUnknownToken(t *testing.T) {
	authority, _ := newTestAuthority(t)

	_, err := authority.Authorize("sfp_deadbeef", "")
	require.Error(t, err)
	require.True(t, errors.IsAuthorization(err))
}

func TestTokenExpiryBoundary(t *testing.T) {
	authority, clock := newTestAuthority(t)

	token, _, err := authority.Login(context.Background(), "operator", "hunter2")
	require.NoError(t, err)

	// One nanosecond before expiry the token still works.
	clock.Advance(tokenTTL - time.Nanosecond)
	_, err = authority.Authorize(token, "")
	require.NoError(t, err)

	// At the expiry instant it does not.
	clock.Advance(time.Nanosecond)
	_, err = authority.Authorize(token, "")
	require.Error(t, err)
	require.True(t, errors.IsAuthorization(err))

	// Expired tokens are evicted, so the retry reads as unknown.
	_, err = authority.Authorize(token, "")
	require.Error(t, err)
	require.Equal(t, 0, authority.ActiveSessions())
}

func TestPermissionDenied(t *testing.T) {
	authority, _ := newTestAuthority(t)

	token, _, err := authority.Login(context.Background(), "operator", "hunter2")
	require.NoError(t, err)

	_, err = authority.Authorize(token, models.PermissionHome)
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Code)

	// The token itself stays valid.
	_, err = authority.Authorize(token, models.PermissionZone)
	require.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	authority, _ := newTestAuthority(t)

	token, _, err := authority.Login(context.Background(), "operator", "hunter2")
	require.NoError(t, err)

	authority.Revoke(token)
	_, err = authority.Authorize(token, "")
	require.Error(t, err)
}

func TestConcurrentLoginsAreIndependent(t *testing.T) {
	authority, clock := newTestAuthority(t)
	ctx := context.Background()

	first, _, err := authority.Login(ctx, "operator", "hunter2")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, _, err := authority.Login(ctx, "operator", "hunter2")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Expiring the first token leaves the second alone.
	clock.Advance(tokenTTL - time.Hour)
	_, err = authority.Authorize(first, "")
	require.Error(t, err)
	_, err = authority.Authorize(second, "")
	require.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	authority, clock := newTestAuthority(t)
	ctx := context.Background()

	_, _, err := authority.Login(ctx, "operator", "hunter2")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, _, err = authority.Login(ctx, "operator", "hunter2")
	require.NoError(t, err)

	clock.Advance(tokenTTL - time.Hour)
	require.Equal(t, 1, authority.SweepExpired())
	require.Equal(t, 1, authority.ActiveSessions())
}
