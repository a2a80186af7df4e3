// FilePath: api/api.router_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartflowpark/hub/internal/auth"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/monitoring"
	"github.com/smartflowpark/hub/internal/registry"
	"github.com/smartflowpark/hub/internal/repository/memory"
	"github.com/smartflowpark/hub/internal/timeutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router *Router
	clock  *timeutil.MockClock
	svc    *hubservice.HubService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	monitors := memory.NewMonitorRepository()
	require.NoError(t, monitors.Create(ctx, &models.Monitor{
		ID: "mon_1", Name: "gate-a", Key: "unit-key",
	}))

	zoneRepo := memory.NewZoneRepository()
	require.NoError(t, zoneRepo.Create(ctx, &models.Zone{
		ID: "zon_1", Name: "plaza", Mode: models.ZoneModeSum, Monitors: []string{"gate-a"},
	}))

	accounts := memory.NewAccountRepository()
	require.NoError(t, accounts.Create(ctx, &models.Account{
		ID: "acc_admin", Username: "admin", Password: "secret",
		Permissions: []string{models.PermissionHome, models.PermissionZone, models.PermissionMonitor},
	}))
	require.NoError(t, accounts.Create(ctx, &models.Account{
		ID: "acc_viewer", Username: "viewer", Password: "secret",
		Permissions: []string{models.PermissionMonitor},
	}))

	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	reg := registry.New(monitors, clock, 15*time.Second)
	authority := auth.NewAuthority(accounts, clock, 8*time.Hour)
	svc := hubservice.New(monitors, zoneRepo, accounts, reg, authority, nil)

	return &fixture{
		router: NewRouter(svc, monitoring.NewService()),
		clock:  clock,
		svc:    svc,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (f *fixture) login(t *testing.T, username, password string) string {
	t.Helper()
	rec, body := f.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginValidation(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/login", "", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "ERROR", body["status"])

	rec, body = f.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", body["message"])
}

func TestLoginReturnsPermissions(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "viewer", "password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", body["status"])
	require.Equal(t, []any{"monitor"}, body["permissions"])
}

func TestConnectValidation(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := f.do(t, http.MethodPost, "/connect", "", map[string]string{
		"key": "wrong", "name": "gate-a",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid key or name", body["message"])

	rec, body = f.do(t, http.MethodPost, "/connect", "", map[string]string{
		"key": "unit-key", "name": "gate-a",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", body["status"])
	require.Equal(t, "gate-a", body["name"])
}

func TestUpdateCountRequiresConnect(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 3,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Client not connected", body["message"])
}

func TestUpdateCountMissingCountField(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key", "name": "gate-a"})

	rec, _ := f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// An explicit zero is a valid count, not a missing field.
	rec, _ = f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReportThenQueryMonitors(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key", "name": "gate-a"})

	f.clock.Advance(2 * time.Second)
	rec, _ := f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 6, "image": "frame-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	token := f.login(t, "admin", "secret")
	rec, body := f.do(t, http.MethodGet, "/app?type=monitors", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	require.Equal(t, "gate-a", row["name"])
	require.Equal(t, "OK", row["status"])
	require.Equal(t, 6.0, row["people_count"])
	require.Equal(t, "frame-1", row["image"])
	require.Equal(t, 2000.0, row["delay"])
}

func TestStaleMonitorReadsAsError(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key", "name": "gate-a"})
	f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 6,
	})

	f.clock.Advance(16 * time.Second)
	token := f.login(t, "admin", "secret")
	rec, body := f.do(t, http.MethodGet, "/app?type=monitors", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	row := body["data"].([]any)[0].(map[string]any)
	require.Equal(t, "ERROR", row["status"])
	require.Equal(t, 0.0, row["people_count"])
}

func TestZoneQuery(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key", "name": "gate-a"})
	f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 5,
	})

	token := f.login(t, "admin", "secret")
	rec, body := f.do(t, http.MethodGet, "/app?type=zones", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	row := body["data"].([]any)[0].(map[string]any)
	require.Equal(t, "plaza", row["name"])
	require.Equal(t, 5.0, row["people_count"])
}

func TestAppAuthOrdering(t *testing.T) {
	f := newFixture(t)

	// Missing header before anything else: 401.
	rec, body := f.do(t, http.MethodGet, "/app?type=bogus", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Authorization token required", body["message"])

	// Invalid token: 403, still before type validation.
	rec, body = f.do(t, http.MethodGet, "/app?type=bogus", "not-a-token", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid or expired token", body["message"])

	// Valid token, bad type: 400.
	token := f.login(t, "admin", "secret")
	rec, body = f.do(t, http.MethodGet, "/app?type=bogus", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid type parameter", body["message"])

	// Valid token and type, missing permission: 403.
	viewerToken := f.login(t, "viewer", "secret")
	rec, _ = f.do(t, http.MethodGet, "/app?type=accounts", viewerToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The viewer's own scope still works.
	rec, _ = f.do(t, http.MethodGet, "/app?type=monitors", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "admin", "secret")

	f.clock.Advance(8 * time.Hour)
	rec, body := f.do(t, http.MethodGet, "/app?type=monitors", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Token has expired", body["message"])
}

func TestBearerPrefixTolerated(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "admin", "secret")

	rec, _ := f.do(t, http.MethodGet, "/app?type=monitors", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResetFlow(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/connect", "", map[string]string{"key": "unit-key", "name": "gate-a"})
	f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 9,
	})

	token := f.login(t, "admin", "secret")

	rec, _ := f.do(t, http.MethodPost, "/app?type=monitors", token, map[string]string{
		"action": "reset", "key": "unit-key",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, "reset needs both key and name")

	rec, body := f.do(t, http.MethodPost, "/app?type=monitors", token, map[string]string{
		"action": "reset", "key": "unit-key", "name": "gate-a",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "People counter reset", body["message"])

	// The next report carries the one-shot acknowledgment.
	rec, body = f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Reset Counter", body["action"])

	// And only that one.
	_, body = f.do(t, http.MethodPost, "/update_count", "", map[string]any{
		"key": "unit-key", "name": "gate-a", "people_count": 0,
	})
	require.Nil(t, body["action"])
}

func TestResetUnconnectedMonitor(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "admin", "secret")

	rec, _ := f.do(t, http.MethodPost, "/app?type=monitors", token, map[string]string{
		"action": "reset", "key": "unit-key", "name": "gate-a",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonitorCRUD(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "admin", "secret")

	rec, _ := f.do(t, http.MethodPost, "/app?type=monitors", token, map[string]string{
		"name": "gate-b", "key": "second-key",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, body := f.do(t, http.MethodGet, "/app?type=monitors", token, nil)
	rows := body["data"].([]any)
	require.Len(t, rows, 2)
	newID := rows[1].(map[string]any)["id"].(string)
	require.NotEmpty(t, newID)

	rec, _ = f.do(t, http.MethodPut, "/app?type=monitors", token, map[string]string{
		"id": newID, "name": "gate-b", "key": "rotated-key",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Update without an id is rejected.
	rec, _ = f.do(t, http.MethodPut, "/app?type=monitors", token, map[string]string{
		"name": "gate-b",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/app?type=monitors&id="+newID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/app?type=monitors&id="+newID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/app?type=monitors", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountUpdateCannotTouchServerAddress(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "admin", "secret")

	rec, body := f.do(t, http.MethodPut, "/app?type=accounts", token, map[string]any{
		"id": "acc_viewer", "ip": "10.0.0.1",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Cannot modify server IP or port", body["message"])

	rec, _ = f.do(t, http.MethodPut, "/app?type=accounts", token, map[string]any{
		"id": "acc_viewer", "port": 9999,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)
	rec, body := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "sfp_hub_")
}
