// FilePath: api/resources/api.resource.app.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/smartflowpark/hub/api/middleware"
	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// AppHandlers serves the token-gated dashboard API: live views of monitors
// and zones, and CRUD against the directory.
type AppHandlers struct {
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

type appQuery struct {
	Type string `schema:"type"`
	ID   string `schema:"id"`
}

// permissionFor maps a resource type to the required token scope.
func permissionFor(resourceType string) (string, bool) {
	switch resourceType {
	case "monitors":
		return models.PermissionMonitor, true
	case "zones":
		return models.PermissionZone, true
	case "accounts":
		return models.PermissionHome, true
	}
	return "", false
}

// @Summary Dashboard data API
// @Description Read live monitor/zone views and manage directory records; gated per resource type by token permission
// @Tags app
// @Accept json
// @Produce json
// @Param type query string true "monitors | zones | accounts"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /app [get]
// @Security BearerAuth
func (h *AppHandlers) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var query appQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("Invalid query parameters", err).WithRequestID(requestID))
		return
	}

	// Type validation sits between token validation (middleware) and the
	// permission check, per the wire contract.
	permission, ok := permissionFor(query.Type)
	if !ok {
		respondWithError(w, errors.NewValidationError("Invalid type parameter", nil).WithRequestID(requestID))
		return
	}

	token := middleware.TokenFromContext(r.Context())
	if _, err := h.hubservice.Authority.Authorize(token, permission); err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, query, requestID)
	case http.MethodPost:
		h.handlePost(w, r, query, requestID)
	case http.MethodPut:
		h.handlePut(w, r, query, requestID)
	case http.MethodDelete:
		h.handleDelete(w, r, query, requestID)
	default:
		respondWithError(w, &errors.APIError{
			Type:    errors.ErrorTypeValidation,
			Message: "Method not allowed",
			Code:    http.StatusMethodNotAllowed,
		})
	}
}

func (h *AppHandlers) handleGet(w http.ResponseWriter, r *http.Request, query appQuery, requestID string) {
	switch query.Type {
	case "monitors":
		statuses, err := h.hubservice.MonitorStatuses(r.Context())
		if err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		h.monitoring.SetLiveUnits(h.hubservice.LiveUnitCount())
		respondWithJSON(w, http.StatusOK, map[string]any{"data": statuses})
	case "zones":
		statuses, err := h.hubservice.ZoneStatuses(r.Context())
		if err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"data": statuses})
	case "accounts":
		accounts, err := h.hubservice.ListAccounts(r.Context())
		if err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"data": accounts})
	}
}

type resetRequest struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Name   string `json:"name"`
}

func (h *AppHandlers) handlePost(w http.ResponseWriter, r *http.Request, query appQuery, requestID string) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
		return
	}

	switch query.Type {
	case "monitors":
		// A reset action is a live-registry operation, not a directory
		// mutation.
		var reset resetRequest
		if err := json.Unmarshal(raw, &reset); err == nil && reset.Action == "reset" {
			h.handleReset(w, reset, requestID)
			return
		}

		var monitor models.Monitor
		if err := json.Unmarshal(raw, &monitor); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		if err := h.hubservice.CreateMonitor(r.Context(), &monitor); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]any{"message": "Monitor added"})
	case "zones":
		var zone models.Zone
		if err := json.Unmarshal(raw, &zone); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		if err := h.hubservice.CreateZone(r.Context(), &zone); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]any{"message": "Zone added"})
	case "accounts":
		var account models.Account
		if err := json.Unmarshal(raw, &account); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		if err := h.hubservice.CreateAccount(r.Context(), &account); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]any{"message": "Account added"})
	}
}

func (h *AppHandlers) handleReset(w http.ResponseWriter, reset resetRequest, requestID string) {
	if reset.Key == "" || reset.Name == "" {
		respondWithError(w, errors.NewValidationError("Missing key or name", nil).WithRequestID(requestID))
		return
	}
	if err := h.hubservice.ResetCounter(reset.Key, reset.Name); err != nil {
		respondWithError(w, asAPIError(err, requestID))
		return
	}
	h.monitoring.RecordReset()
	respondWithJSON(w, http.StatusOK, map[string]any{"message": "People counter reset"})
}

func (h *AppHandlers) handlePut(w http.ResponseWriter, r *http.Request, query appQuery, requestID string) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, errors.NewValidationError("Invalid data or missing id", err).WithRequestID(requestID))
		return
	}
	idRaw, ok := fields["id"]
	var id string
	if !ok || json.Unmarshal(idRaw, &id) != nil || id == "" {
		respondWithError(w, errors.NewValidationError("Invalid data or missing id", nil).WithRequestID(requestID))
		return
	}

	body, err := json.Marshal(fields)
	if err != nil {
		respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
		return
	}

	switch query.Type {
	case "monitors":
		var monitor models.Monitor
		if err := json.Unmarshal(body, &monitor); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		monitor.ID = id
		if err := h.hubservice.UpdateMonitor(r.Context(), &monitor); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Monitor updated"})
	case "zones":
		var zone models.Zone
		if err := json.Unmarshal(body, &zone); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		zone.ID = id
		if err := h.hubservice.UpdateZone(r.Context(), &zone); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Zone updated"})
	case "accounts":
		// The server's own bind address travels in the same settings
		// store; accounts may not rewrite it.
		if _, found := fields["ip"]; found {
			respondWithError(w, errors.NewAuthorizationError("Cannot modify server IP or port", nil).WithRequestID(requestID))
			return
		}
		if _, found := fields["port"]; found {
			respondWithError(w, errors.NewAuthorizationError("Cannot modify server IP or port", nil).WithRequestID(requestID))
			return
		}
		var account models.Account
		if err := json.Unmarshal(body, &account); err != nil {
			respondWithError(w, errors.NewValidationError("Invalid data", err).WithRequestID(requestID))
			return
		}
		account.ID = id
		if err := h.hubservice.UpdateAccount(r.Context(), &account); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Account updated"})
	}
}

func (h *AppHandlers) handleDelete(w http.ResponseWriter, r *http.Request, query appQuery, requestID string) {
	if query.ID == "" {
		respondWithError(w, errors.NewValidationError("Missing id", nil).WithRequestID(requestID))
		return
	}

	switch query.Type {
	case "monitors":
		if err := h.hubservice.DeleteMonitor(r.Context(), query.ID); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Monitor deleted"})
	case "zones":
		if err := h.hubservice.DeleteZone(r.Context(), query.ID); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Zone deleted"})
	case "accounts":
		if err := h.hubservice.DeleteAccount(r.Context(), query.ID); err != nil {
			respondWithError(w, asAPIError(err, requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"message": "Account deleted"})
	}
}
