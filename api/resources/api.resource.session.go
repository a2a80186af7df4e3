// FilePath: api/resources/api.resource.session.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// SessionHandlers encapsulates the login endpoint
type SessionHandlers struct {
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Log in
// @Description Exchange credentials for a session token with the account's permission scopes
// @Tags session
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		h.monitoring.RecordLogin("malformed")
		respondWithError(w, errors.NewValidationError("Username and password required", err).WithRequestID(requestID))
		return
	}

	token, permissions, err := h.hubservice.Authority.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.monitoring.RecordLogin("denied")
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	h.monitoring.RecordLogin("ok")
	h.monitoring.SetActiveSessions(h.hubservice.Authority.ActiveSessions())
	respondWithJSON(w, http.StatusOK, map[string]any{
		"token":       token,
		"permissions": permissions,
	})
}
