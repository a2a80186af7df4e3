// FilePath: api/resources/api.resource.ingest.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// IngestHandlers encapsulates the edge-unit facing endpoints
type IngestHandlers struct {
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

type connectRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type updateCountRequest struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	PeopleCount *int   `json:"people_count"`
	Image       string `json:"image"`
}

// @Summary Announce an edge unit
// @Description Validate the unit's key/name identity and (re)register it in the live registry
// @Tags ingest
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /connect [post]
func (h *IngestHandlers) Connect(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Name == "" {
		h.monitoring.RecordIngest("connect", "malformed")
		respondWithError(w, errors.NewValidationError("Key and name are required", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.Connect(r.Context(), req.Key, req.Name); err != nil {
		h.monitoring.RecordIngest("connect", "rejected")
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	h.monitoring.RecordIngest("connect", "ok")
	h.monitoring.SetLiveUnits(h.hubservice.LiveUnitCount())
	respondWithJSON(w, http.StatusOK, map[string]any{
		"key":  req.Key,
		"name": req.Name,
	})
}

// @Summary Report an occupancy count
// @Description Record a periodic occupancy report; the image field is optional and the previous image is retained when omitted
// @Tags ingest
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /update_count [post]
func (h *IngestHandlers) UpdateCount(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req updateCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Name == "" || req.PeopleCount == nil {
		h.monitoring.RecordIngest("report", "malformed")
		respondWithError(w, errors.NewValidationError("Missing required fields", err).WithRequestID(requestID))
		return
	}

	resetAck, err := h.hubservice.UpdateCount(r.Context(), req.Key, req.Name, *req.PeopleCount, req.Image)
	if err != nil {
		h.monitoring.RecordIngest("report", "rejected")
		respondWithError(w, asAPIError(err, requestID))
		return
	}

	h.monitoring.RecordIngest("report", "ok")
	h.monitoring.SetLiveUnits(h.hubservice.LiveUnitCount())

	payload := map[string]any{}
	if resetAck {
		payload["action"] = "Reset Counter"
	}
	respondWithJSON(w, http.StatusOK, payload)
}
