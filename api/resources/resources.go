// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Session     *SessionHandlers
	Ingest      *IngestHandlers
	App         *AppHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService, mon *monitoring.Service) *Resources {
	return &Resources{
		Session: &SessionHandlers{hubservice: svc, monitoring: mon},
		Ingest:  &IngestHandlers{hubservice: svc, monitoring: mon},
		App:     &AppHandlers{hubservice: svc, monitoring: mon},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// Helper functions. Every response carries the status envelope the deployed
// edge units and dashboard clients parse.

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ERROR",
		"message": err.Message,
	})
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["status"]; !ok {
		payload["status"] = "OK"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func asAPIError(err error, requestID string) *errors.APIError {
	if apiErr, ok := err.(*errors.APIError); ok {
		return apiErr.WithRequestID(requestID)
	}
	return errors.NewInternalError("Internal server error", err).WithRequestID(requestID)
}
