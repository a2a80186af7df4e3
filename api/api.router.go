// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/smartflowpark/hub/api/middleware"
	"github.com/smartflowpark/hub/api/resources"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/monitoring"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.SessionMiddleware
	resources *resources.Resources
}

// NewRouter wires the wire contract the deployed edge units and dashboard
// clients speak. The paths are fixed; renaming any of them strands fielded
// devices.
func NewRouter(svc *hubservice.HubService, mon *monitoring.Service) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewSessionMiddleware(svc.Authority),
		resources: resources.NewResources(svc, mon),
	}

	r.setupRoutes(mon)
	return r
}

func (r *Router) setupRoutes(mon *monitoring.Service) {
	// Public routes: edge units authenticate by key/name in the body, not
	// by session token.
	r.router.HandleFunc("/login", r.resources.Session.Login).Methods(http.MethodPost)
	r.router.HandleFunc("/connect", r.resources.Ingest.Connect).Methods(http.MethodPost)
	r.router.HandleFunc("/update_count", r.resources.Ingest.UpdateCount).Methods(http.MethodPost)

	r.router.HandleFunc("/health", r.healthHandler).Methods(http.MethodGet)
	r.router.Handle("/metrics", mon.Handler()).Methods(http.MethodGet)

	// Protected routes
	protected := r.router.PathPrefix("/app").Subrouter()
	protected.Use(r.auth.Authenticate)
	protected.HandleFunc("", r.resources.App.Handle).
		Methods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
}

func (r *Router) healthHandler(w http.ResponseWriter, req *http.Request) {
	if r.resources.HealthCheck != nil {
		r.resources.HealthCheck(w, req)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"OK"}`))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
