// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

const metricPrefix = "sfp_hub_"

var (
	registerOnce sync.Once

	ingestRequests *prometheus.CounterVec
	loginAttempts  *prometheus.CounterVec
	resetRequests  prometheus.Counter
	liveUnits      prometheus.Gauge
	activeSessions prometheus.Gauge
)

// Service provides monitoring functionality
type Service struct{}

// NewService registers the hub metrics (once) and returns the service.
func NewService() *Service {
	registerOnce.Do(func() {
		ingestRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_requests_total",
				Help: "Ingestion requests by kind and result",
			},
			[]string{"kind", "result"},
		)
		loginAttempts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		)
		resetRequests = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reset_requests_total",
				Help: "Counter reset requests accepted",
			},
		)
		liveUnits = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "live_units",
				Help: "Edge units currently within the staleness threshold",
			},
		)
		activeSessions = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "active_sessions",
				Help: "Session tokens currently held",
			},
		)
		prometheus.MustRegister(ingestRequests, loginAttempts, resetRequests, liveUnits, activeSessions)
	})
	return &Service{}
}

// Handler returns the /metrics HTTP handler.
func (s *Service) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordIngest counts one connect/report request.
func (s *Service) RecordIngest(kind, result string) {
	ingestRequests.WithLabelValues(kind, result).Inc()
}

// RecordLogin counts one login attempt.
func (s *Service) RecordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// RecordReset counts one accepted reset request.
func (s *Service) RecordReset() {
	resetRequests.Inc()
}

// SetLiveUnits updates the live-unit gauge.
func (s *Service) SetLiveUnits(n int) {
	liveUnits.Set(float64(n))
}

// SetActiveSessions updates the session gauge.
func (s *Service) SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RecordEvent logs a monitored event with labels.
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	nuts.L.Infof("[Monitoring] Event %s with labels: %v", eventName, labels)
}
