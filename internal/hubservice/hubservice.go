// FilePath: internal/hubservice/hubservice.go
package hubservice

import (
	"github.com/smartflowpark/hub/internal/auth"
	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/events"
	"github.com/smartflowpark/hub/internal/registry"
	"github.com/smartflowpark/hub/internal/repository"
	"github.com/smartflowpark/hub/internal/zones"
)

// HubService contains the directory repositories, the live registry, the
// session authority and service-wide dependencies
type HubService struct {
	Monitors   repository.MonitorRepository
	Zones      repository.ZoneRepository
	Accounts   repository.AccountRepository
	Registry   *registry.Registry
	Authority  *auth.Authority
	Aggregator *zones.Aggregator
	Publisher  events.Publisher
}

// New creates a new HubService instance
func New(
	monitors repository.MonitorRepository,
	zoneRepo repository.ZoneRepository,
	accounts repository.AccountRepository,
	reg *registry.Registry,
	authority *auth.Authority,
	publisher events.Publisher,
) *HubService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &HubService{
		Monitors:   monitors,
		Zones:      zoneRepo,
		Accounts:   accounts,
		Registry:   reg,
		Authority:  authority,
		Aggregator: zones.NewAggregator(monitors, reg),
		Publisher:  publisher,
	}
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Monitors == nil {
		return ErrMissingDependency("monitors")
	}
	if s.Zones == nil {
		return ErrMissingDependency("zones")
	}
	if s.Accounts == nil {
		return ErrMissingDependency("accounts")
	}
	if s.Registry == nil {
		return ErrMissingDependency("registry")
	}
	if s.Authority == nil {
		return ErrMissingDependency("authority")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}
