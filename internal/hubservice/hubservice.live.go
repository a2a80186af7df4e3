// FilePath: internal/hubservice/hubservice.live.go
package hubservice

import (
	"context"

	"github.com/smartflowpark/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Connect announces an edge unit in the live registry.
func (s *HubService) Connect(ctx context.Context, key, name string) error {
	return s.Registry.Announce(ctx, key, name)
}

// UpdateCount records an occupancy report and publishes the update. The
// returned bool tells the transport layer to instruct the unit to zero its
// local counter.
func (s *HubService) UpdateCount(ctx context.Context, key, name string, count int, image string) (bool, error) {
	resetAck, err := s.Registry.Report(ctx, key, name, count, image)
	if err != nil {
		return false, err
	}
	if err := s.Publisher.PublishReport(ctx, key, name, count); err != nil {
		// Publishing is best-effort; the report itself is committed.
		nuts.L.Errorf("[HubService] Failed to publish report for %s: %v", models.ClientID(key, name), err)
	}
	return resetAck, nil
}

// ResetCounter flags a unit for a counter reset.
func (s *HubService) ResetCounter(key, name string) error {
	return s.Registry.RequestReset(key, name)
}

// MonitorStatuses returns one row per directory monitor merged with live
// registry state. Units that never announced or have gone stale read as
// status ERROR with zeroed fields.
func (s *HubService) MonitorStatuses(ctx context.Context) ([]models.MonitorStatus, error) {
	monitors, err := s.Monitors.List(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.MonitorStatus, 0, len(monitors))
	for _, monitor := range monitors {
		status := models.MonitorStatus{
			ID:     monitor.ID,
			Name:   monitor.Name,
			Key:    monitor.Key,
			Status: models.StatusStale,
		}
		if snapshot, ok := s.Registry.Lookup(monitor.Key, monitor.Name); ok && snapshot.Live {
			status.Status = models.StatusLive
			status.PeopleCount = snapshot.PeopleCount
			status.Image = snapshot.Image
			status.Delay = snapshot.DelayMs
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ZoneStatuses returns one row per directory zone with its computed count.
func (s *HubService) ZoneStatuses(ctx context.Context) ([]models.ZoneStatus, error) {
	zoneList, err := s.Zones.List(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.ZoneStatus, 0, len(zoneList))
	for _, zone := range zoneList {
		count, err := s.Aggregator.Compute(ctx, zone)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, models.ZoneStatus{
			ID:          zone.ID,
			Name:        zone.Name,
			Mode:        zone.Mode,
			Monitors:    zone.Monitors,
			PeopleCount: count,
		})
	}
	return statuses, nil
}

// LiveUnitCount returns how many registry entries are currently live.
// Exposed for the metrics gauge.
func (s *HubService) LiveUnitCount() int {
	live := 0
	for _, snapshot := range s.Registry.Snapshot() {
		if snapshot.Live {
			live++
		}
	}
	return live
}
