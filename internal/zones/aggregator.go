// FilePath: internal/zones/aggregator.go
//
// Zone aggregation reduces the live counts of a zone's member monitors to a
// single value. Aggregation is a pure read: it never mutates the registry,
// and members read at slightly different instants are acceptable.
package zones

import (
	"context"
	"math"

	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/registry"
	"github.com/smartflowpark/hub/internal/repository"
)

// Aggregator computes per-zone occupancy from registry state.
type Aggregator struct {
	monitors repository.MonitorRepository
	registry *registry.Registry
}

// NewAggregator creates an Aggregator over the given directory and registry.
func NewAggregator(monitors repository.MonitorRepository, reg *registry.Registry) *Aggregator {
	return &Aggregator{monitors: monitors, registry: reg}
}

// Compute resolves the zone's member names through the directory, keeps only
// live registry entries and combines their counts under the zone's mode. A
// zone with no live members computes to 0 regardless of mode. Member names
// that no longer resolve are skipped.
func (a *Aggregator) Compute(ctx context.Context, zone *models.Zone) (int, error) {
	counts := make([]int, 0, len(zone.Monitors))
	for _, name := range zone.Monitors {
		monitor, err := a.monitors.GetByName(ctx, name)
		if err != nil {
			if err == repository.ErrNotFound {
				continue
			}
			return 0, err
		}
		snapshot, ok := a.registry.Lookup(monitor.Key, monitor.Name)
		if !ok || !snapshot.Live {
			continue
		}
		counts = append(counts, snapshot.PeopleCount)
	}
	return Combine(zone.Mode, counts), nil
}

// Combine reduces counts under the given mode. An unknown mode falls back to
// max, matching the directory default.
func Combine(mode models.ZoneMode, counts []int) int {
	if len(counts) == 0 {
		return 0
	}
	switch mode {
	case models.ZoneModeMin:
		minimum := counts[0]
		for _, c := range counts[1:] {
			if c < minimum {
				minimum = c
			}
		}
		return minimum
	case models.ZoneModeAvg:
		sum := 0
		for _, c := range counts {
			sum += c
		}
		// Half-up rounding, not banker's: a deliberate compatibility
		// choice with recorded reference values.
		return int(math.Round(float64(sum) / float64(len(counts))))
	case models.ZoneModeSum:
		sum := 0
		for _, c := range counts {
			sum += c
		}
		return sum
	default: // max
		maximum := counts[0]
		for _, c := range counts[1:] {
			if c > maximum {
				maximum = c
			}
		}
		return maximum
	}
}
