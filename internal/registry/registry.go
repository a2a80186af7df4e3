// FilePath: internal/registry/registry.go
//
// The live registry holds the in-memory, intentionally ephemeral view of
// which edge units are currently reporting. Entries are created on announce,
// overwritten on report and never deleted; absence of recent activity is a
// read-time interpretation (staleness), not a stored state. A process restart
// wipes the registry by design.
package registry

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/repository"
	"github.com/smartflowpark/hub/internal/timeutil"
	nuts "github.com/vaudience/go-nuts"
)

// Event names emitted by the registry.
const (
	EventAnnounced      = "unit.announced"
	EventReported       = "unit.reported"
	EventResetRequested = "unit.reset_requested"
)

// Snapshot is a point-in-time read of one unit's state with the staleness
// rule already applied: a non-live unit reads as count 0, no image, delay 0,
// whatever the stored fields hold.
type Snapshot struct {
	Key         string
	Name        string
	Live        bool
	PeopleCount int
	Image       string
	DelayMs     float64
	LastSeenAt  time.Time
}

type unitState struct {
	key          string
	name         string
	lastSeenAt   time.Time
	peopleCount  int
	image        string
	delayMs      float64
	pendingReset bool
}

// Registry is the live table of edge-unit state. Only the ingestion path
// mutates entries; every mutation runs under the write lock.
type Registry struct {
	mu         sync.RWMutex
	units      map[string]*unitState
	directory  repository.MonitorRepository
	clock      timeutil.Clock
	staleAfter time.Duration
	events     *nuts.EventEmitter
}

// New creates a Registry backed by the given directory for identity
// validation. staleAfter is the staleness threshold applied at read time.
func New(directory repository.MonitorRepository, clock timeutil.Clock, staleAfter time.Duration) *Registry {
	return &Registry{
		units:      make(map[string]*unitState),
		directory:  directory,
		clock:      clock,
		staleAfter: staleAfter,
		events:     nuts.NewEventEmitter(),
	}
}

// Events exposes the registry's event emitter so monitoring and publishers
// can observe announce/report/reset activity without touching the lock.
func (r *Registry) Events() *nuts.EventEmitter {
	return r.events
}

// On registers a callback for a registry event. The callback receives the
// unit's client id.
func (r *Registry) On(event string, handler func(id string)) {
	r.events.On(event, "registry_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}

// Announce registers (or re-registers) a unit after validating its identity
// against the directory. State is reset: count 0, no image, delay 0.
func (r *Registry) Announce(ctx context.Context, key, name string) error {
	if _, err := r.directory.Resolve(ctx, key, name); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewUnknownUnitError(err)
		}
		return err
	}

	id := models.ClientID(key, name)
	now := r.clock.Now()

	r.mu.Lock()
	r.units[id] = &unitState{
		key:        key,
		name:       name,
		lastSeenAt: now,
	}
	r.mu.Unlock()

	nuts.L.Infof("[Registry] Unit %s announced", id)
	r.events.Emit(EventAnnounced, id)
	return nil
}

// Report records an occupancy report. The unit must be directory-known and
// must have announced since the hub started. An empty image keeps the
// previous one. The returned bool is the one-shot reset acknowledgment: true
// exactly once after RequestReset, cleared by this call.
func (r *Registry) Report(ctx context.Context, key, name string, count int, image string) (bool, error) {
	if count < 0 {
		return false, errors.NewInvalidReportError("people_count must be non-negative", nil)
	}
	if _, err := r.directory.Resolve(ctx, key, name); err != nil {
		if err == repository.ErrNotFound {
			return false, errors.NewUnknownUnitError(err)
		}
		return false, err
	}

	id := models.ClientID(key, name)
	now := r.clock.Now()

	r.mu.Lock()
	unit, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return false, errors.NewNotConnectedError(nil)
	}
	if !unit.lastSeenAt.IsZero() {
		unit.delayMs = roundMillis(now.Sub(unit.lastSeenAt))
	} else {
		unit.delayMs = 0
	}
	unit.lastSeenAt = now
	unit.peopleCount = count
	if image != "" {
		unit.image = image
	}
	resetAck := unit.pendingReset
	unit.pendingReset = false
	r.mu.Unlock()

	r.events.Emit(EventReported, id)
	return resetAck, nil
}

// RequestReset flags a unit for a counter reset. The count is zeroed in the
// registry immediately (optimistic); the flag is delivered to the unit as the
// one-shot acknowledgment on its next report. Liveness is not required, only
// that the unit has announced since startup.
func (r *Registry) RequestReset(key, name string) error {
	id := models.ClientID(key, name)

	r.mu.Lock()
	unit, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return errors.NewNotFoundError("Monitor not connected", nil)
	}
	unit.peopleCount = 0
	unit.pendingReset = true
	r.mu.Unlock()

	nuts.L.Infof("[Registry] Reset requested for unit %s", id)
	r.events.Emit(EventResetRequested, id)
	return nil
}

// Lookup returns the snapshot for one identity, false when the unit has never
// announced.
func (r *Registry) Lookup(key, name string) (Snapshot, bool) {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, ok := r.units[models.ClientID(key, name)]
	if !ok {
		return Snapshot{}, false
	}
	return r.snapshotLocked(unit, now), true
}

// Snapshot returns the current view of every unit that has announced since
// startup. Liveness is decided per entry against the clock at call time.
func (r *Registry) Snapshot() []Snapshot {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshots := make([]Snapshot, 0, len(r.units))
	for _, unit := range r.units {
		snapshots = append(snapshots, r.snapshotLocked(unit, now))
	}
	return snapshots
}

func (r *Registry) snapshotLocked(unit *unitState, now time.Time) Snapshot {
	live := now.Sub(unit.lastSeenAt) <= r.staleAfter
	s := Snapshot{
		Key:        unit.key,
		Name:       unit.name,
		Live:       live,
		LastSeenAt: unit.lastSeenAt,
	}
	if live {
		s.PeopleCount = unit.peopleCount
		s.Image = unit.image
		s.DelayMs = unit.delayMs
	}
	return s
}

// roundMillis converts a duration to milliseconds rounded to two decimals,
// matching the wire format the dashboard expects.
func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	return math.Round(ms*100) / 100
}
