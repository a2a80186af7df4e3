// FilePath: internal/repository/memory/memory.go
//
// In-memory directory repositories. Used by the test suite and by standalone
// deployments that keep the directory in the hub's config file instead of
// Postgres. Semantics mirror the postgres package.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/repository"
)

// MonitorRepo is a map-backed MonitorRepository.
type MonitorRepo struct {
	mu       sync.RWMutex
	monitors map[string]*models.Monitor
	order    []string
}

func NewMonitorRepository() *MonitorRepo {
	return &MonitorRepo{monitors: make(map[string]*models.Monitor)}
}

func (r *MonitorRepo) Create(ctx context.Context, monitor *models.Monitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.monitors[monitor.ID]; ok {
		return repository.ErrDuplicate
	}
	monitor.CreatedAt = time.Now().UTC()
	monitor.UpdatedAt = monitor.CreatedAt
	clone := *monitor
	r.monitors[monitor.ID] = &clone
	r.order = append(r.order, monitor.ID)
	return nil
}

func (r *MonitorRepo) Get(ctx context.Context, id string) (*models.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	monitor, ok := r.monitors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *monitor
	return &clone, nil
}

func (r *MonitorRepo) GetByName(ctx context.Context, name string) (*models.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if m, ok := r.monitors[id]; ok && m.Name == name {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MonitorRepo) Resolve(ctx context.Context, key, name string) (*models.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if m, ok := r.monitors[id]; ok && m.Key == key && m.Name == name {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MonitorRepo) Update(ctx context.Context, monitor *models.Monitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.monitors[monitor.ID]
	if !ok {
		return repository.ErrNotFound
	}
	monitor.CreatedAt = existing.CreatedAt
	monitor.UpdatedAt = time.Now().UTC()
	clone := *monitor
	r.monitors[monitor.ID] = &clone
	return nil
}

func (r *MonitorRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.monitors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.monitors, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MonitorRepo) List(ctx context.Context) ([]*models.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	monitors := make([]*models.Monitor, 0, len(r.order))
	for _, id := range r.order {
		if m, ok := r.monitors[id]; ok {
			clone := *m
			monitors = append(monitors, &clone)
		}
	}
	return monitors, nil
}

// ZoneRepo is a map-backed ZoneRepository.
type ZoneRepo struct {
	mu    sync.RWMutex
	zones map[string]*models.Zone
	order []string
}

func NewZoneRepository() *ZoneRepo {
	return &ZoneRepo{zones: make(map[string]*models.Zone)}
}

func (r *ZoneRepo) Create(ctx context.Context, zone *models.Zone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[zone.ID]; ok {
		return repository.ErrDuplicate
	}
	zone.CreatedAt = time.Now().UTC()
	zone.UpdatedAt = zone.CreatedAt
	r.zones[zone.ID] = cloneZone(zone)
	r.order = append(r.order, zone.ID)
	return nil
}

func (r *ZoneRepo) Get(ctx context.Context, id string) (*models.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	zone, ok := r.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneZone(zone), nil
}

func (r *ZoneRepo) Update(ctx context.Context, zone *models.Zone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.zones[zone.ID]
	if !ok {
		return repository.ErrNotFound
	}
	zone.CreatedAt = existing.CreatedAt
	zone.UpdatedAt = time.Now().UTC()
	r.zones[zone.ID] = cloneZone(zone)
	return nil
}

func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.zones, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ZoneRepo) List(ctx context.Context) ([]*models.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	zones := make([]*models.Zone, 0, len(r.order))
	for _, id := range r.order {
		if z, ok := r.zones[id]; ok {
			zones = append(zones, cloneZone(z))
		}
	}
	return zones, nil
}

func cloneZone(zone *models.Zone) *models.Zone {
	clone := *zone
	clone.Monitors = append([]string(nil), zone.Monitors...)
	return &clone
}

// AccountRepo is a map-backed AccountRepository.
type AccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	order    []string
}

func NewAccountRepository() *AccountRepo {
	return &AccountRepo{accounts: make(map[string]*models.Account)}
}

func (r *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return repository.ErrDuplicate
	}
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = cloneAccount(account)
	r.order = append(r.order, account.ID)
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if a, ok := r.accounts[id]; ok && a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepo) Update(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[account.ID]
	if !ok {
		return repository.ErrNotFound
	}
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now().UTC()
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.accounts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]*models.Account, 0, len(r.order))
	for _, id := range r.order {
		if a, ok := r.accounts[id]; ok {
			accounts = append(accounts, cloneAccount(a))
		}
	}
	return accounts, nil
}

func cloneAccount(account *models.Account) *models.Account {
	clone := *account
	clone.Permissions = append([]string(nil), account.Permissions...)
	return &clone
}
