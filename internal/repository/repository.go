// FilePath: internal/repository/repository.go
//
// The directory service. Monitor identities, zone definitions and dashboard
// accounts are owned by an external store; everything in this package is the
// lookup/CRUD surface the hub consumes. Live occupancy state deliberately
// lives elsewhere (internal/registry) and is never persisted.
package repository

import (
	"context"
	"errors"

	"github.com/smartflowpark/hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// MonitorRepository defines the interface for monitor directory operations
type MonitorRepository interface {
	Create(ctx context.Context, monitor *models.Monitor) error
	Get(ctx context.Context, id string) (*models.Monitor, error)
	GetByName(ctx context.Context, name string) (*models.Monitor, error)
	// Resolve validates a key/name identity pair; ErrNotFound when unknown.
	Resolve(ctx context.Context, key, name string) (*models.Monitor, error)
	Update(ctx context.Context, monitor *models.Monitor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Monitor, error)
}

// ZoneRepository defines the interface for zone directory operations
type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	Get(ctx context.Context, id string) (*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Zone, error)
}

// AccountRepository defines the interface for account directory operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Account, error)
}
