// FilePath: internal/repository/postgres/postgres.monitors.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartflowpark/hub/internal/database"
	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/repository"
)

type MonitorRepo struct {
	PostgresBaseRepo
}

func NewMonitorRepository(db database.DB) *MonitorRepo {
	repo := &PostgresBaseRepo{db: db}
	return &MonitorRepo{PostgresBaseRepo: *repo}
}

func (r *MonitorRepo) Create(ctx context.Context, monitor *models.Monitor) error {
	monitor.CreatedAt = time.Now().UTC()
	monitor.UpdatedAt = monitor.CreatedAt

	query := `
		INSERT INTO monitors (id, name, key, location, created_at, updated_at)
		VALUES (:id, :name, :key, :location, :created_at, :updated_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, monitor)
	if err != nil {
		return errors.NewDatabaseError("failed to create monitor", err)
	}
	return nil
}

func (r *MonitorRepo) Get(ctx context.Context, id string) (*models.Monitor, error) {
	monitor := &models.Monitor{}
	query := `SELECT * FROM monitors WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, monitor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to get monitor", err)
	}
	return monitor, nil
}

func (r *MonitorRepo) GetByName(ctx context.Context, name string) (*models.Monitor, error) {
	monitor := &models.Monitor{}
	query := `SELECT * FROM monitors WHERE name = $1`

	err := r.db.GetDB().GetContext(ctx, monitor, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to get monitor by name", err)
	}
	return monitor, nil
}

func (r *MonitorRepo) Resolve(ctx context.Context, key, name string) (*models.Monitor, error) {
	monitor := &models.Monitor{}
	query := `SELECT * FROM monitors WHERE key = $1 AND name = $2`

	err := r.db.GetDB().GetContext(ctx, monitor, query, key, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to resolve monitor identity", err)
	}
	return monitor, nil
}

func (r *MonitorRepo) Update(ctx context.Context, monitor *models.Monitor) error {
	monitor.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE monitors SET
			name = :name,
			key = :key,
			location = :location,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, monitor)
	if err != nil {
		return errors.NewDatabaseError("failed to update monitor", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to read update result", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MonitorRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM monitors WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete monitor", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to read delete result", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MonitorRepo) List(ctx context.Context) ([]*models.Monitor, error) {
	monitors := []*models.Monitor{}
	query := `SELECT * FROM monitors ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &monitors, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list monitors", err)
	}
	return monitors, nil
}
