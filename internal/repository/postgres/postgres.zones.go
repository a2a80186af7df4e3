// FilePath: internal/repository/postgres/postgres.zones.go
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

type ZoneRepo struct {
	PostgresBaseRepo
}

func NewZoneRepository(db database.DB) *ZoneRepo {
	repo := &PostgresBaseRepo{db: db}
	return &ZoneRepo{PostgresBaseRepo: *repo}
}

// Member names live in zone_monitors keyed by zone id; position preserves the
// ordering of the member list.
func (r *ZoneRepo) Create(ctx context.Context, zone *models.Zone) error {
	zone.CreatedAt = time.Now().UTC()
	zone.UpdatedAt = zone.CreatedAt

	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO zones (id, name, mode, created_at, updated_at)
		VALUES (:id, :name, :mode, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, zone); err != nil {
		return errors.NewDatabaseError("failed to create zone", err)
	}

	if err := insertZoneMonitors(ctx, tx, zone); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit zone", err)
	}
	return nil
}

func (r *ZoneRepo) Get(ctx context.Context, id string) (*models.Zone, error) {
	zone := &models.Zone{}
	query := `SELECT * FROM zones WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, zone, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to get zone", err)
	}
	if err := r.loadMonitors(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *ZoneRepo) Update(ctx context.Context, zone *models.Zone) error {
	zone.UpdatedAt = time.Now().UTC()

	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE zones SET
			name = :name,
			mode = :mode,
			updated_at = :updated_at
		WHERE id = :id`
	result, err := tx.NamedExecContext(ctx, query, zone)
	if err != nil {
		return errors.NewDatabaseError("failed to update zone", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to read update result", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM zone_monitors WHERE zone_id = $1`, zone.ID); err != nil {
		return errors.NewDatabaseError("failed to clear zone members", err)
	}
	if err := insertZoneMonitors(ctx, tx, zone); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit zone", err)
	}
	return nil
}

func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM zones WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete zone", err)
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

func (r *ZoneRepo) List(ctx context.Context) ([]*models.Zone, error) {
	zones := []*models.Zone{}
	query := `SELECT * FROM zones ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &zones, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list zones", err)
	}
	for _, zone := range zones {
		if err := r.loadMonitors(ctx, zone); err != nil {
			return nil, err
		}
	}
	return zones, nil
}

func (r *ZoneRepo) loadMonitors(ctx context.Context, zone *models.Zone) error {
	names := []string{}
	query := `SELECT monitor_name FROM zone_monitors WHERE zone_id = $1 ORDER BY position ASC`

	err := r.db.GetDB().SelectContext(ctx, &names, query, zone.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to load zone members", err)
	}
	zone.Monitors = names
	return nil
}

func insertZoneMonitors(ctx context.Context, tx execer, zone *models.Zone) error {
	query := `INSERT INTO zone_monitors (zone_id, monitor_name, position) VALUES ($1, $2, $3)`
	for i, name := range zone.Monitors {
		if _, err := tx.ExecContext(ctx, query, zone.ID, name, i); err != nil {
			return errors.NewDatabaseError("failed to insert zone member", err)
		}
	}
	return nil
}
