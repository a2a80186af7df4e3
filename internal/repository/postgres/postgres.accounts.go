// FilePath: internal/repository/postgres/postgres.accounts.go
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

type AccountRepo struct {
	PostgresBaseRepo
}

func NewAccountRepository(db database.DB) *AccountRepo {
	repo := &PostgresBaseRepo{db: db}
	return &AccountRepo{PostgresBaseRepo: *repo}
}

func (r *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt

	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO accounts (id, username, password, created_at, updated_at)
		VALUES (:id, :username, :password, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, account); err != nil {
		return errors.NewDatabaseError("failed to create account", err)
	}

	if err := insertPermissions(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit account", err)
	}
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT * FROM accounts WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to get account", err)
	}
	if err := r.loadPermissions(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT * FROM accounts WHERE username = $1`

	err := r.db.GetDB().GetContext(ctx, account, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, errors.NewDatabaseError("failed to get account by username", err)
	}
	if err := r.loadPermissions(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepo) Update(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()

	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE accounts SET
			username = :username,
			password = :password,
			updated_at = :updated_at
		WHERE id = :id`
	result, err := tx.NamedExecContext(ctx, query, account)
	if err != nil {
		return errors.NewDatabaseError("failed to update account", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to read update result", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM account_permissions WHERE account_id = $1`, account.ID); err != nil {
		return errors.NewDatabaseError("failed to clear account permissions", err)
	}
	if err := insertPermissions(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit account", err)
	}
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete account", err)
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

func (r *AccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	accounts := []*models.Account{}
	query := `SELECT * FROM accounts ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list accounts", err)
	}
	for _, account := range accounts {
		if err := r.loadPermissions(ctx, account); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (r *AccountRepo) loadPermissions(ctx context.Context, account *models.Account) error {
	permissions := []string{}
	query := `SELECT permission FROM account_permissions WHERE account_id = $1 ORDER BY permission ASC`

	err := r.db.GetDB().SelectContext(ctx, &permissions, query, account.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to load account permissions", err)
	}
	account.Permissions = permissions
	return nil
}

func insertPermissions(ctx context.Context, tx execer, account *models.Account) error {
	query := `INSERT INTO account_permissions (account_id, permission) VALUES ($1, $2)`
	for _, permission := range account.Permissions {
		if _, err := tx.ExecContext(ctx, query, account.ID, permission); err != nil {
			return errors.NewDatabaseError("failed to insert account permission", err)
		}
	}
	return nil
}
