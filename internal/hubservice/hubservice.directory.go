// FilePath: internal/hubservice/hubservice.directory.go
package hubservice

import (
	"context"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Directory CRUD passthrough. The directory store owns these records; the hub
// only validates and forwards. IDs are minted here so both backends behave
// identically.

func (s *HubService) CreateMonitor(ctx context.Context, monitor *models.Monitor) error {
	if monitor.Key == "" || monitor.Name == "" {
		return errors.NewValidationError("key and name are required", nil)
	}
	if monitor.ID == "" {
		monitor.ID = nuts.NID("mon", 12)
	}
	return s.Monitors.Create(ctx, monitor)
}

func (s *HubService) UpdateMonitor(ctx context.Context, monitor *models.Monitor) error {
	if monitor.ID == "" {
		return errors.NewValidationError("missing id", nil)
	}
	if err := s.Monitors.Update(ctx, monitor); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Monitor not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) DeleteMonitor(ctx context.Context, id string) error {
	if err := s.Monitors.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Monitor not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) CreateZone(ctx context.Context, zone *models.Zone) error {
	if zone.Name == "" {
		return errors.NewValidationError("name is required", nil)
	}
	if zone.Mode == "" {
		zone.Mode = models.ZoneModeMax
	}
	if !zone.Mode.Valid() {
		return errors.NewValidationError("invalid zone mode", nil)
	}
	if zone.ID == "" {
		zone.ID = nuts.NID("zon", 12)
	}
	return s.Zones.Create(ctx, zone)
}

func (s *HubService) UpdateZone(ctx context.Context, zone *models.Zone) error {
	if zone.ID == "" {
		return errors.NewValidationError("missing id", nil)
	}
	if zone.Mode != "" && !zone.Mode.Valid() {
		return errors.NewValidationError("invalid zone mode", nil)
	}
	if err := s.Zones.Update(ctx, zone); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Zone not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) DeleteZone(ctx context.Context, id string) error {
	if err := s.Zones.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Zone not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.Username == "" || account.Password == "" {
		return errors.NewValidationError("username and password are required", nil)
	}
	if account.ID == "" {
		account.ID = nuts.NID("acc", 12)
	}
	return s.Accounts.Create(ctx, account)
}

func (s *HubService) UpdateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		return errors.NewValidationError("missing id", nil)
	}
	if err := s.Accounts.Update(ctx, account); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Account not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.Accounts.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("Account not found", err)
		}
		return err
	}
	return nil
}

func (s *HubService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.Accounts.List(ctx)
}
