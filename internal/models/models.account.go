// FilePath: internal/models/models.account.go
package models

import "time"

// Permission scopes carried by session tokens.
const (
	PermissionHome    = "home"
	PermissionZone    = "zone"
	PermissionMonitor = "monitor"
)

// Account is a dashboard user known to the directory. The password field is
// serialized on the accounts view for parity with the existing client; the
// directory, not this service, owns credential storage.
type Account struct {
	ID          string    `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Password    string    `json:"password" db:"password"`
	Permissions []string  `json:"permissions" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// HasPermission reports whether the account carries the given scope.
func (a *Account) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
