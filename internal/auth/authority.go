// FilePath: internal/auth/authority.go
//
// The session authority mints and validates opaque bearer tokens. Tokens are
// held only in process memory; a restart invalidates every session, and the
// only way to extend a session is to log in again.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/smartflowpark/hub/internal/errors"
	"github.com/smartflowpark/hub/internal/repository"
	"github.com/smartflowpark/hub/internal/timeutil"
	nuts "github.com/vaudience/go-nuts"
)

// Principal identifies the authenticated user behind a token.
type Principal struct {
	Username    string
	Permissions []string
}

type session struct {
	username    string
	permissions []string
	expiry      time.Time
}

// Authority issues and validates session tokens. Credential checks delegate
// to the account directory; the authority itself never stores passwords.
type Authority struct {
	mu       sync.Mutex
	sessions map[string]*session
	accounts repository.AccountRepository
	clock    timeutil.Clock
	ttl      time.Duration
}

// NewAuthority creates an Authority with the given token TTL.
func NewAuthority(accounts repository.AccountRepository, clock timeutil.Clock, ttl time.Duration) *Authority {
	return &Authority{
		sessions: make(map[string]*session),
		accounts: accounts,
		clock:    clock,
		ttl:      ttl,
	}
}

// Login checks the credentials against the directory and mints a token
// carrying the account's permission set, expiring after the configured TTL.
func (a *Authority) Login(ctx context.Context, username, password string) (string, []string, error) {
	account, err := a.accounts.GetByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil, errors.NewInvalidCredentialsError()
		}
		return "", nil, err
	}
	if account.Password != password {
		return "", nil, errors.NewInvalidCredentialsError()
	}

	token := nuts.NID("sfp", 32)
	permissions := append([]string(nil), account.Permissions...)

	a.mu.Lock()
	a.sessions[token] = &session{
		username:    username,
		permissions: permissions,
		expiry:      a.clock.Now().Add(a.ttl),
	}
	a.mu.Unlock()

	nuts.L.Infof("[Auth] Session issued for user %s", username)
	return token, permissions, nil
}

// Authorize validates a token and, when requiredPermission is non-empty, the
// permission scope. Expired tokens are evicted as a side effect; expiry is
// checked lazily at use, which is behaviorally identical to immediate
// eviction.
func (a *Authority) Authorize(token, requiredPermission string) (*Principal, error) {
	a.mu.Lock()
	s, ok := a.sessions[token]
	if !ok {
		a.mu.Unlock()
		return nil, errors.NewInvalidTokenError()
	}
	if a.clock.Now().After(s.expiry) || a.clock.Now().Equal(s.expiry) {
		delete(a.sessions, token)
		a.mu.Unlock()
		return nil, errors.NewTokenExpiredError()
	}
	principal := &Principal{
		Username:    s.username,
		Permissions: append([]string(nil), s.permissions...),
	}
	a.mu.Unlock()

	if requiredPermission != "" && !hasPermission(principal.Permissions, requiredPermission) {
		return nil, errors.NewPermissionDeniedError(requiredPermission)
	}
	return principal, nil
}

// Revoke removes a session. Unknown tokens are a no-op.
func (a *Authority) Revoke(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// SweepExpired evicts every expired session and returns the eviction count.
// Purely an optimization; Authorize already treats expired tokens as gone.
func (a *Authority) SweepExpired() int {
	now := a.clock.Now()

	a.mu.Lock()
	defer a.mu.Unlock()
	evicted := 0
	for token, s := range a.sessions {
		if !now.Before(s.expiry) {
			delete(a.sessions, token)
			evicted++
		}
	}
	return evicted
}

// ActiveSessions returns the number of sessions currently held, expired or
// not. Exposed for metrics.
func (a *Authority) ActiveSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func hasPermission(permissions []string, required string) bool {
	for _, p := range permissions {
		if p == required {
			return true
		}
	}
	return false
}
