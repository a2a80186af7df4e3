// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smartflowpark/hub/internal/auth"
	"github.com/smartflowpark/hub/internal/errors"
)

type contextKey string

const (
	tokenKey     contextKey = "token"
	principalKey contextKey = "principal"
)

// SessionMiddleware authenticates requests against the in-process session
// authority. Permission checks stay in the handlers: the wire contract
// requires the type parameter to be validated between token validation and
// the permission check.
type SessionMiddleware struct {
	authority *auth.Authority
}

func NewSessionMiddleware(authority *auth.Authority) *SessionMiddleware {
	return &SessionMiddleware{authority: authority}
}

// Authenticate validates the session token and adds the principal to the
// request context. A missing header is 401; an unknown or expired token is
// 403, matching the existing dashboard clients.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("Authorization token required", nil))
			return
		}

		principal, err := m.authority.Authorize(token, "")
		if err != nil {
			handleError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)
		ctx = context.WithValue(ctx, principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken reads the session token from the Authorization header. The
// deployed edge clients send the raw token; a Bearer prefix is tolerated.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return header
}

// TokenFromContext returns the validated token stored by Authenticate.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// PrincipalFromContext returns the principal stored by Authenticate.
func PrincipalFromContext(ctx context.Context) *auth.Principal {
	principal, _ := ctx.Value(principalKey).(*auth.Principal)
	return principal
}

func handleError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "Internal Server Error"
	if apiErr, ok := err.(*errors.APIError); ok {
		code = apiErr.Code
		message = apiErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ERROR",
		"message": message,
	})
}
