package jwt

import (
	"net/http"
	"strings"

	"github.com/wageflow/wageflow-backend/pkg/errors"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
)

// Authenticate rejects requests without a valid bearer token for a company
// and attaches the caller identity otherwise.
func (m *Manager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			httputil.Error(w, errors.Unauthorized("missing bearer token"))
			return
		}

		claims, err := m.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			httputil.Error(w, err)
			return
		}

		id, err := claims.Identity()
		if err != nil {
			httputil.Error(w, err)
			return
		}

		next.ServeHTTP(w, httputil.WithIdentity(r, id))
	})
}
