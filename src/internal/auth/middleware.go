package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/api/apiErrors"
	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

// IdentityResolver exchanges a verified email for a provisioned user.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, email string) (model.User, error)
}

type Middleware struct {
	cfg      Config
	resolver IdentityResolver
	log      *zap.Logger
}

func NewMiddleware(cfg Config, resolver IdentityResolver, logger *zap.Logger) *Middleware {
	return &Middleware{cfg: cfg, resolver: resolver, log: logger}
}

// Require rejects requests without a valid token for a provisioned user and
// stores the resolved identity on the request context.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r.Header.Get("Authorization"))
		email, err := VerifiedEmail(token, m.cfg)
		if err != nil {
			m.log.Debug("token rejected", zap.Error(err))
			writeAuthError(w, http.StatusUnauthorized, apiErrors.NotAuthenticated, "valid bearer token required")
			return
		}

		user, err := m.resolver.ResolveIdentity(r.Context(), email)
		if err != nil {
			var e apiErrors.APIError
			if errors.As(err, &e) && e.Code == apiErrors.UserNotProvisioned {
				m.log.Debug("credential valid but user not provisioned", zap.String("email", email))
				writeAuthError(w, http.StatusForbidden, e.Code, e.Message)
				return
			}
			m.log.Error("identity resolution failed", zap.Error(err))
			writeAuthError(w, http.StatusServiceUnavailable, apiErrors.StoreUnavailable, "identity lookup failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
	})
}

func writeAuthError(w http.ResponseWriter, status int, code apiErrors.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}
