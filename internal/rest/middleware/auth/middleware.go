package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/redis"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type userCtxKey struct{}

// FromContext retrieves the authenticated user from the context.
// Returns nil for anonymous requests.
func FromContext(ctx context.Context) *types.User {
	if user, ok := ctx.Value(userCtxKey{}).(*types.User); ok {
		return user
	}
	return nil
}

// Middleware resolves bearer tokens to users and enforces account standing.
type Middleware struct {
	sessions *redis.SessionStore
	db       database.Client
	logger   *zap.Logger
}

// New creates a new auth middleware.
func New(sessions *redis.SessionStore, db database.Client, logger *zap.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		db:       db,
		logger:   logger,
	}
}

// Authenticate resolves the Authorization header if present. Requests
// without a token continue as anonymous; banned accounts are rejected.
func (m *Middleware) Authenticate(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		token := bearerToken(req.Header.Get("Authorization"))
		if token == "" {
			return next(w, req)
		}

		session, err := m.sessions.Get(req.Context(), token)
		if err != nil {
			if errors.Is(err, redis.ErrSessionNotFound) {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return nil
			}

			m.logger.Error("Failed to resolve session", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)

			return nil
		}

		user, err := m.db.Model().User().GetUserByID(req.Context(), session.UserID)
		if err != nil {
			if errors.Is(err, types.ErrUserNotFound) {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return nil
			}

			m.logger.Error("Failed to load session user", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)

			return nil
		}

		if user.IsBanned {
			http.Error(w, "Account is banned", http.StatusForbidden)
			return nil
		}

		ctx := context.WithValue(req.Context(), userCtxKey{}, user)

		return next(w, req.WithContext(ctx))
	}
}

// RequireAuth rejects anonymous requests.
func (m *Middleware) RequireAuth(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		if FromContext(req.Context()) == nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return nil
		}

		return next(w, req)
	}
}

// RequireActive rejects anonymous and currently suspended users. Used on
// write endpoints; suspended accounts keep read access.
func (m *Middleware) RequireActive(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		user := FromContext(req.Context())
		if user == nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return nil
		}

		if !user.SuspendedUntil.IsZero() && time.Now().Before(user.SuspendedUntil) {
			http.Error(w, "Account is suspended", http.StatusForbidden)
			return nil
		}

		return next(w, req)
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
