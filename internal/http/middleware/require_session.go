package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/http/response"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// RequireSession fully resolves the session cookie (store lookup, lazy
// expiry) and rejects the request with 401 when no live session exists.
// This is the second tier behind the route guard's presence check.
func RequireSession(sessions *service.SessionService, cookieCfg cookies.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie := cookies.NewSession(w, r, cookieCfg)
			sess, user, err := sessions.Resolve(r.Context(), cookie)
			if err != nil {
				if errors.Is(err, service.ErrNoSession) {
					response.Error(w, r, http.StatusUnauthorized, "Nao autorizado", nil)
					return
				}
				slog.ErrorContext(r.Context(), "session resolution failed", "error", err)
				response.Error(w, r, http.StatusInternalServerError, "Erro interno", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(*domain.User)
	return u, ok
}

func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*domain.Session)
	return s, ok
}
