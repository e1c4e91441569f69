package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kontra/internal/token"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
	"kontra/pkg/platform/httputil"
)

// TokenValidator verifies bearer tokens from the chat transport.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

type contextKeyUserID struct{}
type contextKeyAdmin struct{}

// UserIDFrom returns the authenticated caller, or the nil id when the
// request skipped auth.
func UserIDFrom(ctx context.Context) domain.UserID {
	id, ok := ctx.Value(contextKeyUserID{}).(domain.UserID)
	if !ok {
		return domain.UserID(0)
	}
	return id
}

func isAdminFrom(ctx context.Context) bool {
	admin, ok := ctx.Value(contextKeyAdmin{}).(bool)
	return ok && admin
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected token", slog.Any("error", err))
				httputil.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID{}, domain.UserID(claims.UserID))
			ctx = context.WithValue(ctx, contextKeyAdmin{}, claims.Admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards the admin endpoints. It runs after RequireAuth and
// accepts either the token's admin claim or the configured allow-list.
func RequireAdmin(isAdmin func(domain.UserID) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !isAdminFrom(ctx) && !isAdmin(UserIDFrom(ctx)) {
				httputil.WriteError(w, derrors.New(derrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
