package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/httpx"
	"github.com/oggyb/ideaji/internal/identity"
)

var ErrInvalidToken = svcErr.Unauthenticated("invalid or expired token")

// Verifier turns a bearer token into a principal.
type Verifier interface {
	Verify(token string) (identity.Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal in the request context.
func RequireAuth(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				httpx.WriteError(w, r, logger, svcErr.Unauthenticated("authentication required"))
				return
			}
			p, err := v.Verify(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "err", err)
				httpx.WriteError(w, r, logger, ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// lets anonymous requests through. An invalid token is still rejected.
func OptionalAuth(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := v.Verify(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "err", err)
				httpx.WriteError(w, r, logger, ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
}
