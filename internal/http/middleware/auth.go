// Package middleware holds request gates shared by the HTTP handlers.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/findash/internal/auth"
	"github.com/MrJamesThe3rd/findash/internal/http/respond"
)

// TokenCookie is the name of the session cookie.
const TokenCookie = "token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid session token and stores the
// caller's identity in the request context.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), TokenFrom(r))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuth stores the caller's identity when the request carries a valid
// session token and otherwise passes the request through unchanged.
func OptionalAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := a.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// TokenFrom returns the bearer token from the Authorization header, falling
// back to the session cookie.
func TokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}

	return ""
}
