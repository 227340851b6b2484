package httpserver

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"venue_booking/internal/domain"
)

type TokenParser interface {
	Parse(raw string) (domain.Principal, error)
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller set by Authenticate.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// Authenticate requires a valid bearer token.
func (h *Handlers) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeProblem(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		p, err := h.Tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

// RequireRole must run after Authenticate.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok || p.Role != role {
				writeProblem(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly checks the X-Admin-Key header. With no key configured the admin
// routes are closed.
func (h *Handlers) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Admin-Key")
		if h.AdminKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.AdminKey)) != 1 {
			writeProblem(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func principal(r *http.Request) domain.Principal {
	p, _ := PrincipalFrom(r.Context())
	return p
}
