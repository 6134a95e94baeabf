package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/medref/medref/internal/policy"
)

// Middleware gates coarse features by catalog permission. It is never the
// authority for a concrete resource decision; that belongs to the policy
// engine.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAny ensures the current actor's role holds at least one of the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := policy.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if hasAnyPermission(m.Service.Registry().Table(), actor.Role, normalized) {
				next.ServeHTTP(w, r)
				return
			}
			m.denied(r, actor)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAll ensures the current actor's role holds all required permissions.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := policy.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if hasAllPermissions(m.Service.Registry().Table(), actor.Role, normalized) {
				next.ServeHTTP(w, r)
				return
			}
			m.denied(r, actor)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func (m Middleware) denied(r *http.Request, actor policy.Actor) {
	if m.Logger != nil {
		m.Logger.Debug("rbac feature denied",
			slog.String("path", r.URL.Path),
			slog.String("role", actor.Role))
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}

func hasAnyPermission(table *Table, role string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if table.Grants(role, r) {
			return true
		}
	}
	return false
}

func hasAllPermissions(table *Table, role string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if !table.Grants(role, r) {
			return false
		}
	}
	return true
}
