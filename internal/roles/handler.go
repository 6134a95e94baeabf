package roles

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medref/medref/internal/platform/httpx"
	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/shared"
)

// Handler exposes role metadata and reload endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	roles   *rbac.Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, roles *rbac.Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, roles: roles, rbac: rbac}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermSystemRoles, shared.PermUsersManageRoles))
		r.Get("/", h.listRoles)
		r.Get("/{slug}", h.showRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermSystemRoles))
		r.Post("/reload", h.reload)
	})
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	table := h.roles.Registry().Table()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"roles":     h.service.Summaries(),
		"source":    table.Source(),
		"loaded_at": table.LoadedAt(),
	})
}

func (h *Handler) showRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.roles.GetRole(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, rbac.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	table, err := h.roles.ReloadAndBroadcast(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("roles reload", slog.Any("error", err))
		}
		if table == nil {
			httpx.RespondError(w, httpx.ErrUnavailable)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"source":    table.Source(),
		"roles":     len(table.Roles()),
		"loaded_at": table.LoadedAt(),
	})
}
