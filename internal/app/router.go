package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medref/medref/internal/authz"
	"github.com/medref/medref/internal/observability"
	"github.com/medref/medref/internal/platform/httpx"
	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/roles"
	"github.com/medref/medref/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Registry           *rbac.Registry
	AuthzHandler       *authz.Handler
	RolesHandler       *roles.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with MedRef defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if params.Registry != nil {
			table := params.Registry.Table()
			body["rbac_source"] = table.Source()
			body["rbac_loaded_at"] = table.LoadedAt()
		}
		httpx.JSON(w, http.StatusOK, body)
	})

	if params.AuthzHandler != nil {
		limit := 0
		if params.Config != nil {
			limit = params.Config.AuthzRateLimit
		}
		r.Route("/authz", func(r chi.Router) {
			r.Use(RateLimit(limit))
			params.AuthzHandler.MountRoutes(r)
		})
	}
	if params.RolesHandler != nil {
		r.Route("/roles", params.RolesHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
