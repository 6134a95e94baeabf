package app

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/medref/medref/internal/observability"
	"github.com/medref/medref/internal/policy"
)

// Headers set by the trusted gateway in front of the service.
const (
	HeaderActorID       = "X-Actor-ID"
	HeaderActorRole     = "X-Actor-Role"
	HeaderActorFacility = "X-Actor-Facility"
	HeaderActorDoctor   = "X-Actor-Doctor"
	HeaderActorPatient  = "X-Actor-Patient"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
}

// MiddlewareStack installs the MedRef middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         cfg.Config == nil || !cfg.Config.IsProduction(),
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return cfg.Metrics.Middleware(next)
		})
	}
	if cfg.Config != nil && cfg.Config.TrustActorHeaders {
		middlewares = append(middlewares, ActorHeaders)
	}
	return middlewares
}

// ActorHeaders places the actor asserted by the gateway headers into the
// request context. Requests without an actor id and role pass through
// without one and are refused by permission-gated routes.
func ActorHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := policy.Actor{
			ID:         strings.TrimSpace(r.Header.Get(HeaderActorID)),
			Role:       strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole))),
			FacilityID: strings.TrimSpace(r.Header.Get(HeaderActorFacility)),
			DoctorID:   strings.TrimSpace(r.Header.Get(HeaderActorDoctor)),
			PatientID:  strings.TrimSpace(r.Header.Get(HeaderActorPatient)),
		}
		if actor.ID == "" || actor.Role == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(policy.ContextWithActor(r.Context(), actor)))
	})
}

// RateLimit throttles a route group per client IP. A non-positive limit
// disables throttling.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
}
