package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/decisionlog"
	"github.com/plataforma-sst/accessgate/internal/menu"
	"github.com/plataforma-sst/accessgate/internal/observability"
	"github.com/plataforma-sst/accessgate/internal/routeguard"
	"github.com/plataforma-sst/accessgate/internal/session"
	"github.com/plataforma-sst/accessgate/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *session.Manager

	SessionHandler    *session.Handler
	AuthzHandler      *authz.Handler
	RouteGuardHandler *routeguard.Handler
	MenuHandler       *menu.Handler
	AuditHandler      *decisionlog.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with gateway defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.SessionHandler.MountAuthRoutes(r)
		if params.AuthzHandler != nil {
			r.Get("/me/permissions", params.AuthzHandler.HandleMyPermissions)
		}
	})
	if params.AuthzHandler != nil {
		r.Route("/permissions", params.AuthzHandler.MountRoutes)
		r.Route("/internal", params.AuthzHandler.MountInternalRoutes)
	}
	if params.RouteGuardHandler != nil {
		r.Route("/access", params.RouteGuardHandler.MountRoutes)
	}
	if params.MenuHandler != nil {
		r.Route("/menu", params.MenuHandler.MountRoutes)
	}
	r.Route("/prefs", params.SessionHandler.MountPrefRoutes)
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
