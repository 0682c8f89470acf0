package routeguard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/decisionlog"
	"github.com/plataforma-sst/accessgate/internal/platform/httpx"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Handler wires the guard decision endpoint.
type Handler struct {
	logger   *slog.Logger
	registry *Registry
	authz    *authz.Handler
	recorder decisionlog.Recorder
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, registry *Registry, authzHandler *authz.Handler, recorder decisionlog.Recorder) *Handler {
	return &Handler{logger: logger, registry: registry, authz: authzHandler, recorder: recorder}
}

// MountRoutes registers guard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/route", h.handleRoute)
}

func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("path")
	if route == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Parameter", "query parameter 'path' is required")
		return
	}

	principal := shared.PrincipalFromContext(r.Context())
	snap := h.authz.SnapshotFor(r.Context())
	decision := h.registry.Decide(route, principal, snap.Capabilities)

	if h.recorder != nil {
		rec := decisionlog.Record{
			Route:    route,
			Rule:     decision.Rule,
			Decision: "deny",
			Source:   "routeguard",
		}
		if decision.Allowed {
			rec.Decision = "allow"
		}
		if principal != nil {
			rec.ActorID = principal.ID
			rec.ActorRole = string(principal.BaseRole())
		}
		h.recorder.Record(r.Context(), rec)
	}

	httpx.JSON(w, http.StatusOK, decision)
}
