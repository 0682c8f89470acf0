package menu

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/platform/httpx"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Handler serves the filtered navigation tree.
type Handler struct {
	logger  *slog.Logger
	builder *Builder
	authz   *authz.Handler
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, builder *Builder, authzHandler *authz.Handler) *Handler {
	return &Handler{logger: logger, builder: builder, authz: authzHandler}
}

// MountRoutes registers menu routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleMenu)
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}

	snap := h.authz.SnapshotFor(r.Context())
	entries := h.builder.Build(principal, snap.Capabilities)
	if entries == nil {
		entries = []Entry{}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"role_label": RoleLabel(principal.BaseRole()),
	})
}
