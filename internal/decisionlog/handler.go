package decisionlog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plataforma-sst/accessgate/internal/platform/httpx"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Handler serves the decision timeline to administrators.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/decisions", h.handleTimeline)
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	if !principal.IsAdmin() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "only administrators can view the decision log")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	actorID, _ := strconv.ParseInt(q.Get("actor_id"), 10, 64)

	filter := Filter{
		ActorID:  actorID,
		Decision: q.Get("decision"),
		Source:   q.Get("source"),
	}

	result, err := h.service.Timeline(r.Context(), filter, page, perPage)
	if err != nil {
		h.logger.Error("list decision timeline", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
