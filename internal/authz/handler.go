package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plataforma-sst/accessgate/internal/platform/httpx"
	"github.com/plataforma-sst/accessgate/internal/session"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Refresher enqueues a platform-wide permissions refresh.
type Refresher interface {
	EnqueuePermissionsRefresh(ctx context.Context, reason string) error
}

// Handler wires HTTP endpoints for permission resolution.
type Handler struct {
	logger    *slog.Logger
	sessions  *session.Manager
	resolver  *Resolver
	tracker   *Tracker
	refresher Refresher
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, sessions *session.Manager, resolver *Resolver, tracker *Tracker, refresher Refresher) *Handler {
	return &Handler{
		logger:    logger,
		sessions:  sessions,
		resolver:  resolver,
		tracker:   tracker,
		refresher: refresher,
	}
}

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/check", h.handleCheck)
	r.Get("/my-pages", h.handleMyPages)
	r.Get("/page", h.handlePage)
}

// MountInternalRoutes registers operator-facing routes.
func (h *Handler) MountInternalRoutes(r chi.Router) {
	r.Post("/permissions/refresh", h.handleRefresh)
}

// HandleMyPermissions serves the resolved snapshot for the current principal.
func (h *Handler) HandleMyPermissions(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	snap := h.SnapshotFor(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{
		"capabilities": snap.Capabilities,
		"page_grants":  snap.Grants,
	})
}

// SnapshotFor returns the current snapshot for the request's device, resolving
// it if no snapshot has been computed since the last invalidation.
func (h *Handler) SnapshotFor(ctx context.Context) Snapshot {
	deviceID := shared.DeviceIDFromContext(ctx)
	principal := shared.PrincipalFromContext(ctx)
	if principal == nil {
		return Snapshot{Capabilities: AllFalse()}
	}
	if snap, ok := h.tracker.Current(deviceID); ok {
		return snap
	}

	token := h.tokenFor(ctx, deviceID)
	gen := h.tracker.Begin(deviceID)
	snap := h.resolver.Resolve(ctx, principal, token)
	if !h.tracker.Complete(deviceID, gen, snap) {
		// Superseded mid-resolve; serve the stale computation once without
		// caching it.
		if current, ok := h.tracker.Current(deviceID); ok {
			return current
		}
	}
	return snap
}

type checkRequest struct {
	ResourceType string `json:"resource_type"`
	Action       string `json:"action"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body is not valid JSON")
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	deviceID := shared.DeviceIDFromContext(r.Context())
	ok := h.resolver.CheckPermission(r.Context(), principal, h.tokenFor(r.Context(), deviceID), req.ResourceType, req.Action)
	httpx.JSON(w, http.StatusOK, map[string]bool{"has_permission": ok})
}

func (h *Handler) handleMyPages(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	snap := h.SnapshotFor(r.Context())
	httpx.JSON(w, http.StatusOK, snap.Grants)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	if route == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Parameter", "query parameter 'route' is required")
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	snap := h.SnapshotFor(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]bool{"can_access": CanAccessPage(route, principal, snap)})
}

type refreshRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	if !principal.IsAdmin() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "only administrators can trigger a refresh")
		return
	}
	var req refreshRequest
	_ = httpx.DecodeJSON(r, &req)

	if err := h.refresher.EnqueuePermissionsRefresh(r.Context(), req.Reason); err != nil {
		h.logger.Error("enqueue permissions refresh", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) tokenFor(ctx context.Context, deviceID string) string {
	sess, err := h.sessions.Initialize(ctx, deviceID)
	if err != nil || sess == nil {
		if err != nil {
			h.logger.Warn("load session for resolve", slog.Any("error", err))
		}
		return ""
	}
	return sess.Token
}
