package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/plataforma-sst/accessgate/internal/decisionlog"
	"github.com/plataforma-sst/accessgate/internal/platform/httpx"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Handler wires HTTP endpoints for authentication and device preferences.
type Handler struct {
	logger    *slog.Logger
	manager   *Manager
	prefs     *PrefStore
	recorder  decisionlog.Recorder
	onChange  func(deviceID string)
	validator *validator.Validate
}

// NewHandler constructs a Handler. onChange is invoked after any mutation that
// replaces or destroys the principal, so permission snapshots can be invalidated.
func NewHandler(logger *slog.Logger, manager *Manager, prefs *PrefStore, recorder decisionlog.Recorder, onChange func(deviceID string)) *Handler {
	return &Handler{
		logger:    logger,
		manager:   manager,
		prefs:     prefs,
		recorder:  recorder,
		onChange:  onChange,
		validator: validator.New(),
	}
}

// MountAuthRoutes registers authentication routes.
func (h *Handler) MountAuthRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/refresh", h.handleRefresh)
	r.Get("/me", h.handleMe)
	r.Put("/me", h.handleUpdateMe)
}

// MountPrefRoutes registers sidebar preference routes.
func (h *Handler) MountPrefRoutes(r chi.Router) {
	r.Get("/sidebar", h.handleGetPrefs)
	r.Put("/sidebar", h.handlePutPrefs)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User *shared.Principal `json:"user"`
}

type updateProfileRequest struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Phone          string `json:"phone"`
	ProfilePicture string `json:"profile_picture"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body is not valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	deviceID := shared.DeviceIDFromContext(r.Context())
	sess, err := h.manager.Login(r.Context(), deviceID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrAuthenticationFailed) {
			h.record(r, nil, "login", "deny")
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Unavailable", "")
		return
	}
	if h.onChange != nil {
		h.onChange(deviceID)
	}
	h.record(r, sess.Principal, "login", "allow")
	httpx.JSON(w, http.StatusOK, sessionResponse{User: sess.Principal})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	deviceID := shared.DeviceIDFromContext(r.Context())
	principal := shared.PrincipalFromContext(r.Context())

	sess, err := h.manager.Initialize(r.Context(), deviceID)
	if err != nil {
		h.logger.Error("logout load session", slog.Any("error", err))
	}
	if err := h.manager.Logout(r.Context(), sess); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if h.onChange != nil {
		h.onChange(deviceID)
	}
	h.record(r, principal, "logout", "allow")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	deviceID := shared.DeviceIDFromContext(r.Context())
	sess, err := h.manager.Initialize(r.Context(), deviceID)
	if err != nil {
		h.logger.Error("refresh load session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if sess == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	refreshed, err := h.manager.RefreshProfile(r.Context(), sess)
	if err != nil {
		if h.onChange != nil {
			h.onChange(deviceID)
		}
		httpx.Problem(w, http.StatusUnauthorized, "Session Invalid", "session could not be reconfirmed")
		return
	}
	if h.onChange != nil {
		h.onChange(deviceID)
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: refreshed.Principal})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: principal})
}

// handleUpdateMe applies profile edits already confirmed by the profile
// service: the persisted snapshot is replaced locally, without an upstream
// round trip. Identity fields (id, email, role) are never writable here.
func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body is not valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	deviceID := shared.DeviceIDFromContext(r.Context())
	sess, err := h.manager.Initialize(r.Context(), deviceID)
	if err != nil {
		h.logger.Error("update profile load session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if sess == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}

	updated := *sess.Principal
	updated.FirstName = req.FirstName
	updated.LastName = req.LastName
	updated.Phone = req.Phone
	updated.ProfilePicture = req.ProfilePicture
	if err := h.manager.UpdateProfile(r.Context(), deviceID, &updated); err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if h.onChange != nil {
		h.onChange(deviceID)
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: &updated})
}

func (h *Handler) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	deviceID := shared.DeviceIDFromContext(r.Context())
	prefs, err := h.prefs.Get(r.Context(), deviceID)
	if err != nil {
		h.logger.Error("load prefs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, prefs)
}

func (h *Handler) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	var prefs SidebarPrefs
	if err := httpx.DecodeJSON(r, &prefs); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body is not valid JSON")
		return
	}
	deviceID := shared.DeviceIDFromContext(r.Context())
	if err := h.prefs.Put(r.Context(), deviceID, prefs); err != nil {
		h.logger.Error("store prefs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLoginForTest exposes the login endpoint to tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleMeForTest exposes the me endpoint to tests.
func (h *Handler) HandleMeForTest(w http.ResponseWriter, r *http.Request) {
	h.handleMe(w, r)
}

// HandleUpdateMeForTest exposes the profile update endpoint to tests.
func (h *Handler) HandleUpdateMeForTest(w http.ResponseWriter, r *http.Request) {
	h.handleUpdateMe(w, r)
}

func (h *Handler) record(r *http.Request, p *shared.Principal, action, decision string) {
	if h.recorder == nil {
		return
	}
	rec := decisionlog.Record{
		Route:    r.URL.Path,
		Rule:     action,
		Decision: decision,
		Source:   "session",
	}
	if p != nil {
		rec.ActorID = p.ID
		rec.ActorRole = string(p.BaseRole())
	}
	h.recorder.Record(r.Context(), rec)
}
